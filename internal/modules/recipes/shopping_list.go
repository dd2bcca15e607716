package recipes

import (
	"fmt"
	"strings"
	"time"

	"foodgram/internal/domain"
)

// RenderShoppingList builds the plain-text shopping list. Rows arrive sorted
// by ingredient name from the aggregation query, so the document is
// deterministic for a given cart. An empty cart produces just the header.
func RenderShoppingList(username string, totals []domain.IngredientTotal) string {
	var b strings.Builder

	date := time.Now().Format("2006-01-02")
	fmt.Fprintf(&b, "%s, your shopping list for %s\n\n", username, date)

	for _, row := range totals {
		fmt.Fprintf(&b, "%s (%s) - %d\n", row.Name, row.MeasurementUnit, row.Amount)
	}

	return b.String()
}

func ShoppingListFilename(username string) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("shopping_list_%s_%s.txt", username, date)
}
