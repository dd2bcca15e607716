package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

// loadcsv imports ingredient reference data from a two-column CSV file:
// name,measurement_unit. Rows that already exist are skipped by the unique
// (name, unit) constraint.
func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatal(err)
	}

	ingredients := make([]domain.Ingredient, 0, len(records))
	for _, record := range records {
		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			continue
		}
		ingredients = append(ingredients, domain.Ingredient{
			Name:            name,
			MeasurementUnit: unit,
		})
	}

	repo := repository.NewIngredientRepository(db)
	if err := repo.CreateBatch(context.Background(), ingredients); err != nil {
		log.Fatal(err)
	}
	log.Printf("imported %d ingredients from %s", len(ingredients), *path)
}
