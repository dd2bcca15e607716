package e2e

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/recipes"
	"foodgram/internal/modules/users"
	"foodgram/internal/pkg/images"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type e2eSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type errorDetail struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorDetail    `json:"error"`
}

func setupSuite(t *testing.T) *e2eSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to open test database")

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)

	jwtService := jwtsvc.New("e2e-test-secret", time.Hour)
	imageStore := images.NewStore(t.TempDir())

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService, revokedRepo))
	usersHandler := users.NewHandler(users.NewService(userRepo, subscriptionRepo, recipeRepo))
	catalogHandler := catalog.NewHandler(catalog.NewService(tagRepo, ingredientRepo))
	recipesHandler := recipes.NewHandler(recipes.NewService(
		recipeRepo,
		tagRepo,
		ingredientRepo,
		favoriteRepo,
		cartRepo,
		userRepo,
		subscriptionRepo,
		imageStore,
	))

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	public := api.Group("/", middleware.OptionalAuth(jwtService, revokedRepo, userRepo))
	authHandler.RegisterPublicRoutes(public)
	usersHandler.RegisterPublicRoutes(public)
	recipesHandler.RegisterPublicRoutes(public)
	catalogHandler.RegisterRoutes(public)

	protected := api.Group("/", middleware.Auth(jwtService, revokedRepo, userRepo))
	authHandler.RegisterProtectedRoutes(protected)
	usersHandler.RegisterProtectedRoutes(protected)
	recipesHandler.RegisterProtectedRoutes(protected)

	return &e2eSuite{router: r, db: db}
}

func (s *e2eSuite) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	env := decode(t, w)
	require.True(t, env.Success, "body: %s", w.Body.String())

	var m map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}

// signup registers a user through the API and logs in, returning the user id
// and a bearer token.
func (s *e2eSuite) signup(t *testing.T, username, email string) (int64, string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"username":   username,
		"email":      email,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	id := int64(dataMap(t, w)["id"].(float64))

	return id, s.login(t, email)
}

func (s *e2eSuite) login(t *testing.T, email string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	return dataMap(t, w)["auth_token"].(string)
}

func (s *e2eSuite) promoteToAdmin(t *testing.T, userID int64) {
	t.Helper()
	err := s.db.Model(&domain.User{}).Where("id = ?", userID).
		Update("role", domain.RoleAdmin).Error
	require.NoError(t, err)
}

// seedCatalog inserts a tag and two ingredients directly, the way the CSV
// loader would, and returns their ids.
func (s *e2eSuite) seedCatalog(t *testing.T) (tagID int64, flourID int64, sugarID int64) {
	t.Helper()

	tag := domain.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}
	require.NoError(t, s.db.Create(&tag).Error)

	flour := domain.Ingredient{Name: "flour", MeasurementUnit: "grams"}
	sugar := domain.Ingredient{Name: "sugar", MeasurementUnit: "grams"}
	require.NoError(t, s.db.Create(&flour).Error)
	require.NoError(t, s.db.Create(&sugar).Error)

	return tag.ID, flour.ID, sugar.ID
}

func testImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("test image bytes"))
}

func recipePayload(name string, tagID int64, ingredients []map[string]any) map[string]any {
	return map[string]any{
		"name":         name,
		"text":         "Mix and bake.",
		"image":        testImage(),
		"cooking_time": 30,
		"tags":         []int64{tagID},
		"ingredients":  ingredients,
	}
}

func TestRecipeLifecycle(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "gordon", "gordon@example.com")
	tagID, flourID, sugarID := s.seedCatalog(t)

	w := s.do(t, http.MethodPost, "/api/recipes", token, recipePayload("Pancakes", tagID, []map[string]any{
		{"id": flourID, "amount": 200},
		{"id": sugarID, "amount": 50},
	}))
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	created := dataMap(t, w)
	recipeID := int64(created["id"].(float64))
	assert.Equal(t, "Pancakes", created["name"])
	assert.Contains(t, created["image"], "/media/recipes/images/")

	// Anonymous read sees the recipe with per-viewer flags off.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipeID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	fetched := dataMap(t, w)
	assert.Equal(t, "Pancakes", fetched["name"])
	assert.Equal(t, false, fetched["is_favorited"])
	assert.Equal(t, "gordon", fetched["author"].(map[string]any)["username"])
	assert.Len(t, fetched["ingredients"], 2)
	assert.Len(t, fetched["tags"], 1)

	w = s.do(t, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), dataMap(t, w)["count"])
}

func TestRecipeValidationReportsEveryProblem(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "gordon", "gordon@example.com")
	s.seedCatalog(t)

	w := s.do(t, http.MethodPost, "/api/recipes", token, map[string]any{
		"name":         "Broken",
		"text":         "Nope.",
		"cooking_time": 0,
		"tags":         []int64{},
		"ingredients":  []map[string]any{{"id": 9999, "amount": 0}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", w.Body.String())

	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	var details []map[string]string
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.GreaterOrEqual(t, len(details), 4, "cooking_time, image, tags and ingredients should all be reported")

	// The rejected payload must not leave anything behind.
	var count int64
	require.NoError(t, s.db.Model(&domain.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateReplacesIngredientSet(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "gordon", "gordon@example.com")
	tagID, flourID, sugarID := s.seedCatalog(t)

	w := s.do(t, http.MethodPost, "/api/recipes", token, recipePayload("Cake", tagID, []map[string]any{
		{"id": flourID, "amount": 2},
		{"id": sugarID, "amount": 3},
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := int64(dataMap(t, w)["id"].(float64))

	payload := recipePayload("Cake", tagID, []map[string]any{
		{"id": flourID, "amount": 5},
	})
	payload["image"] = "" // keep the stored image
	w = s.do(t, http.MethodPatch, fmt.Sprintf("/api/recipes/%d", recipeID), token, payload)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	updated := dataMap(t, w)
	ingredients := updated["ingredients"].([]any)
	require.Len(t, ingredients, 1)
	assert.Equal(t, float64(5), ingredients[0].(map[string]any)["amount"])
	assert.Contains(t, updated["image"], "/media/recipes/images/")

	var rows int64
	require.NoError(t, s.db.Model(&domain.RecipeIngredient{}).
		Where("recipe_id = ?", recipeID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "the old ingredient rows must be gone")
}

func TestRecipePermissions(t *testing.T) {
	s := setupSuite(t)
	_, authorToken := s.signup(t, "author", "author@example.com")
	_, otherToken := s.signup(t, "other", "other@example.com")
	adminID, _ := s.signup(t, "admin", "admin@example.com")
	s.promoteToAdmin(t, adminID)
	adminToken := s.login(t, "admin@example.com")

	tagID, flourID, _ := s.seedCatalog(t)
	w := s.do(t, http.MethodPost, "/api/recipes", authorToken, recipePayload("Soup", tagID, []map[string]any{
		{"id": flourID, "amount": 10},
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := int64(dataMap(t, w)["id"].(float64))
	path := fmt.Sprintf("/api/recipes/%d", recipeID)

	// Anonymous writes are rejected before reaching the handler.
	w = s.do(t, http.MethodPost, "/api/recipes", "", recipePayload("Nope", tagID, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A different user may read but not modify.
	patch := recipePayload("Stolen", tagID, []map[string]any{{"id": flourID, "amount": 1}})
	w = s.do(t, http.MethodPatch, path, otherToken, patch)
	assert.Equal(t, http.StatusForbidden, w.Code, "body: %s", w.Body.String())

	w = s.do(t, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins may modify anyone's recipe.
	w = s.do(t, http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code, "body: %s", w.Body.String())

	w = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteAndCartToggles(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "gordon", "gordon@example.com")
	tagID, flourID, _ := s.seedCatalog(t)

	w := s.do(t, http.MethodPost, "/api/recipes", token, recipePayload("Pie", tagID, []map[string]any{
		{"id": flourID, "amount": 100},
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := int64(dataMap(t, w)["id"].(float64))
	favPath := fmt.Sprintf("/api/recipes/%d/favorite", recipeID)

	w = s.do(t, http.MethodPost, favPath, token, nil)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, "Pie", dataMap(t, w)["name"])

	// Second add is a conflict, not an idempotent success.
	w = s.do(t, http.MethodPost, favPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The flag is visible to the owner of the favorite.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipeID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataMap(t, w)["is_favorited"])

	w = s.do(t, http.MethodDelete, favPath, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, favPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A missing recipe is a validation error on POST but a 404 on DELETE.
	w = s.do(t, http.MethodPost, "/api/recipes/9999/shopping_cart", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/recipes/9999/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingListAggregation(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "gordon", "gordon@example.com")
	tagID, flourID, sugarID := s.seedCatalog(t)

	recipeIDs := make([]int64, 0, 2)
	for _, p := range []map[string]any{
		recipePayload("Bread", tagID, []map[string]any{
			{"id": flourID, "amount": 300},
		}),
		recipePayload("Cookies", tagID, []map[string]any{
			{"id": flourID, "amount": 50},
			{"id": sugarID, "amount": 80},
		}),
	} {
		w := s.do(t, http.MethodPost, "/api/recipes", token, p)
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		recipeIDs = append(recipeIDs, int64(dataMap(t, w)["id"].(float64)))
	}

	for _, id := range recipeIDs {
		w := s.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), token, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list_gordon")

	body := w.Body.String()
	assert.Contains(t, body, "flour (grams) - 350", "amounts of the same ingredient must be summed")
	assert.Contains(t, body, "sugar (grams) - 80")
}

func TestSubscriptionFlow(t *testing.T) {
	s := setupSuite(t)
	userID, token := s.signup(t, "reader", "reader@example.com")
	authorID, authorToken := s.signup(t, "writer", "writer@example.com")

	tagID, flourID, _ := s.seedCatalog(t)
	w := s.do(t, http.MethodPost, "/api/recipes", authorToken, recipePayload("Stew", tagID, []map[string]any{
		{"id": flourID, "amount": 20},
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	subscribePath := fmt.Sprintf("/api/users/%d/subscribe", authorID)

	w = s.do(t, http.MethodPost, subscribePath, token, nil)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	entry := dataMap(t, w)
	assert.Equal(t, true, entry["is_subscribed"])
	assert.Equal(t, float64(1), entry["recipes_count"])

	w = s.do(t, http.MethodPost, subscribePath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "double subscription must fail")

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", userID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "self subscription must fail")

	w = s.do(t, http.MethodGet, "/api/users/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), dataMap(t, w)["count"])

	// The author's profile carries the flag for the subscribed viewer.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", authorID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataMap(t, w)["is_subscribed"])

	w = s.do(t, http.MethodDelete, subscribePath, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, subscribePath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unsubscribing twice must fail")
}

func TestCatalogAccess(t *testing.T) {
	s := setupSuite(t)
	_, userToken := s.signup(t, "regular", "regular@example.com")
	adminID, _ := s.signup(t, "admin", "admin@example.com")
	s.promoteToAdmin(t, adminID)
	adminToken := s.login(t, "admin@example.com")

	tagPayload := map[string]any{"name": "Dinner", "color": "#336699", "slug": "dinner"}

	// Writes are admin-only; everyone else gets 405, not 403.
	w := s.do(t, http.MethodPost, "/api/tags", "", tagPayload)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = s.do(t, http.MethodPost, "/api/tags", userToken, tagPayload)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = s.do(t, http.MethodPost, "/api/tags", adminToken, tagPayload)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = s.do(t, http.MethodPost, "/api/tags", adminToken, tagPayload)
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate slug must be rejected")

	w = s.do(t, http.MethodPost, "/api/ingredients", adminToken, map[string]any{
		"name":             "flour",
		"measurement_unit": "grams",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Reads are open to everyone.
	w = s.do(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var ingredients []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "flour", ingredients[0]["name"])
}

func TestAuthTokenLifecycle(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "gordon", "gordon@example.com")

	w := s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{
		"email":    "gordon@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gordon", dataMap(t, w)["username"])

	w = s.do(t, http.MethodPost, "/api/auth/token/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The revoked token no longer opens protected endpoints.
	w = s.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminBlockDisablesAccount(t *testing.T) {
	s := setupSuite(t)
	userID, userToken := s.signup(t, "victim", "victim@example.com")
	adminID, _ := s.signup(t, "admin", "admin@example.com")
	s.promoteToAdmin(t, adminID)
	adminToken := s.login(t, "admin@example.com")

	// Blocking is staff-only.
	blockPath := fmt.Sprintf("/api/users/%d/block", userID)
	w := s.do(t, http.MethodPost, blockPath, userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, blockPath, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	// The outstanding token stops working and a fresh login is refused.
	w = s.do(t, http.MethodGet, "/api/users/me", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{
		"email":    "victim@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSignupIsIdempotentForSamePair(t *testing.T) {
	s := setupSuite(t)
	payload := map[string]any{
		"username":   "gordon",
		"email":      "gordon@example.com",
		"first_name": "Gordon",
		"last_name":  "Cook",
		"password":   "password123",
	}

	w := s.do(t, http.MethodPost, "/api/users", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	firstID := dataMap(t, w)["id"]

	// Resubmitting the same pair returns the existing account.
	w = s.do(t, http.MethodPost, "/api/users", "", payload)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, firstID, dataMap(t, w)["id"])

	// The same username with a different email is a conflict.
	payload["email"] = "other@example.com"
	w = s.do(t, http.MethodPost, "/api/users", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
