package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/recipes"
	"foodgram/internal/modules/users"
	"foodgram/internal/pkg/images"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
)

func main() {
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

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	imageStore := images.NewStore(cfg.MediaRoot)

	authService := auth.NewService(userRepo, jwtService, revokedRepo)
	authHandler := auth.NewHandler(authService)

	usersService := users.NewService(userRepo, subscriptionRepo, recipeRepo)
	usersHandler := users.NewHandler(usersService)

	catalogService := catalog.NewService(tagRepo, ingredientRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	recipesService := recipes.NewService(
		recipeRepo,
		tagRepo,
		ingredientRepo,
		favoriteRepo,
		cartRepo,
		userRepo,
		subscriptionRepo,
		imageStore,
	)
	recipesHandler := recipes.NewHandler(recipesService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())
	r.Static("/media", cfg.MediaRoot)

	api := r.Group("/api")
	{
		// Public reads carry OptionalAuth so is_favorited, is_in_shopping_cart
		// and is_subscribed resolve for logged-in viewers.
		public := api.Group("/", middleware.OptionalAuth(jwtService, revokedRepo, userRepo))
		{
			authHandler.RegisterPublicRoutes(public)
			usersHandler.RegisterPublicRoutes(public)
			recipesHandler.RegisterPublicRoutes(public)
			catalogHandler.RegisterRoutes(public)
		}

		protected := api.Group("/", middleware.Auth(jwtService, revokedRepo, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			usersHandler.RegisterProtectedRoutes(protected)
			recipesHandler.RegisterProtectedRoutes(protected)
		}
	}

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
