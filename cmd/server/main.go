package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"cineforo/config"
	"cineforo/controllers"
	"cineforo/db"
	"cineforo/internal/ratelimit"
	"cineforo/middlewares"
	"cineforo/routes"
	"cineforo/services"
	"cineforo/store"
	"cineforo/utils"
	"cineforo/websocket"
)

func main() {
	// .env is optional; values there override the YAML config.
	godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mongoDB, err := db.Connect(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	kv, err := buildStore(cfg, mongoDB)
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", cfg.Store.Driver, err)
	}
	log.Printf("Using %s store for debate state", cfg.Store.Driver)

	authCtl, verifier, err := buildAuth(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s auth provider: %v", cfg.Auth.Provider, err)
	}

	utils.SeedMovieCatalog(mongoDB)

	limiter, err := buildLimiter(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}

	debates := services.NewDebateService(kv)
	hub := websocket.NewHub()

	router := setupRouter(cfg, &deps{
		auth:    authCtl,
		debates: &controllers.DebateController{Debates: debates, Hub: hub, Limiter: limiter},
		movies:  &controllers.MovieController{DB: mongoDB},
		board:   &controllers.LeaderboardController{Debates: debates},
		hub:     hub,
		verify:  verifier,
	})

	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildStore picks the KV backend for debate state.
func buildStore(cfg *config.Config, mongoDB *mongo.Database) (store.KV, error) {
	switch cfg.Store.Driver {
	case "memory":
		return store.NewMemory(), nil
	case "mongo":
		return store.NewMongo(mongoDB), nil
	case "redis":
		return store.NewRedis(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// buildLimiter picks the rate-limiter backend. A Redis store means the
// service may run with several replicas, so the counters go to Redis
// too; otherwise they stay in process memory.
func buildLimiter(cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RateLimit.MaxMessages <= 0 {
		return nil, nil
	}
	rules := ratelimit.Config{
		Max:    cfg.RateLimit.MaxMessages,
		Window: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}
	if cfg.Store.Driver == "redis" {
		return ratelimit.NewRedis(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB, rules)
	}
	return ratelimit.NewMemory(rules), nil
}

// buildAuth picks the identity provider.
func buildAuth(cfg *config.Config) (*controllers.AuthController, services.TokenVerifier, error) {
	switch cfg.Auth.Provider {
	case "mock":
		mock := services.NewMockAuthService(cfg.Auth.JWT.Secret, time.Duration(cfg.Auth.JWT.ExpiryMinutes)*time.Minute)
		services.PopulateTestUsers(mock)
		return &controllers.AuthController{Mock: mock, Verifier: mock}, mock, nil
	case "cognito":
		cognito, err := services.NewCognitoVerifier(context.Background(),
			cfg.Auth.Cognito.Region, cfg.Auth.Cognito.AppClientId, cfg.Auth.Cognito.AppClientSecret)
		if err != nil {
			return nil, nil, err
		}
		return &controllers.AuthController{Cognito: cognito, Verifier: cognito}, cognito, nil
	}
	return nil, nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
}

type deps struct {
	auth    *controllers.AuthController
	debates *controllers.DebateController
	movies  *controllers.MovieController
	board   *controllers.LeaderboardController
	hub     *websocket.Hub
	verify  services.TokenVerifier
}

func setupRouter(cfg *config.Config, d *deps) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CorsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message":   "Cine Comunitario Online API funcionando correctamente",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	routes.SetupAuthRoutes(router, d.auth)

	authed := router.Group("/")
	authed.Use(middlewares.AuthMiddleware(d.verify))
	{
		routes.SetupProfileRoutes(authed, d.auth)
		routes.SetupCommunityRoutes(authed, d.board)
	}

	admin := router.Group("/")
	admin.Use(middlewares.AdminMiddleware(cfg.Server.AdminToken))
	{
		routes.SetupDebateAdminRoutes(admin, d.debates)
	}

	routes.SetupDebateRoutes(router, authed, d.debates, d.hub, d.verify)
	routes.SetupMovieRoutes(router, authed, d.movies)

	return router
}
