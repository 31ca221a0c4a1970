package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/config"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/handlers"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/middleware"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/services"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/store"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/utils"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/validation"
)

func main() {
	envErr := godotenv.Load()

	cfg, warnings := config.Load()
	logger := utils.NewLogger(cfg.AppName, cfg.Env)
	if envErr != nil {
		logger.Info("No .env file found, relying on environment variables.")
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	logger.WithFields(logrus.Fields{
		"database":   cfg.MongoDatabase,
		"port":       cfg.Port,
		"classifier": cfg.ClassifierURL,
	}).Info("configuration loaded")

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// run owns every resource with cleanup, so errors come back here instead of exiting
// past the deferred disconnect.
func run(cfg *config.Config, logger *logrus.Logger) error {
	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		_ = client.Disconnect(dctx)
	}()
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	logger.Info("Successfully connected to MongoDB!")

	// --- Initialize Services ---
	classifier := services.NewCodeClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout)
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	h := handlers.NewHandler(store.NewMongoUserStore(db), store.NewMongoBillStore(db), classifier, jwtManager, logger)
	h.PasswordCost = cfg.BcryptCost

	// --- Gin Router ---
	gin.SetMode(cfg.GinMode)
	validation.Init()
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	// --- Routes ---
	h.RegisterRoutes(r, middleware.AuthMiddleware(jwtManager))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutting down")

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	return srv.Shutdown(sctx)
}
