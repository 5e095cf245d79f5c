package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recipeshare/internal/api"
	"recipeshare/internal/config"
	"recipeshare/internal/enhance"
	"recipeshare/internal/platform/gemini"
	"recipeshare/internal/platform/openrouter"
	"recipeshare/internal/recipe"
	"recipeshare/internal/review"
	"recipeshare/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}
	defer log.Sync()

	recipeStore, err := recipe.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		panic(fmt.Errorf("error creating recipe store: %w", err))
	}

	reviewStore, err := review.NewPostgresStore(recipeStore.DB())
	if err != nil {
		panic(fmt.Errorf("error creating review store: %w", err))
	}

	var completer enhance.Completer
	switch cfg.LLM.Provider {
	case "gemini":
		completer, err = gemini.NewClient(ctx, cfg.LLM.APIKey)
		if err != nil {
			panic(fmt.Errorf("error creating gemini client: %w", err))
		}
	default:
		completer = openrouter.NewClient(openrouter.Config{
			APIURL:  cfg.LLM.APIURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
	}

	rewriter := enhance.NewService(completer, recipeStore, log)
	ingestor := review.NewService(reviewStore, recipeStore, log)

	handler := api.NewHandler(recipeStore, reviewStore, ingestor, rewriter, log, cfg.Images.Dir, cfg.Log.Development)

	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.Register(r.Group("/api"))
	r.Static("/images", cfg.Images.Dir)

	log.Info("starting server")
	if err := r.Run(cfg.Server.Address); err != nil {
		panic(fmt.Errorf("server exited: %w", err))
	}
}
