package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-babonus/internal/config"
	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/repositories/scenes"
	"github.com/KirkDiggler/dnd-babonus/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	os.Exit(execute(os.Args[1:]))
}

// execute runs the CLI and returns the process exit code once every deferred cleanup has run
func execute(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	providerConfig := &services.ProviderConfig{Engine: cfg.Engine}

	if cfg.Redis.URL != "" {
		client, err := connectRedis(cfg.Redis.URL)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			log.Println("Falling back to in-memory scene storage")
		} else {
			defer func() {
				if err := client.Close(); err != nil {
					log.Printf("Failed to close Redis client: %v", err)
				}
			}()
			providerConfig.SceneRepository = scenes.NewRedis(client)
		}
	}

	root := newRootCmd(&app{
		provider: services.NewProvider(providerConfig),
		roller:   dice.NewRandomRoller(),
	})
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
