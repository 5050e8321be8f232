package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-ingest-service/ai"
	"news-ingest-service/api"
	"news-ingest-service/config"
	"news-ingest-service/feeds"
	"news-ingest-service/ingest"
	"news-ingest-service/metrics"
	"news-ingest-service/store"
	"news-ingest-service/worker"
)

func main() {
	log.Println("Starting News Ingest Service...")

	cfg := config.Load()
	metrics.Init("news-ingest-service", "1.0", os.Getenv("ENVIRONMENT"))

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongoClient.Ping(context.Background(), nil); err != nil {
		log.Fatal("MongoDB ping error:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database("newsdb")
	articles := store.NewArticleStore(db)

	// Connect to NATS
	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		log.Fatal("Failed to connect to NATS:", err)
	}
	defer nc.Close()
	log.Println("Connected to NATS")

	pipeline := ingest.NewPipeline(ingest.Options{
		FeedURLs:        cfg.FeedURLs,
		MaxNewsLimit:    cfg.MaxNewsLimit,
		MaxItemsPerFeed: cfg.MaxItemsPerFeed,
		ItemDelay:       cfg.ItemDelay,
	}, feeds.NewClient(), ai.NewRewriter(ai.Options{
		BaseURL:    cfg.AIBaseURL,
		APIKey:     cfg.AIAPIKey,
		Models:     cfg.AIModels,
		RetryDelay: cfg.ModelRetryDelay,
		Timeout:    cfg.AITimeout,
	}), articles)

	w := worker.NewWorker(cfg, nc, pipeline)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	// Start the HTTP API
	go api.StartServer(api.NewHandler(articles, nc), cfg.Port)

	// Start worker
	log.Println("News ingest service is running...")
	if err := w.Start(ctx); err != nil && err != context.Canceled {
		log.Fatal("Worker failed:", err)
	}

	log.Println("News ingest service stopped")
}
