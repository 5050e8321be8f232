package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"news-ingest-service/middleware"
	"news-ingest-service/model"
	"news-ingest-service/store"
	"news-ingest-service/worker"
)

// Handler exposes the read/trigger HTTP surface of the ingest service.
type Handler struct {
	store *store.ArticleStore
	nc    *nats.Conn
}

func NewHandler(articles *store.ArticleStore, nc *nats.Conn) *Handler {
	return &Handler{store: articles, nc: nc}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.PrometheusMiddleware("news-ingest-service"))

	// Health check routes
	router.GET("/", healthCheck)
	router.GET("/health", healthCheck)
	router.GET("/ready", healthCheck)

	// API routes
	router.POST("/ingest-api/run", h.triggerRun)
	router.GET("/ingest-api/articles", h.getArticles)
	router.GET("/ingest-api/stats", h.getStats)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func StartServer(h *Handler, port string) {
	router := NewRouter(h)
	log.Printf("Ingest API is running at %s", port)
	if err := router.Run(port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "news-ingest-service"})
}

// triggerRun publishes an ingest request; the worker picks it up and
// streams progress on the progress subject.
func (h *Handler) triggerRun(c *gin.Context) {
	req := model.IngestRequest{
		RequestID: uuid.NewString(),
		Priority:  c.DefaultQuery("priority", "high"),
	}
	if max, err := strconv.Atoi(c.Query("max")); err == nil && max > 0 {
		req.MaxArticles = max
	}

	log.Printf("Manual ingest triggered: requestID=%s priority=%s", req.RequestID, req.Priority)

	data, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build request", "details": err.Error()})
		return
	}

	if err := h.nc.Publish(worker.SubjectRequest, data); err != nil {
		log.Printf("Failed to trigger ingest run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger ingest", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Ingest run triggered",
		"requestId": req.RequestID,
		"progress":  worker.SubjectProgress,
	})
}

func (h *Handler) getArticles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "33"))
	if limit < 1 || limit > 100 {
		limit = 33
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	articles, err := h.store.Recent(ctx, int64(limit))
	if err != nil {
		log.Printf("DB query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

func (h *Handler) getStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := h.store.Stats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stats query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categoryStats": stats,
		"timestamp":     time.Now(),
	})
}
