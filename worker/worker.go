package worker

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"news-ingest-service/config"
	"news-ingest-service/ingest"
	"news-ingest-service/metrics"
	"news-ingest-service/model"
)

// NATS subjects shared with the API layer and any operator tooling.
const (
	SubjectRequest  = "news.ingest.request"
	SubjectProgress = "news.ingest.progress"
	SubjectResult   = "news.ingest.result"
)

// ProgressMessage is one operator-readable progress line.
type ProgressMessage struct {
	RequestID string    `json:"requestId"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Worker drives the ingest pipeline from NATS trigger messages and a
// periodic ticker. Runs are serialized within this process; overlapping
// triggers are skipped rather than queued.
type Worker struct {
	config   *config.Config
	nc       *nats.Conn
	pipeline *ingest.Pipeline
	running  sync.Mutex
}

func NewWorker(cfg *config.Config, nc *nats.Conn, pipeline *ingest.Pipeline) *Worker {
	return &Worker{
		config:   cfg,
		nc:       nc,
		pipeline: pipeline,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	_, err := w.nc.Subscribe(SubjectRequest, func(msg *nats.Msg) {
		w.handleRequest(ctx, msg)
	})
	if err != nil {
		return err
	}
	log.Printf("Subscribed to %s", SubjectRequest)

	go w.startScheduler(ctx)

	log.Println("Ingest worker started")

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) handleRequest(ctx context.Context, msg *nats.Msg) {
	req := model.IngestRequest{}
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("Failed to unmarshal ingest request: %v", err)
			return
		}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}

	if !w.running.TryLock() {
		log.Printf("Ingest already running, skipping request %s", req.RequestID)
		w.publishProgress(ProgressMessage{
			RequestID: req.RequestID,
			Message:   "Ingest already running, request skipped",
			Severity:  model.SeverityError,
			Timestamp: time.Now(),
		})
		return
	}
	defer w.running.Unlock()

	log.Printf("Processing ingest request: %+v", req)
	metrics.IngestRuns.WithLabelValues(req.Priority).Inc()

	runCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	result := w.pipeline.Run(runCtx, req, w.progressFunc(req.RequestID))
	w.publishResult(result)
}

// progressFunc mirrors each pipeline progress line to the log and to the
// progress subject, synchronously, so the operator stream keeps run order.
func (w *Worker) progressFunc(requestID string) ingest.ProgressFunc {
	return func(message, severity string) {
		log.Printf("[%s] %s: %s", requestID, severity, message)
		w.publishProgress(ProgressMessage{
			RequestID: requestID,
			Message:   message,
			Severity:  severity,
			Timestamp: time.Now(),
		})
	}
}

func (w *Worker) publishProgress(pm ProgressMessage) {
	data, err := json.Marshal(pm)
	if err != nil {
		log.Printf("Failed to marshal progress message: %v", err)
		return
	}
	if err := w.nc.Publish(SubjectProgress, data); err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(SubjectProgress, "error").Inc()
		log.Printf("Failed to publish progress: %v", err)
		return
	}
	metrics.NatsMessagesPublished.WithLabelValues(SubjectProgress, "success").Inc()
}

func (w *Worker) publishResult(result model.IngestResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to marshal ingest result: %v", err)
		return
	}
	if err := w.nc.Publish(SubjectResult, data); err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(SubjectResult, "error").Inc()
		log.Printf("Failed to publish ingest result: %v", err)
		return
	}
	metrics.NatsMessagesPublished.WithLabelValues(SubjectResult, "success").Inc()
	log.Printf("Published ingest result: request=%s articles=%d", result.RequestID, len(result.Published))
}

func (w *Worker) startScheduler(ctx context.Context) {
	ticker := time.NewTicker(w.config.IngestInterval)
	defer ticker.Stop()

	// Run once on startup
	w.scheduleRun()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scheduleRun()
		}
	}
}

// scheduleRun publishes a request instead of invoking the pipeline
// directly, so scheduled and manual triggers share one code path.
func (w *Worker) scheduleRun() {
	req := model.IngestRequest{
		RequestID: uuid.NewString(),
		Priority:  "scheduled",
	}

	data, err := json.Marshal(req)
	if err != nil {
		log.Printf("Failed to marshal scheduled request: %v", err)
		return
	}

	if err := w.nc.Publish(SubjectRequest, data); err != nil {
		log.Printf("Failed to schedule ingest run: %v", err)
		return
	}
	log.Printf("Scheduled ingest run %s", req.RequestID)
}
