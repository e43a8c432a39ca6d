package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/justlayme/chat-insights/analysis"
)

// Router exposes the analysis pipeline over HTTP. The pipeline itself stays
// I/O-free; everything request-shaped lives here.
type Router struct {
	pipeline     *analysis.Pipeline
	logger       *zap.Logger
	maxBodyBytes int64
}

func NewRouter(pipeline *analysis.Pipeline, logger *zap.Logger, cfg Config) http.Handler {
	rt := &Router{
		pipeline:     pipeline,
		logger:       logger,
		maxBodyBytes: int64(cfg.Server.MaxBodyBytes),
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Route("/v1", func(v1 chi.Router) {
		v1.Post("/analyze", rt.wrap(rt.handleAnalyze))
		v1.Get("/schema", rt.wrap(rt.handleSchema))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (rt *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var bad badRequestError
			if errors.As(err, &bad) {
				http.Error(w, bad.msg, http.StatusBadRequest)
				return
			}
			rt.logger.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

type analyzeRequest struct {
	Transcript      string `json:"transcript"`
	Format          string `json:"format"`
	RequesterName   string `json:"requesterName"`
	CounterpartName string `json:"counterpartName"`
	AnalysisGoal    string `json:"analysisGoal"`
}

// POST /v1/analyze
func (rt *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	body := http.MaxBytesReader(w, req.Body, rt.maxBodyBytes)
	defer body.Close()

	var in analyzeRequest
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequestError{"empty request body"}
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return badRequestError{fmt.Sprintf("request body exceeds %d bytes", rt.maxBodyBytes)}
		}
		return badRequestError{"invalid JSON: " + err.Error()}
	}
	if in.Transcript == "" {
		return badRequestError{"transcript is required"}
	}
	switch analysis.FormatHint(in.Format) {
	case analysis.FormatAuto, analysis.FormatFreeform,
		analysis.FormatStructuredText, analysis.FormatStructuredData:
	default:
		return badRequestError{fmt.Sprintf("unknown format %q", in.Format)}
	}

	report := rt.pipeline.Run([]byte(in.Transcript), analysis.FormatHint(in.Format), analysis.Personalization{
		RequesterName:   in.RequesterName,
		CounterpartName: in.CounterpartName,
		AnalysisGoal:    in.AnalysisGoal,
	})
	rt.logger.Info("analysis served",
		zap.String("analysisId", report.AnalysisID),
		zap.Int("messages", report.Stats.TotalMessages),
		zap.Bool("success", report.Success))

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// GET /v1/schema
func (rt *Router) handleSchema(w http.ResponseWriter, req *http.Request) error {
	schema, err := analysis.ReportSchema()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(schema)
}
