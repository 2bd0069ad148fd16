// Package httpapi serves stored configuration graphs over HTTP: the raw
// documents, flattened dumps, and Mermaid renderings, plus health and
// Prometheus metrics endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/printing"
	"github.com/aretw0/arbor/pkg/serialization"
)

// Server exposes a GraphStore over HTTP.
type Server struct {
	store    ports.GraphStore
	log      *slog.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHandler creates the HTTP handler for a graph store.
func NewHandler(store ports.GraphStore, logger *slog.Logger) http.Handler {
	s := &Server{
		store:    store,
		log:      logger,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "arbor_http_request_duration_seconds",
				Help: "Duration of HTTP requests",
			},
			[]string{"route"},
		),
	}
	s.registry.MustRegister(s.requests, s.duration)

	r := chi.NewRouter()
	r.Get("/healthz", s.instrument("healthz", s.getHealth))
	r.Get("/info", s.instrument("info", s.getInfo))
	r.Get("/graphs", s.instrument("list", s.listGraphs))
	r.Get("/graphs/{name}", s.instrument("get", s.getGraph))
	r.Put("/graphs/{name}", s.instrument("put", s.putGraph))
	r.Delete("/graphs/{name}", s.instrument("delete", s.deleteGraph))
	r.Get("/graphs/{name}/flat", s.instrument("flat", s.getFlat))
	r.Get("/graphs/{name}/mermaid", s.instrument("mermaid", s.getMermaid))
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records the request counter and duration per route.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"app":     "arbor-http",
		"version": arbor.Version,
	})
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.log.Error("List failed", "error", err)
		return
	}
	writeJSON(w, map[string][]string{"graphs": names})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		http.Error(w, fmt.Sprintf("Marshal error: %v", err), http.StatusInternalServerError)
		s.log.Error("Marshal failed", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) putGraph(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	doc, err := serialization.ParseJSON(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid document: %v", err), http.StatusBadRequest)
		s.log.Warn("putGraph: invalid document", "error", err)
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
		s.log.Error("Save failed", "error", err, "graph", name)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := s.store.Delete(r.Context(), name)
	if errors.Is(err, ports.ErrGraphNotFound) {
		http.Error(w, "Graph not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.log.Error("Delete failed", "error", err, "graph", name)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getFlat(w http.ResponseWriter, r *http.Request) {
	root, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, printing.Text(root))
}

func (s *Server) getMermaid(w http.ResponseWriter, r *http.Request) {
	root, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.Mermaid(root))
}

func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) (*serialization.Document, bool) {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Load(r.Context(), name)
	if errors.Is(err, ports.ErrGraphNotFound) {
		http.Error(w, "Graph not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.log.Error("Load failed", "error", err, "graph", name)
		return nil, false
	}
	return doc, true
}

func (s *Server) decodeGraph(w http.ResponseWriter, r *http.Request) (config.Buildable, bool) {
	doc, ok := s.loadGraph(w, r)
	if !ok {
		return nil, false
	}
	root, err := serialization.DecodeDetached(doc)
	if err != nil {
		http.Error(w, fmt.Sprintf("Decode error: %v", err), http.StatusInternalServerError)
		s.log.Error("Decode failed", "error", err)
		return nil, false
	}
	return root, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
