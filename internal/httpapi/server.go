// Package httpapi is the HTTP front end: it exposes plan previews, run
// control, and a progress event stream over the shared core, so a browser
// or remote tool can drive a print run while the run itself executes on a
// background goroutine.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/sequencer"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// maxBodyBytes limits JSON request bodies.
var maxBodyBytes int64 = 1 << 20

// zlog is an optional structured logger for request-level messages.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// serverBaseCtx is a process-level context cancelled on shutdown, so an
// in-flight run stops when the server does.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by run starts.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
}

// NewMux builds the HTTP handler over the shared core.
func NewMux(a *app.App) http.Handler {
	events := NewBroadcaster()
	run := newRunner(a, events)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, req)
		})
	})
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}

	r.Get("/files", func(w http.ResponseWriter, req *http.Request) {
		dir := req.URL.Query().Get("dir")
		if dir == "" {
			writeJSONError(w, http.StatusBadRequest, "dir query parameter is required")
			return
		}
		pv, err := a.Preview(dir, parseBatchSize(req))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, previewResponse(pv))
	})

	r.Post("/runs", func(w http.ResponseWriter, req *http.Request) {
		ct := req.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
		var rr types.RunRequest
		if err := json.NewDecoder(req.Body).Decode(&rr); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(rr.Directory) == "" {
			writeJSONError(w, http.StatusBadRequest, "directory is required")
			return
		}

		// Runs outlive the request; they are bound to the server context.
		err := run.start(serverBaseCtx, rr)
		switch {
		case err == nil:
			if zlog != nil {
				zlog.Info().Str("directory", rr.Directory).Msg("run started")
			}
			w.WriteHeader(http.StatusAccepted)
			writeJSON(w, run.status())
		case sequencer.IsAlreadyRunning(err):
			writeJSONError(w, http.StatusConflict, err.Error())
		case backendUnavailable(err):
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeJSONError(w, http.StatusBadRequest, err.Error())
		}
	})

	r.Get("/runs/current", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, run.status())
	})

	r.Post("/runs/current/cancel", func(w http.ResponseWriter, req *http.Request) {
		run.cancel()
		w.WriteHeader(http.StatusAccepted)
		writeJSON(w, run.status())
	})

	r.Get("/events", events.serveEvents)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func parseBatchSize(req *http.Request) int {
	v := req.URL.Query().Get("batch_size")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func previewResponse(pv app.Preview) types.FilesResponse {
	resp := types.FilesResponse{
		Directory:      pv.Directory,
		Count:          len(pv.Files),
		TotalSizeBytes: pv.TotalSize,
		BatchSize:      pv.Plan.BatchSize,
		Batches:        pv.Plan.NumBatches(),
	}
	for i, f := range pv.Files {
		resp.Files = append(resp.Files, types.PlannedFile{
			Position:  i + 1,
			Batch:     pv.Plan.BatchOf(i),
			Path:      f.Path,
			SizeBytes: f.SizeBytes,
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
