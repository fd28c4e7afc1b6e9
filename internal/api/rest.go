package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
	"github.com/devghori1264/aerophoenix/robot-service/internal/server"
	"github.com/devghori1264/aerophoenix/robot-service/internal/storage"
	"github.com/devghori1264/aerophoenix/robot-service/internal/validation"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

const (
	detailNotFound         = "Robot not found"
	detailRouteNotFound    = "Not Found"
	detailMethodNotAllowed = "Method Not Allowed"
	detailInternal         = "Internal Server Error"
	detailTooLarge         = "Request Entity Too Large"
)

type Handler struct {
	srv    *server.Server
	logger *zap.Logger
}

// NewHTTPHandler builds the full HTTP surface: robot routes, metrics and
// probes, wrapped in tracing and request duration middleware. A nil tracer
// disables spans.
func NewHTTPHandler(srv *server.Server, tracer trace.Tracer, logger *zap.Logger) http.Handler {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{srv: srv, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/robots", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/robots", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/robot", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/robot", h.handlePatch).Methods(http.MethodPatch)
	RegisterMetrics(r, srv.Metrics())
	RegisterProbes(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, detailRouteNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
	})

	return traceRequests(tracer, r, observeDuration(srv.Metrics().RequestDuration, r))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	robots, err := h.srv.ListRobots(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if robots == nil {
		robots = []models.Robot{}
	}
	writeJSON(w, http.StatusOK, robots)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	v, err := validation.DecodeBody(body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	req, err := validation.Create(v)
	if err != nil {
		h.writeError(w, err)
		return
	}

	robot, err := h.srv.CreateRobot(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, robot)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("robot_id") {
		h.writeError(w, validation.NewError([]validation.FieldError{validation.MissingQuery("robot_id")}))
		return
	}

	robot, err := h.srv.GetRobot(r.Context(), q.Get("robot_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, robot)
}

// handlePatch validates the query and the body together before touching the
// store, so a malformed patch to an unknown id is still a 422.
func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	var errs []validation.FieldError

	q := r.URL.Query()
	if !q.Has("robot_id") {
		errs = append(errs, validation.MissingQuery("robot_id"))
	}

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	var patch models.RobotPatch
	v, err := validation.DecodeBody(body)
	if err == nil {
		patch, err = validation.Patch(v)
	}
	if fe, isValidation := validation.AsError(err); isValidation {
		errs = append(errs, fe...)
	}
	if err := validation.NewError(errs); err != nil {
		h.writeError(w, err)
		return
	}

	robot, err := h.srv.PatchRobot(r.Context(), q.Get("robot_id"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, robot)
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, detailTooLarge)
			return nil, false
		}
		h.writeError(w, err)
		return nil, false
	}
	return body, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if fe, ok := validation.AsError(err); ok {
		writeDetail(w, http.StatusUnprocessableEntity, fe)
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, detailNotFound)
		return
	}
	h.logger.Error("request failed", zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, detailInternal)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}
