package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/vitalis/internal/advisor"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/profile"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server provides the HTTP API for Vitalis.
type Server struct {
	service        *Service
	addr           string
	allowedOrigins []string
	logger         *zap.Logger
	server         *http.Server
}

// NewServer creates a new HTTP server. allowedOrigins lists the browser
// origins permitted by CORS.
func NewServer(service *Service, addr string, allowedOrigins []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		service:        service,
		addr:           addr,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Handler returns the API routes wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/users/", s.handleUser)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return s.logRequests(c.Handler(mux))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		// Recommendation calls retry with backoff for up to ~15s plus the
		// service latency of each attempt.
		WriteTimeout: 5 * time.Minute,
	}

	s.logger.Info("starting Vitalis daemon", zap.String("addr", s.addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		OK:      true,
		DB:      "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := s.service.Ping(r.Context()); err != nil {
		resp.OK = false
		resp.DB = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// handleUser handles /users/{uid}/*
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	parts := strings.Split(path, "/")

	if len(parts) < 2 || parts[0] == "" {
		s.writeError(w, ErrUserRequired)
		return
	}

	userID := parts[0]
	resource := parts[1]
	sub := ""
	if len(parts) > 2 {
		sub = parts[2]
	}

	switch {
	case resource == "form" && sub == "" && r.Method == http.MethodGet:
		s.getForm(w, r, userID)
	case resource == "form" && sub == "" && r.Method == http.MethodPut:
		s.putForm(w, r, userID)
	case resource == "form" && sub == "" && r.Method == http.MethodDelete:
		s.deleteForm(w, r, userID)
	case resource == "assessment" && sub == "" && r.Method == http.MethodPost:
		s.assess(w, r, userID)
	case resource == "plan" && sub == "" && r.Method == http.MethodGet:
		s.getPlan(w, r, userID)
	case resource == "tasks" && sub == "" && r.Method == http.MethodGet:
		s.listTasks(w, r, userID)
	case resource == "tasks" && sub == "" && r.Method == http.MethodPost:
		s.addTask(w, r, userID)
	case resource == "tasks" && sub == "" && r.Method == http.MethodDelete:
		s.clearTasks(w, r, userID)
	case resource == "tasks" && sub == "export" && r.Method == http.MethodGet:
		s.exportTasks(w, r, userID)
	case resource == "tasks" && sub != "" && r.Method == http.MethodPatch:
		s.patchTask(w, r, userID, sub)
	case resource == "metrics" && sub == "" && r.Method == http.MethodGet:
		s.getMetrics(w, r, userID)
	case resource == "metrics" && sub == "" && r.Method == http.MethodPut:
		s.putMetrics(w, r, userID)
	case resource == "metrics" && sub == "" && r.Method == http.MethodPatch:
		s.patchMetric(w, r, userID)
	case resource == "streak" && sub == "" && r.Method == http.MethodGet:
		s.getStreak(w, r, userID)
	case resource == "streak" && sub == "" && r.Method == http.MethodPost:
		s.incrementStreak(w, r, userID)
	case resource == "audit" && sub == "" && r.Method == http.MethodGet:
		s.getAudit(w, r, userID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// --- Form & Recommendation Handlers ---

func (s *Server) getForm(w http.ResponseWriter, r *http.Request, userID string) {
	form, err := s.service.Form(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) putForm(w http.ResponseWriter, r *http.Request, userID string) {
	var form models.HealthForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if err := s.service.SaveForm(r.Context(), userID, form); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.service.ClearForm(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assess(w http.ResponseWriter, r *http.Request, userID string) {
	var req AssessmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Form.HasData() {
		s.writeError(w, profile.ErrNoHealthData)
		return
	}

	insights, err := s.service.Assess(r.Context(), userID, req.Form, req.Locale)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request, userID string) {
	sections, err := s.service.Plan(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanResponse{Sections: sections})
}

// --- Task Handlers ---

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request, userID string) {
	list, err := s.service.Tasks(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request, userID string) {
	var req AddTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := s.service.AddTask(r.Context(), userID, req.Name, req.Time)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) clearTasks(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.service.ClearTasks(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) patchTask(w http.ResponseWriter, r *http.Request, userID, taskID string) {
	var patch TaskPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	task, err := s.service.PatchTask(r.Context(), userID, taskID, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) exportTasks(w http.ResponseWriter, r *http.Request, userID string) {
	report, err := s.service.TaskReport(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.txt"`)
	w.Write([]byte(report))
}

// --- Metrics, Streak & Audit Handlers ---

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.service.Metrics(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) putMetrics(w http.ResponseWriter, r *http.Request, userID string) {
	var metrics []models.Metric
	if !decodeJSON(w, r, &metrics) {
		return
	}
	summary, err := s.service.SaveMetrics(r.Context(), userID, metrics)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) patchMetric(w http.ResponseWriter, r *http.Request, userID string) {
	var req SetMetricRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	summary, err := s.service.SetMetric(r.Context(), userID, req.Name, req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) getStreak(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.service.Streak(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) incrementStreak(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.service.IncrementStreak(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) getAudit(w http.ResponseWriter, r *http.Request, userID string) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.service.AuditLog(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Helpers ---

// writeError maps service errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var se *advisor.ServiceError
	switch {
	case errors.As(err, &se):
		resp.Reason = se.Reason
		resp.Retryable = se.Retryable()
		status = http.StatusBadGateway
		if se.Retryable() {
			status = http.StatusServiceUnavailable
		}
	case errors.Is(err, profile.ErrNoHealthData), errors.Is(err, ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUserRequired):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		resp.Retryable = true
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
