// Package chi exposes the profile operations over HTTP.
package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/export"
	"github.com/kailas-cloud/langprint/internal/logger"
	healthuc "github.com/kailas-cloud/langprint/internal/usecase/health"
	profileuc "github.com/kailas-cloud/langprint/internal/usecase/profile"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the HTTP API.
type Server struct {
	profiles      *profileuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(profiles *profileuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		profiles:     profiles,
		health:       health,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		insufficientInputHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidTag, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusBadRequest, codeUnsupportedFormat),
	}
	return s
}

// WithMaxBodyBytes configures the request body limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/profiles", s.BuildProfile)
	r.Get("/languages", s.ListLanguages)
	r.Put("/languages/{tag}", s.PutLanguage)
	r.Get("/languages/{tag}", s.GetLanguage)
	r.Delete("/languages/{tag}", s.DeleteLanguage)
	r.Get("/table", s.GetTable)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type buildRequest struct {
	Text string `json:"text"`
}

type buildResponse struct {
	Dimensions int       `json:"dimensions"`
	Length     int       `json:"length"`
	Pairs      int       `json:"pairs"`
	Profile    []float64 `json:"profile"`
}

type putLanguageRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

type languageResponse struct {
	Tag          string    `json:"tag"`
	Base         string    `json:"base"`
	Source       string    `json:"source,omitempty"`
	SampleLength int       `json:"sample_length"`
	Pairs        int       `json:"pairs"`
	RunID        string    `json:"run_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Profile      []float64 `json:"profile,omitempty"`
}

type listResponse struct {
	Items []languageResponse `json:"items"`
	Count int                `json:"count"`
}

// BuildProfile handles POST /profiles.
//
// The text is normalized before counting, so the reported length is in normalized
// characters. Under NFC "e\u0301" composes to one character and is rejected with
// 422 even though the raw input has two.
func (s *Server) BuildProfile(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if !s.decode(w, r, &req) {
		return
	}

	built, err := s.profiles.Build(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, buildResponse{
		Dimensions: bigram.Slots,
		Length:     built.Length,
		Pairs:      built.Pairs(),
		Profile:    built.Profile.Slice(),
	})
}

// PutLanguage handles PUT /languages/{tag}.
func (s *Server) PutLanguage(w http.ResponseWriter, r *http.Request) {
	tag, ok := tagParam(w, r)
	if !ok {
		return
	}
	var req putLanguageRequest
	if !s.decode(w, r, &req) {
		return
	}

	lp, created, err := s.profiles.Save(r.Context(), tag, req.Text, req.Source, "")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, languageToResponse(lp, true))
}

// GetLanguage handles GET /languages/{tag}.
func (s *Server) GetLanguage(w http.ResponseWriter, r *http.Request) {
	tag, ok := tagParam(w, r)
	if !ok {
		return
	}
	lp, err := s.profiles.Get(r.Context(), tag)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, languageToResponse(lp, true))
}

// ListLanguages handles GET /languages.
func (s *Server) ListLanguages(w http.ResponseWriter, r *http.Request) {
	list, err := s.profiles.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]languageResponse, len(list))
	for i, lp := range list {
		items[i] = languageToResponse(lp, false)
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Count: len(items)})
}

// DeleteLanguage handles DELETE /languages/{tag}.
func (s *Server) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	tag, ok := tagParam(w, r)
	if !ok {
		return
	}
	if err := s.profiles.Delete(r.Context(), tag); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTable handles GET /table?format=json|js|yaml.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	table, err := s.profiles.Table(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, table, format); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func tagParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	tag, err := url.PathUnescape(chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid tag encoding")
		return "", false
	}
	return tag, true
}

func languageToResponse(lp fingerprint.LanguageProfile, withVector bool) languageResponse {
	resp := languageResponse{
		Tag:          lp.Tag().String(),
		Base:         lp.Tag().Base(),
		Source:       lp.Source(),
		SampleLength: lp.SampleLength(),
		Pairs:        lp.Pairs(),
		RunID:        lp.RunID(),
		CreatedAt:    time.UnixMilli(lp.CreatedAt()).UTC(),
	}
	if withVector {
		resp.Profile = lp.Profile().Slice()
	}
	return resp
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
