package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/reqctx"
	urlutil "github.com/law-makers/linkfill/internal/utils/url"
	"github.com/law-makers/linkfill/pkg/models"
)

// ScrapeRequest is the body of POST /api/v1/scrape
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ExtractRequest is the body of POST /api/v1/extract
type ExtractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RequestTimeout)
	defer cancel()

	data, err := s.scraper.Scrape(ctx, models.RequestOptions{URL: strings.TrimSpace(req.URL)})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.Respond(data, nil))
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !s.decode(w, r, &req) {
		return
	}

	pageURL := strings.TrimSpace(req.URL)
	if err := urlutil.ValidateURL(pageURL); err != nil {
		s.fail(w, r, engine.NewEngineError(engine.ErrCodeInvalidURL, "cannot extract for this URL", err))
		return
	}

	data := s.extractor.ExtractHTML(req.HTML, pageURL)
	writeJSON(w, http.StatusOK, engine.Respond(data, nil))
}

// decode reads a JSON body into v, answering 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		logger := reqctx.Logger(r.Context())
		logger.Debug().Err(err).Msg("Rejected request body")
		writeJSON(w, status, models.ScrapeResponse{
			Success: false,
			Error:   localize(r, msgBadRequest),
			Code:    "BAD_REQUEST",
		})
		return false
	}
	return true
}

// fail writes the error envelope with a status matching the error code
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch engine.CodeOf(err) {
	case engine.ErrCodeInvalidURL:
		status = http.StatusBadRequest
	case engine.ErrCodeFetchFailed, engine.ErrCodeTimeout:
		status = http.StatusBadGateway
	}

	logger := reqctx.Logger(r.Context())
	logger.Warn().Err(reqctx.NewRequestError(r.Context(), err)).Int("status", status).Msg("Scrape failed")

	resp := engine.Respond(nil, err)
	resp.Error = localize(r, messageFor(err))
	if resp.Code == "" {
		resp.Code = "INTERNAL"
	}
	writeJSON(w, status, resp)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ScrapeResponse{Success: false, Error: "not found", Code: "NOT_FOUND"})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.ScrapeResponse{Success: false, Error: "method not allowed", Code: "METHOD_NOT_ALLOWED"})
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, models.ScrapeResponse{
		Success: false,
		Error:   localize(r, msgRateLimited),
		Code:    "RATE_LIMITED",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
