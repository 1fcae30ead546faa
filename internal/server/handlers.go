package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/deltae"
	"github.com/maax3v3/swatchmatch/internal/library"
	"github.com/maax3v3/swatchmatch/internal/match"
	"github.com/maax3v3/swatchmatch/internal/report"
)

var errBadRequest = errors.New("bad request")

type apiError struct {
	Error string `json:"error"`
}

type libraryInfo struct {
	Size    int `json:"size"`
	Skipped int `json:"skipped"`
}

// matchRequest is the body of POST /v1/match. Unset fields fall back to the
// server configuration.
type matchRequest struct {
	Hex         string   `json:"hex"`
	Metric      string   `json:"metric"`
	MaxDistance *float64 `json:"max_distance"`
	Limit       *int     `json:"limit"`
}

type matchItem struct {
	Rank         int     `json:"rank"`
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Hex          string  `json:"hex"`
	Distance     float64 `json:"distance"`
	DistanceText string  `json:"distance_text"`
}

type matchResponse struct {
	RequestID string        `json:"request_id"`
	Input     string        `json:"input"`
	Metric    deltae.Metric `json:"metric"`
	Total     int           `json:"total"`
	Matches   []matchItem   `json:"matches"`
}

func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetLibrary(w http.ResponseWriter, _ *http.Request) {
	lib := s.Library()
	writeJSON(w, http.StatusOK, libraryInfo{Size: lib.Len(), Skipped: lib.Skipped()})
}

// PutLibrary replaces the served library with the request body, JSON or
// delimited text according to Content-Type.
func (s *Server) PutLibrary(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	entries, stats, err := library.Parse(body, formatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		writeErr(w, statusFor(fmt.Errorf("%w: %w", errBadRequest, err)), err)
		return
	}
	lib := match.NewLibrary(entries)
	if lib.Len() == 0 {
		writeErr(w, http.StatusBadRequest, library.ErrEmpty)
		return
	}
	s.SetLibrary(lib)
	log.Printf("library replaced: %d colors (%d skipped, %d without color)", lib.Len(), lib.Skipped(), stats.NoColor)
	writeJSON(w, http.StatusOK, libraryInfo{Size: lib.Len(), Skipped: lib.Skipped()})
}

func (s *Server) GetMatch(w http.ResponseWriter, r *http.Request) {
	req, err := matchRequestFromQuery(r)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	s.serveMatch(w, r, req)
}

func (s *Server) PostMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err := dec.Decode(&req); err != nil {
		writeErr(w, statusFor(fmt.Errorf("%w: %w", errBadRequest, err)), err)
		return
	}
	s.serveMatch(w, r, req)
}

// GetMatchCSV answers the same query as GetMatch as a CSV download.
func (s *Server) GetMatchCSV(w http.ResponseWriter, r *http.Request) {
	req, err := matchRequestFromQuery(r)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	_, res, _, err := s.match(req)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="matches.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := report.WriteCSV(w, res.Matches); err != nil {
		log.Printf("writing csv: %v", err)
	}
}

func (s *Server) serveMatch(w http.ResponseWriter, r *http.Request, req matchRequest) {
	query, res, opts, err := s.match(req)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}

	items := make([]matchItem, len(res.Matches))
	for i, row := range report.Rows(res.Matches) {
		items[i] = matchItem{
			Rank:         row.Rank,
			Label:        row.Label,
			Name:         row.Name,
			Code:         row.Code,
			Hex:          row.Hex,
			Distance:     res.Matches[i].Distance,
			DistanceText: row.Distance,
		}
	}
	writeJSON(w, http.StatusOK, matchResponse{
		RequestID: middleware.GetReqID(r.Context()),
		Input:     query.Hex(),
		Metric:    opts.Metric,
		Total:     res.Total,
		Matches:   items,
	})
}

// match resolves req against the server defaults and ranks the current
// library.
func (s *Server) match(req matchRequest) (color.RGB, match.Result, match.Options, error) {
	opts, err := s.options(req)
	if err != nil {
		return color.RGB{}, match.Result{}, opts, err
	}
	hex := strings.TrimSpace(req.Hex)
	if hex == "" {
		return color.RGB{}, match.Result{}, opts, fmt.Errorf("%w: hex required", errBadRequest)
	}
	query, err := color.ParseHex(hex)
	if err != nil {
		return color.RGB{}, match.Result{}, opts, fmt.Errorf("hex: %w", err)
	}
	return query, s.Library().Nearest(query, opts), opts, nil
}

func (s *Server) options(req matchRequest) (match.Options, error) {
	opts := s.cfg.MatchOptions()
	if req.Metric != "" {
		m, err := deltae.ParseMetric(req.Metric)
		if err != nil {
			return opts, err
		}
		opts.Metric = m
	}
	if req.MaxDistance != nil {
		opts.MaxDistance = *req.MaxDistance
	}
	if req.Limit != nil {
		opts.Limit = *req.Limit
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return opts, nil
}

func matchRequestFromQuery(r *http.Request) (matchRequest, error) {
	q := r.URL.Query()
	req := matchRequest{
		Hex:    q.Get("hex"),
		Metric: q.Get("metric"),
	}
	if v := q.Get("max_distance"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("%w: max_distance: %v", errBadRequest, err)
		}
		req.MaxDistance = &d
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: limit: %v", errBadRequest, err)
		}
		req.Limit = &n
	}
	return req, nil
}

func formatFromContentType(ct string) library.Format {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return library.FormatAuto
	}
	switch mt {
	case "application/json":
		return library.FormatJSON
	case "text/csv", "text/tab-separated-values", "text/plain":
		return library.FormatCSV
	default:
		return library.FormatAuto
	}
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, color.ErrInvalidFormat),
		errors.Is(err, deltae.ErrUnknownMetric),
		errors.Is(err, library.ErrUnsupportedFormat),
		errors.Is(err, library.ErrEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}
