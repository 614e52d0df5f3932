package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"

	"golang.org/x/time/rate"
	"znkr.io/splitdiff/config"
	"znkr.io/splitdiff/report"
	"znkr.io/splitdiff/sidebyside"
)

type handler struct {
	report  atomic.Pointer[report.Report]
	cfg     *config.Config
	limiter *rate.Limiter
}

func newHandler(cfg *config.Config) *handler {
	return &handler{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst),
	}
}

type page struct {
	contentType string
	render      func(r *report.Report, w io.Writer) error
}

func (h *handler) pages() map[string]page {
	return map[string]page{
		"/": {"text/html; charset=utf-8", func(r *report.Report, w io.Writer) error {
			return r.WriteHTML(w, report.HTMLOptions{Lang: h.cfg.Render.Lang, Minify: h.cfg.Render.Minify})
		}},
		"/diff.json": {"application/json", (*report.Report).WriteJSON},
		"/diff.txt":  {"text/plain; charset=utf-8", (*report.Report).WriteText},
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path == "/api/diff" {
		h.serveAPI(w, req)
		return
	}

	switch req.Method {
	case http.MethodGet:
	case http.MethodHead:
	default:
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	p, ok := h.pages()[req.URL.EscapedPath()]
	if !ok {
		writeError(w, req, http.StatusNotFound, "not found")
		return
	}

	w.Header().Set("Content-Type", p.contentType)
	if req.Method == http.MethodHead {
		return
	}

	var buf bytes.Buffer
	if err := p.render(h.report.Load(), &buf); err != nil {
		writeError(w, req, http.StatusInternalServerError, err.Error())
		log.Printf("failed to serve %v: %v", req.URL.EscapedPath(), err)
		return
	}
	writeBody(w, buf.Bytes())
}

type diffRequest struct {
	Base     string `json:"base"`
	Changed  string `json:"changed"`
	Strategy string `json:"strategy"`
}

// serveAPI diffs the texts posted in the request body and responds with the JSON report.
func (h *handler) serveAPI(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, req, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.limiter.Allow() {
		writeError(w, req, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, h.cfg.Server.MaxBodySize)
	var dr diffRequest
	if err := json.NewDecoder(req.Body).Decode(&dr); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, req, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	strategy := h.cfg.Strategy()
	if dr.Strategy != "" {
		s, ok := sidebyside.ParseStrategy(dr.Strategy)
		if !ok {
			writeError(w, req, http.StatusBadRequest, fmt.Sprintf("unknown strategy %q", dr.Strategy))
			return
		}
		strategy = s
	}

	r, err := report.New(req.Context(), "base", dr.Base, "changed", dr.Changed, report.Options{
		Strategy:   strategy,
		MaxLines:   h.cfg.Diff.MaxLines,
		ChunkLines: h.cfg.Diff.ChunkLines,
		Workers:    h.cfg.Diff.Workers,
	})
	switch {
	case errors.Is(err, report.ErrTooLarge):
		writeError(w, req, http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		writeError(w, req, http.StatusInternalServerError, err.Error())
		log.Printf("failed to diff: %v", err)
		return
	}

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		writeError(w, req, http.StatusInternalServerError, err.Error())
		log.Printf("failed to encode diff: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeBody(w, buf.Bytes())
}

func writeError(w http.ResponseWriter, req *http.Request, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	if req.Method != http.MethodHead {
		w.Write([]byte(msg))
	}
}

func writeBody(w http.ResponseWriter, b []byte) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
