package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/parsekit"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is closed.
const ShutdownTimeout = 10 * time.Second

// MaxRequestBodySize caps the size of decoded request bodies.
const MaxRequestBodySize = 1 << 20

// Server exposes parse services over a JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	// Addr is the bind address. Set before calling Open().
	Addr string

	// Version is reported by the health endpoint.
	Version string

	// Services used by the routes.
	ParseService parsekit.ParseService
	BatchService parsekit.BatchService

	Logger *slog.Logger

	// Now returns the current time. Overridable for tests.
	Now func() time.Time
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		Version: "dev",
		Logger:  slog.Default(),
		Now:     time.Now,
	}
	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /parsers", s.handleParserIndex)
	s.mux.HandleFunc("GET /parsers/{name}", s.handleParserView)
	s.mux.HandleFunc("POST /parsers/parse", s.handleParse)
	s.mux.HandleFunc("POST /parsers/batch", s.handleBatch)
	return s
}

// Handler returns the router, for serving without Open().
func (s *Server) Handler() http.Handler {
	return s.mux
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Open binds to Addr and begins serving in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() { _ = s.server.Serve(s.ln) }()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.Now().UTC().Format(time.RFC3339),
		"version":   s.Version,
	})
}

func (s *Server) handleParserIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    s.ParseService.Parsers(),
	})
}

func (s *Server) handleParserView(w http.ResponseWriter, r *http.Request) {
	info, err := s.ParseService.Parser(r.PathValue("name"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    info,
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parsekit.BatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if req.Parser == "" {
		s.Error(w, r, parsekit.Errorf(parsekit.EINVALID, "parser is required"))
		return
	}

	result, err := s.ParseService.Execute(r.Context(), req.Parser, req.ParseRequest)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if result.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	}
	status := http.StatusOK
	if !result.Success {
		status = ErrorStatusCode(result.Code)
	}
	s.writeJSON(w, status, result)
}

// batchRequest is the wire form of POST /parsers/batch.
type batchRequest struct {
	Requests []parsekit.BatchRequest `json:"requests"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	result, err := s.BatchService.ExecuteBatch(r.Context(), req.Requests)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return parsekit.Errorf(parsekit.EINVALID, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return parsekit.Errorf(parsekit.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

// Error writes err as a JSON failure body with the mapped status code.
// Internal errors are logged and hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := parsekit.ErrorCode(err), parsekit.ErrorMessage(err)
	if code == parsekit.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	body := map[string]any{"success": false, "error": message, "code": code}
	if d := parsekit.ErrorRetryAfter(err); d > 0 {
		secs := int((d + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		body["retry_after"] = secs
	}
	s.writeJSON(w, ErrorStatusCode(code), body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	parsekit.EINVALID:     http.StatusUnprocessableEntity,
	parsekit.ERATELIMITED: http.StatusTooManyRequests,
	parsekit.EFETCH:       http.StatusBadGateway,
	parsekit.EEXTRACT:     http.StatusBadGateway,
	parsekit.ECANCELED:    http.StatusGatewayTimeout,
	parsekit.ENOTFOUND:    http.StatusNotFound,
	parsekit.ECONFLICT:    http.StatusInternalServerError,
	parsekit.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
