package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxBodyBytes caps one JSON-RPC message.
const maxBodyBytes = 1 << 20

// MessageHandler answers one JSON-RPC message. *server.MCPServer satisfies it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcErrorResponse struct {
	JSONRPC string   `json:"jsonrpc"`
	ID      any      `json:"id"`
	Error   rpcError `json:"error"`
}

// NewHTTPHandler routes POST /mcp to h and serves GET /health. There is no
// session and no event stream: each POST carries one message and gets its
// response in the body.
func NewHTTPHandler(h MessageHandler, logger *log.Logger, maxDuration time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	if maxDuration > 0 {
		r.Use(middleware.Timeout(maxDuration))
	}

	r.Get("/health", handleHealth)

	r.Route("/mcp", func(r chi.Router) {
		r.Post("/", handleMessage(h, logger))
		r.Get("/", methodNotAllowed)
		r.Delete("/", methodNotAllowed)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, rpcErrorResponse{
		JSONRPC: mcp.JSONRPC_VERSION,
		Error:   rpcError{Code: -32000, Message: "Method not allowed."},
	})
}

func handleMessage(h MessageHandler, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, rpcErrorResponse{
					JSONRPC: mcp.JSONRPC_VERSION,
					Error:   rpcError{Code: mcp.INVALID_REQUEST, Message: "Request body too large"},
				})
				return
			}

			writeJSON(w, http.StatusBadRequest, rpcErrorResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				Error:   rpcError{Code: mcp.PARSE_ERROR, Message: "Parse error"},
			})
			return
		}

		if !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, rpcErrorResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				Error:   rpcError{Code: mcp.PARSE_ERROR, Message: "Parse error"},
			})
			return
		}

		resp := h.HandleMessage(r.Context(), body)
		if resp == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		logger.Debug("mcp message handled", "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger is chi's request logging reported through charmbracelet/log.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
					"remote", r.RemoteAddr,
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// ServeHTTP listens on addr until ctx is cancelled, then drains in-flight
// requests for up to grace.
func ServeHTTP(ctx context.Context, addr string, handler http.Handler, logger *log.Logger, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("serving MCP over HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP transport")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
