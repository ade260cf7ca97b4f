package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/vendix/domain-gateway/internal/logging"
)

// HTTPLogging logs full request and response payloads at debug level, with
// credentials and tokens masked. When the logger is above debug the
// middleware is a passthrough and bodies are never buffered.
func HTTPLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}

			id := GetRequestID(r.Context())

			var reqBody []byte
			if r.Body != nil {
				var err error
				if reqBody, err = io.ReadAll(r.Body); err != nil {
					logger.Error("failed to read request body", "request_id", id, "error", err)
					http.Error(w, "bad request", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			logger.Debug("http request",
				"request_id", id,
				"method", r.Method,
				"url", r.URL.Path,
				"query_params", r.URL.RawQuery,
				"headers", maskHeaders(r.Header),
				"body", maskBody(reqBody),
			)

			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK, body: new(bytes.Buffer)}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Debug("http response",
				"request_id", id,
				"method", r.Method,
				"url", r.URL.Path,
				"status_code", rec.statusCode,
				"headers", maskHeaders(rec.Header()),
				"body", maskBody(rec.body.Bytes()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func maskHeaders(h http.Header) map[string]string {
	masked := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		masked[name] = logging.MaskHeader(name, values[0])
	}
	return masked
}

func maskBody(body []byte) string {
	switch {
	case len(body) == 0:
		return ""
	case !utf8.Valid(body):
		return logging.FormatBinaryData(body)
	default:
		return string(logging.MaskJSONBody(body))
	}
}

// responseRecorder tees status and body so the response can be logged after
// it has been written to the client.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
