package metrics

import (
	"net/http"
	"regexp"
	"strings"
	"time"
)

var numericSegment = regexp.MustCompile(`/(\d+)`)

// statusRecorder captures the response status for metric labels.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records a request counter and duration histogram per request,
// labeled by method, normalized path, and status text. A panic in the
// handler chain is recorded as a 500 and swallowed.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		defer func() {
			panicked := recover()
			if panicked != nil && !rec.written {
				rec.WriteHeader(http.StatusInternalServerError)
			}

			status := http.StatusText(rec.statusCode)
			if status == "" {
				status = "UNKNOWN"
			}
			path := normalizePath(r.URL.Path)

			RecordRequest(r.Method, path, status)
			RecordRequestDuration(r.Method, path, status, time.Since(start).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

// normalizePath collapses variable path segments so metric label cardinality
// stays bounded: numeric segments become :id, hostname segments under
// /domains/hostname/ and /domains/resolve/ become :hostname.
func normalizePath(path string) string {
	path = numericSegment.ReplaceAllString(path, "/:id")

	for _, prefix := range []string{"/domains/hostname/", "/domains/resolve/"} {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		if rest == "" {
			continue
		}
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			path = prefix + ":hostname" + rest[idx:]
		} else {
			path = prefix + ":hostname"
		}
	}

	return path
}
