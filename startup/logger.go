package startup

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

const requestIDField = "request_id"

type CustomFormatter struct{}

// Format renders "[time] [level] [request id] message key=value ...".
// Entries logged outside a request get a generated id.
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	id, ok := entry.Data[requestIDField]
	if !ok {
		id = generateUniqueID()
	}

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != requestIDField {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var fields strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&fields, " %s=%v", key, entry.Data[key])
	}

	msg := fmt.Sprintf("[%s] [%s] [%s] %s%s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		id,
		entry.Message,
		fields.String(),
	)
	return []byte(msg), nil
}

func generateUniqueID() string {
	return fmt.Sprintf("ID-%d", time.Now().UnixNano())
}

// NewLogger writes to stdout, or to logFile rotated every 15 minutes when
// one is configured.
func NewLogger(logFile string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&CustomFormatter{})

	var out io.Writer = os.Stdout
	if logFile != "" {
		writer, err := rotatelogs.New(
			logFile+"_%Y%m%d%H%M",
			rotatelogs.WithRotationTime(15*time.Minute),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("create rotating log writer: %w", err)
		}
		out = writer
	}
	logger.SetOutput(out)
	return logger, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLoggingMiddleware tags each request with an X-Request-ID and logs
// its outcome.
func RequestLoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			logger.WithFields(logrus.Fields{
				requestIDField: id,
				"method":       r.Method,
				"path":         r.URL.Path,
				"status":       recorder.status,
				"duration":     time.Since(start).String(),
			}).Info("request handled")
		})
	}
}
