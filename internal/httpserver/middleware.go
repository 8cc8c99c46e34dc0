package httpserver

import (
	"net/http"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/xavmarc/meetup-agent/internal/fulfillment"
	"github.com/xavmarc/meetup-agent/internal/metrics"
)

// loggingMiddleware injects a request-scoped logger carrying a request id.
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.config.Logger.WithValues(
			"requestID", uuid.New().String(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		log.V(1).Info("Handling request")

		next.ServeHTTP(w, r.WithContext(logr.NewContext(r.Context(), log)))
	})
}

func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware converts a panicking handler into the localized problem
// response, so a turn never ends without a reply.
func (s *HTTPServer) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logr.FromContextOrDiscard(r.Context()).Error(nil, "Recovered from panic in handler", "panic", rec)
			metrics.WebhookFailures.WithLabelValues("panic").Inc()

			problem := s.config.Locales.Printer("").Sprintf("problem")
			respondWithJSON(w, http.StatusOK, &fulfillment.WebhookResponse{
				Speech:      problem,
				DisplayText: problem,
			})
		}()

		next.ServeHTTP(w, r)
	})
}
