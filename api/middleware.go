package api

import (
	"crypto/subtle"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/feldspar-labs/inkwell-backend/errs"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AdminSecretHeader carries the shared admin secret on mutating requests.
const AdminSecretHeader = "X-Admin-Secret"

// Authorizer decides whether a presented secret grants mutation rights.
// Production uses NewSecretAuthorizer; tests inject their own predicate.
type Authorizer func(secret string) bool

// NewSecretAuthorizer returns an Authorizer comparing the presented secret
// against the configured one in constant time.
func NewSecretAuthorizer(adminSecret string) Authorizer {
	return func(secret string) bool {
		if secret == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(secret), []byte(adminSecret)) == 1
	}
}

type authMiddleware struct {
	responder Responder
	authorize Authorizer
}

func newAuthMiddleware(authorize Authorizer) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		authorize: authorize,
	}
}

// requireAdmin rejects the request before the body or storage is touched
// when the admin secret is missing or wrong.
func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.authorize(r.Header.Get(AdminSecretHeader)) {
			m.responder.WriteError(w, errs.NewForbiddenError("admin secret required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

// RecoverPanics converts a handler panic into a 500 so the process survives
// erroring requests, and logs 500s set by handlers themselves.
func RecoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// HTTPLoggingMiddleware logs each request with a level keyed off the status
// code.
func HTTPLoggingMiddleware(next http.Handler) http.Handler {
	accessLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = accessLogger.Error()
		case srw.status >= 400:
			logEvent = accessLogger.Warn()
		default:
			logEvent = accessLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
