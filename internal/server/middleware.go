// internal/server/middleware.go
package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/common/metrics"
	"jobboard-api/internal/common/observability"
	"jobboard-api/internal/models"
)

type contextKey string

const employerContextKey contextKey = "employer"

// EmployerClaims is the JWT payload issued by the identity service.
// Subject carries the employer id.
type EmployerClaims struct {
	jwt.RegisteredClaims
	Tier        string `json:"tier"`
	Verified    bool   `json:"verified"`
	FreePosting bool   `json:"freePosting"`
}

// authMiddleware validates the Bearer token and places the employer
// context on the request. Routes behind it never see an anonymous request.
type authMiddleware struct {
	secret []byte
	logger logger.Logger
}

func newAuthMiddleware(secret string, log logger.Logger) *authMiddleware {
	return &authMiddleware{secret: []byte(secret), logger: log}
}

func (a *authMiddleware) requireEmployer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, a.logger, errors.NewAuthenticationError("missing bearer token"))
			return
		}

		claims, err := a.parseToken(token)
		if err != nil {
			writeError(w, a.logger, errors.NewAuthenticationError("invalid token"))
			return
		}

		employer := models.EmployerContext{
			ID:                 claims.Subject,
			Tier:               claims.Tier,
			Verified:           claims.Verified,
			FreePostingEnabled: claims.FreePosting,
		}
		if employer.ID == "" {
			writeError(w, a.logger, errors.NewAuthenticationError("token has no subject"))
			return
		}

		ctx := context.WithValue(r.Context(), employerContextKey, employer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *authMiddleware) parseToken(raw string) (*EmployerClaims, error) {
	claims := &EmployerClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// employerFromContext returns the employer placed by requireEmployer.
func employerFromContext(ctx context.Context) (models.EmployerContext, bool) {
	employer, ok := ctx.Value(employerContextKey).(models.EmployerContext)
	return employer, ok
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestMiddleware logs every request and feeds the Prometheus vectors
// and the OTel meters. The mux route template is the metric label so ids
// do not explode cardinality.
func requestMiddleware(log logger.Logger, obs *observability.Observability) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			elapsed := time.Since(start)
			metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
			if obs != nil {
				obs.RecordRequest(r.Context(), route, strconv.Itoa(rec.status))
				obs.RecordRequestDuration(r.Context(), elapsed, route)
			}

			log.Info("request", map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": elapsed.String(),
			})
		})
	}
}
