package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/dmitrijs2005/issuetracker/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the identity stored by the authorized
// middleware.
func AuthResultFromContext(ctx context.Context) (*services.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*services.AuthResult)
	return res, ok
}

// authorized gates next on a valid bearer token and, when required is set,
// on that permission bit. malformedStatus is the status for a token that is
// not a UUID.
func (s *Server) authorized(required *permissions.Action, malformedStatus int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)

			res, err := s.svc.Authorizer.Authorize(r.Context(), header, required)
			if err != nil {
				status := statusFor(err)
				if errors.Is(err, common.ErrMalformedIdentifier) {
					status = malformedStatus
				}
				s.writeError(w, r, status, err)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
