package casbinAuthorization

import (
	"encoding/json"
	"net/http"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"

	"profile_service/authorization"
	"profile_service/domain"
	"profile_service/errors"
)

func extractUserRole(r *http.Request) string {
	identity, ok := authorization.IdentityFromContext(r.Context())
	if !ok || identity.Role == "" {
		return domain.RoleUnauthenticated
	}
	return identity.Role
}

// CasbinMiddleware enforces the route policy for the caller's role. It runs
// after authorization.IdentityMiddleware. Anonymous callers denied a route
// get 401 and the user data message; signed-in callers get 403.
func CasbinMiddleware(e *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole := extractUserRole(r)

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				logger.Errorf("Error enforcing authorization policy: %v", err)
				writeMessage(w, http.StatusInternalServerError, "authorization policy error")
				return
			}

			if res {
				next.ServeHTTP(w, r)
				return
			}
			if userRole == domain.RoleUnauthenticated {
				logger.WithField("path", r.URL.Path).Info("Unauthenticated access attempt")
				writeMessage(w, http.StatusUnauthorized, errors.UnableToLoadUser)
				return
			}
			logger.WithField("path", r.URL.Path).Warnf("Forbidden access attempt by role %s", userRole)
			writeMessage(w, http.StatusForbidden, "forbidden")
		}

		return http.HandlerFunc(fn)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
