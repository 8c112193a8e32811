package authorization

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"profile_service/errors"
)

// IdentityMiddleware attaches the verified caller identity to the request
// context. Requests without a token pass through anonymously; a token that
// fails verification is rejected.
func IdentityMiddleware(verifier *TokenVerifier, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, present, err := ExtractBearerToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}
			if err == nil {
				identity, verifyErr := verifier.Verify(r.Context(), raw)
				if verifyErr == nil {
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
					return
				}
				err = verifyErr
			}

			status := http.StatusUnauthorized
			if !errors.Is(err, errors.ErrUnauthenticated) && !errors.Is(err, errors.ErrTokenRevoked) {
				status = http.StatusServiceUnavailable
			}
			logger.WithField("path", r.URL.Path).Warnf("Rejected bearer token: %v", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": errors.UnableToLoadUser})
		})
	}
}
