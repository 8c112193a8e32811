package handlers

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"profile_service/authorization"
	"profile_service/domain"
	"profile_service/errors"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func jsonResponse(object interface{}, w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, object)
}

func writeJSON(w http.ResponseWriter, status int, object interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if object == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(object)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func decodeBody(req *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(req.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// currentIdentity returns the verified caller or writes the auth failure
// response.
func currentIdentity(w http.ResponseWriter, req *http.Request) (domain.Identity, bool) {
	identity, ok := authorization.IdentityFromContext(req.Context())
	if !ok || identity.ID == "" {
		errorResponse(w, http.StatusUnauthorized, errors.UnableToLoadUser)
		return domain.Identity{}, false
	}
	return identity, true
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
