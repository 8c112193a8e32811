package startup

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"profile_service/authorization"
	"profile_service/domain"
	"profile_service/handlers"
	"profile_service/startup/config"
	"profile_service/store"
)

const testSecret = "integration-secret"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		SecretKey:            testSecret,
		IdentityAuthorizeURL: "https://id.example.com/authorize",
		IdentityProviders:    []string{"google"},
		EditorSessionLimit:   8,
		EditorLoadWait:       time.Second,
		StoreTimeout:         time.Second,
		RBACModel:            "../rbac_model.conf",
		RBACPolicy:           "../policy.csv",
	}
	backends := Backends{
		Profiles: store.NewProfileMemoryStore(true, logger),
		Denylist: store.NewTokenMemoryDenylist(),
	}

	handler, closeSessions, err := NewServer(cfg, logger).Handler(backends, trace.NewNoopTracerProvider().Tracer(serviceName), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(closeSessions)
	return handler
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	signer, err := jwt.NewSignerHS(jwt.HS256, []byte(testSecret))
	require.NoError(t, err)
	token, err := jwt.NewBuilder(signer).Build(authorization.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        subject + "-session",
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: subject + "@example.com",
	})
	require.NoError(t, err)
	return "Bearer " + token.String()
}

func call(t *testing.T, handler http.Handler, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAnonymousAccess(t *testing.T) {
	handler := newTestHandler(t)

	rr := call(t, handler, "", http.MethodGet, "/catalog", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = call(t, handler, "", http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"Unable to load user data."}`, rr.Body.String())

	rr = call(t, handler, "", http.MethodGet, "/auth/signin/google", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestEditSaveViewSignOut(t *testing.T) {
	handler := newTestHandler(t)
	token := bearer(t, "user-7")

	rr := call(t, handler, token, http.MethodGet, "/selector", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var view handlers.SelectorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, view.IsNew)

	for _, request := range []domain.ToggleRequest{
		{Category: domain.Schedule, Label: "Flexible hours"},
		{Category: domain.Communication, Label: "Captioning for meetings"},
		{Category: domain.Communication, Label: "Captioning for meetings"},
	} {
		require.Equal(t, http.StatusOK, call(t, handler, token, http.MethodPost, "/selector/toggle", request).Code)
	}
	require.Equal(t, http.StatusOK, call(t, handler, token, http.MethodPost, "/selector/save", nil).Code)

	rr = call(t, handler, token, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile handlers.ProfileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "user-7@example.com", profile.Username)
	require.Len(t, profile.Groups, 2)
	assert.Equal(t, domain.Communication, profile.Groups[0].Category)
	assert.Equal(t, domain.Must, profile.Groups[0].Badges[0].Priority)
	assert.Equal(t, domain.Schedule, profile.Groups[1].Category)

	assert.Equal(t, http.StatusNoContent, call(t, handler, token, http.MethodPost, "/auth/signout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, handler, token, http.MethodGet, "/profile", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)
	token := bearer(t, "user-8")
	require.Equal(t, http.StatusOK, call(t, handler, token, http.MethodGet, "/me", nil).Code)

	rr := call(t, handler, "", http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "profile_service_profile_loads_total")
}
