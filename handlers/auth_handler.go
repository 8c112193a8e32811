package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profile_service/authorization"
	"profile_service/errors"
	application "profile_service/service"
)

type AuthHandler struct {
	verifier   *authorization.TokenVerifier
	redirector *authorization.SignInRedirector
	sessions   *application.EditorSessions
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewAuthHandler(verifier *authorization.TokenVerifier, redirector *authorization.SignInRedirector, sessions *application.EditorSessions, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		verifier:   verifier,
		redirector: redirector,
		sessions:   sessions,
		tracer:     tracer,
		logger:     logger,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/auth/signin/{provider}", handler.SignIn).Methods(http.MethodGet)
	router.HandleFunc("/auth/signout", handler.SignOut).Methods(http.MethodPost)
}

// SignIn sends the browser to the identity provider. The redirect target
// must be a path on this site.
func (handler *AuthHandler) SignIn(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "AuthHandler.SignIn")
	defer span.End()

	provider := mux.Vars(req)["provider"]
	target, err := handler.redirector.URL(provider, req.URL.Query().Get("redirect"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Warnf("Rejected sign-in request: %v", err)
		errorResponse(writer, http.StatusBadRequest, errors.InvalidSignInRequest)
		return
	}
	http.Redirect(writer, req, target, http.StatusFound)
}

// SignOut revokes the bearer token and drops any open editor draft.
func (handler *AuthHandler) SignOut(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.SignOut")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	if err := handler.verifier.SignOut(ctx, identity); err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("Error revoking token: %v", err)
		errorResponse(writer, http.StatusServiceUnavailable, errors.AuthenticationFailure)
		return
	}
	handler.sessions.Unmount(identity.ID)
	writer.WriteHeader(http.StatusNoContent)
}
