package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profile_service/domain"
	"profile_service/errors"
	"profile_service/presentation"
	application "profile_service/service"
)

const selectorLink = "/selector"

type ProfileHandler struct {
	service *application.ProfileService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewProfileHandler(service *application.ProfileService, tracer trace.Tracer, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *ProfileHandler) Init(router *mux.Router) {
	router.HandleFunc("/me", handler.Me).Methods(http.MethodGet)
	router.HandleFunc("/profile", handler.Profile).Methods(http.MethodGet)
	router.HandleFunc("/settings", handler.Settings).Methods(http.MethodGet)
	router.HandleFunc("/settings/username", handler.ChangeUsername).Methods(http.MethodPost)
}

type MeResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type ProfileResponse struct {
	Username string               `json:"username"`
	Groups   []presentation.Group `json:"groups"`
}

type SettingsResponse struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	SelectorLink string `json:"selectorLink"`
}

type MessageResponse struct {
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

// Me feeds the navigation header. A profile that cannot be read still
// yields the identity email as display name.
func (handler *ProfileHandler) Me(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ProfileHandler.Me")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	result := handler.service.Load(ctx, identity.ID)
	jsonResponse(MeResponse{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: result.Profile.DisplayName(identity.Email),
	}, writer)
}

// Profile is the read-only summary. It always reads through the gateway so a
// save made in the selector shows up on the next visit.
func (handler *ProfileHandler) Profile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ProfileHandler.Profile")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	result := handler.service.Load(ctx, identity.ID)
	switch result.Status {
	case application.LoadNotFound:
		span.SetStatus(codes.Error, "profile not found")
		errorResponse(writer, http.StatusNotFound, errors.UnableToFetchProfile)
		return
	case application.LoadFailed:
		span.SetStatus(codes.Error, result.Err.Error())
		handler.loadFailure(writer, result.Err)
		return
	}

	jsonResponse(ProfileResponse{
		Username: result.Profile.DisplayName(identity.Email),
		Groups:   presentation.Summary(result.Profile.Accommodations),
	}, writer)
}

func (handler *ProfileHandler) Settings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ProfileHandler.Settings")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	result := handler.service.Load(ctx, identity.ID)
	if result.Status == application.LoadFailed {
		span.SetStatus(codes.Error, result.Err.Error())
		handler.loadFailure(writer, result.Err)
		return
	}

	jsonResponse(SettingsResponse{
		Username:     result.Profile.DisplayName(identity.Email),
		Email:        identity.Email,
		SelectorLink: selectorLink,
	}, writer)
}

func (handler *ProfileHandler) ChangeUsername(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ProfileHandler.ChangeUsername")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	var change domain.UsernameChange
	if err := decodeBody(req, &change); err != nil {
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}
	if err := change.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusBadRequest, err.Error())
		return
	}

	err := handler.service.ChangeUsername(ctx, identity.ID, change.Username)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrEmptyUsername):
		errorResponse(writer, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, errors.ErrProfileNotFound):
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusNotFound, errors.UsernameUpdateFailed)
		return
	case application.IsUnavailable(err):
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusServiceUnavailable, errors.StoreUnavailable)
		return
	default:
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusBadGateway, errors.UsernameUpdateFailed)
		return
	}

	jsonResponse(MessageResponse{Message: errors.UsernameUpdated, Username: strings.TrimSpace(change.Username)}, writer)
}

func (handler *ProfileHandler) loadFailure(writer http.ResponseWriter, err error) {
	if application.IsUnavailable(err) {
		errorResponse(writer, http.StatusServiceUnavailable, errors.StoreUnavailable)
		return
	}
	errorResponse(writer, http.StatusBadGateway, errors.UnableToFetchProfile)
}
