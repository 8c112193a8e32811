package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profile_service/domain"
	"profile_service/errors"
	"profile_service/presentation"
	application "profile_service/service"
)

type SelectorHandler struct {
	sessions *application.EditorSessions
	loadWait time.Duration
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewSelectorHandler(sessions *application.EditorSessions, loadWait time.Duration, tracer trace.Tracer, logger *logrus.Logger) *SelectorHandler {
	return &SelectorHandler{
		sessions: sessions,
		loadWait: loadWait,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *SelectorHandler) Init(router *mux.Router) {
	router.HandleFunc("/selector", handler.Get).Methods(http.MethodGet)
	router.HandleFunc("/selector", handler.Unmount).Methods(http.MethodDelete)
	router.HandleFunc("/selector/mount", handler.Mount).Methods(http.MethodPost)
	router.HandleFunc("/selector/toggle", handler.Toggle).Methods(http.MethodPost)
	router.HandleFunc("/selector/privacy", handler.Privacy).Methods(http.MethodPost)
	router.HandleFunc("/selector/save", handler.Save).Methods(http.MethodPost)
}

type SelectorResponse struct {
	application.EditorView
	Sections []presentation.Section `json:"sections,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

func newSelectorResponse(view application.EditorView, message string) SelectorResponse {
	response := SelectorResponse{EditorView: view, Message: message}
	if view.State == application.StateReady {
		response.Sections = presentation.Selector(view.Selections)
	}
	return response
}

// Get returns the user's editor, mounting it on first visit. While the load
// is still running after loadWait the response is 202 with state loading.
func (handler *SelectorHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SelectorHandler.Get")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}
	handler.respondAfterLoad(ctx, span, writer, handler.sessions.Acquire(identity.ID))
}

// Mount throws away the current draft and reloads from the store.
func (handler *SelectorHandler) Mount(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SelectorHandler.Mount")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}
	handler.respondAfterLoad(ctx, span, writer, handler.sessions.Mount(identity.ID))
}

func (handler *SelectorHandler) respondAfterLoad(ctx context.Context, span trace.Span, writer http.ResponseWriter, session *application.EditorSession) {
	waitCtx, cancel := context.WithTimeout(ctx, handler.loadWait)
	defer cancel()
	_ = session.Wait(waitCtx)

	view := session.View()
	switch view.State {
	case application.StateLoading:
		writeJSON(writer, http.StatusAccepted, newSelectorResponse(view, errors.SelectorNotLoaded))
	case application.StateFailed:
		span.SetStatus(codes.Error, view.Error)
		if application.IsUnavailable(session.LoadError()) {
			writeJSON(writer, http.StatusServiceUnavailable, newSelectorResponse(view, errors.StoreUnavailable))
			return
		}
		writeJSON(writer, http.StatusBadGateway, newSelectorResponse(view, errors.UnableToFetchProfile))
	default:
		jsonResponse(newSelectorResponse(view, ""), writer)
	}
}

// Unmount is navigation away from the selector: the draft is dropped and a
// pending load is cancelled.
func (handler *SelectorHandler) Unmount(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "SelectorHandler.Unmount")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}
	handler.sessions.Unmount(identity.ID)
	writer.WriteHeader(http.StatusNoContent)
}

func (handler *SelectorHandler) Toggle(writer http.ResponseWriter, req *http.Request) {
	handler.transition(writer, req, "SelectorHandler.Toggle", (*application.EditorSession).CyclePriority)
}

func (handler *SelectorHandler) Privacy(writer http.ResponseWriter, req *http.Request) {
	handler.transition(writer, req, "SelectorHandler.Privacy", (*application.EditorSession).TogglePrivacy)
}

func (handler *SelectorHandler) transition(writer http.ResponseWriter, req *http.Request, name string, apply func(*application.EditorSession, domain.Category, string) (application.EditorView, error)) {
	_, span := handler.tracer.Start(req.Context(), name)
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	var request domain.ToggleRequest
	if err := decodeBody(req, &request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}
	if !request.Category.Valid() {
		span.SetStatus(codes.Error, errors.UnknownCategory)
		errorResponse(writer, http.StatusBadRequest, errors.UnknownCategory)
		return
	}
	if err := request.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		errorResponse(writer, http.StatusBadRequest, err.Error())
		return
	}

	session, ok := handler.sessions.Session(identity.ID)
	if !ok {
		errorResponse(writer, http.StatusConflict, errors.SelectorNotLoaded)
		return
	}

	view, err := apply(session, request.Category, request.Label)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.sessionError(writer, view, err)
		return
	}
	jsonResponse(newSelectorResponse(view, ""), writer)
}

// Save writes the draft. On failure the draft is returned untouched so the
// user can retry.
func (handler *SelectorHandler) Save(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SelectorHandler.Save")
	defer span.End()

	identity, ok := currentIdentity(writer, req)
	if !ok {
		span.SetStatus(codes.Error, errors.UnableToLoadUser)
		return
	}

	session, ok := handler.sessions.Session(identity.ID)
	if !ok {
		errorResponse(writer, http.StatusConflict, errors.SelectorNotLoaded)
		return
	}

	view, err := session.Save(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.sessionError(writer, view, err)
		return
	}
	handler.logger.WithField("profile", identity.ID).Info("Accommodations saved")
	jsonResponse(newSelectorResponse(view, errors.SaveSucceeded), writer)
}

func (handler *SelectorHandler) sessionError(writer http.ResponseWriter, view application.EditorView, err error) {
	switch {
	case errors.Is(err, errors.ErrUnknownCategory):
		errorResponse(writer, http.StatusBadRequest, errors.UnknownCategory)
	case errors.Is(err, errors.ErrNotLoaded), errors.Is(err, errors.ErrSessionDiscarded):
		writeJSON(writer, http.StatusConflict, newSelectorResponse(view, errors.SelectorNotLoaded))
	case errors.Is(err, errors.ErrLoadFailed):
		writeJSON(writer, http.StatusConflict, newSelectorResponse(view, errors.UnableToFetchProfile))
	case errors.Is(err, errors.ErrSaveInFlight):
		writeJSON(writer, http.StatusConflict, newSelectorResponse(view, errors.SelectorSaveInFlight))
	case application.IsUnavailable(err):
		writeJSON(writer, http.StatusServiceUnavailable, newSelectorResponse(view, errors.StoreUnavailable))
	default:
		handler.logger.Errorf("Selector save failed: %v", err)
		writeJSON(writer, http.StatusBadGateway, newSelectorResponse(view, errors.SaveFailed))
	}
}
