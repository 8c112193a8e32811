package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"profile_service/domain"
)

type CatalogHandler struct {
	tracer trace.Tracer
}

func NewCatalogHandler(tracer trace.Tracer) *CatalogHandler {
	return &CatalogHandler{tracer: tracer}
}

func (handler *CatalogHandler) Init(router *mux.Router) {
	router.HandleFunc("/catalog", handler.GetCatalog).Methods(http.MethodGet)
}

func (handler *CatalogHandler) GetCatalog(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "CatalogHandler.GetCatalog")
	defer span.End()

	jsonResponse(domain.Catalog(), writer)
}
