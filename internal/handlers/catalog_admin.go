package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/response"
	"github.com/astrovows/starlight-backend/internal/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(catalogSvc *services.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalogSvc, log: log.With("handler", "CatalogHandler")}
}

// Status handles GET /api/catalog/status.
func (h *CatalogHandler) Status(c *gin.Context) {
	response.RespondOK(c, h.catalog.Status())
}

// Reload handles POST /api/catalog/reload: the explicit external reset
// that clears a sticky failure and fetches again.
func (h *CatalogHandler) Reload(c *gin.Context) {
	if _, err := h.catalog.Reload(c.Request.Context()); err != nil {
		response.RespondError(c, http.StatusBadGateway, "reload_failed", err)
		return
	}
	response.RespondOK(c, h.catalog.Status())
}
