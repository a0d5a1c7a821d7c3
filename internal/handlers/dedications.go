package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/astrovows/starlight-backend/internal/astro"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/repos"
	"github.com/astrovows/starlight-backend/internal/response"
	"github.com/astrovows/starlight-backend/internal/services"
	"github.com/astrovows/starlight-backend/internal/types"
)

type DedicationHandler struct {
	repo    repos.DedicationRepo
	catalog *services.CatalogService
	log     *logger.Logger
}

func NewDedicationHandler(repo repos.DedicationRepo, catalogSvc *services.CatalogService, log *logger.Logger) *DedicationHandler {
	return &DedicationHandler{
		repo:    repo,
		catalog: catalogSvc,
		log:     log.With("handler", "DedicationHandler"),
	}
}

type createDedicationRequest struct {
	StarID      int     `json:"star_id" binding:"required"`
	StarName    string  `json:"star_name"`
	Emotion     string  `json:"emotion"`
	DedicatedTo string  `json:"dedicated_to"`
	Message     string  `json:"message"`
	Source      string  `json:"source"`
	Confidence  float64 `json:"confidence"`
}

// Create handles POST /api/dedications. When the catalog is loaded and
// knows the star, the stored name and coordinate string come from the
// catalog record rather than the request.
func (h *DedicationHandler) Create(c *gin.Context) {
	var req createDedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	row := &types.Dedication{
		StarID:      req.StarID,
		StarName:    req.StarName,
		Emotion:     req.Emotion,
		DedicatedTo: req.DedicatedTo,
		Message:     req.Message,
		Source:      req.Source,
		Confidence:  req.Confidence,
	}
	if idx, ok := h.catalog.Index(); ok {
		if rec, ok := idx.ByID(req.StarID); ok {
			if rec.HasName() {
				row.StarName = rec.ProperName
			}
			row.CoordText = astro.FormatRADec(rec.RA, rec.Dec)
		}
	}
	if row.StarName == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request",
			errors.New("star_name required for stars the catalog does not know"))
		return
	}

	created, err := h.repo.Create(c.Request.Context(), row)
	if err != nil {
		h.log.Error("failed to create dedication", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	response.RespondCreated(c, created)
}

// GetByID handles GET /api/dedications/:id.
func (h *DedicationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	row, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "dedication_not_found", errors.New("no dedication with that id"))
		return
	}
	response.RespondOK(c, row)
}

// List handles GET /api/dedications?limit=20.
func (h *DedicationHandler) List(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	rows, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"dedications": rows})
}
