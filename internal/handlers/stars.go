package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/astrovows/starlight-backend/internal/astro"
	"github.com/astrovows/starlight-backend/internal/catalog"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/response"
	"github.com/astrovows/starlight-backend/internal/services"
)

const maxStarResults = 500

var errCatalogUnavailable = errors.New("star catalog is not loaded yet")

// StarView is the display projection of a catalog record: the raw record
// plus the formatted coordinate string and a color hint.
type StarView struct {
	catalog.Record
	CoordText string `json:"coord_text"`
	Color     string `json:"color"`
}

func newStarView(rec catalog.Record) StarView {
	return StarView{
		Record:    rec,
		CoordText: astro.FormatRADec(rec.RA, rec.Dec),
		Color:     astro.SpectralColor(rec.Spectral),
	}
}

type StarHandler struct {
	catalog *services.CatalogService
	log     *logger.Logger
}

func NewStarHandler(catalogSvc *services.CatalogService, log *logger.Logger) *StarHandler {
	return &StarHandler{catalog: catalogSvc, log: log.With("handler", "StarHandler")}
}

// GetStar handles GET /api/stars/:id.
func (h *StarHandler) GetStar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_star_id", err)
		return
	}
	idx, ok := h.catalog.Index()
	if !ok {
		response.RespondError(c, http.StatusServiceUnavailable, "catalog_unavailable", errCatalogUnavailable)
		return
	}
	rec, ok := idx.ByID(id)
	if !ok {
		response.RespondError(c, http.StatusNotFound, "star_not_found", errors.New("no star with that id"))
		return
	}
	response.RespondOK(c, newStarView(rec))
}

// ListStars handles GET /api/stars with one of three query shapes:
// ?name= substring search, ?min_mag=&max_mag= range query, or
// ?named=true for the named-star list. Results are capped.
func (h *StarHandler) ListStars(c *gin.Context) {
	idx, ok := h.catalog.Index()
	if !ok {
		response.RespondError(c, http.StatusServiceUnavailable, "catalog_unavailable", errCatalogUnavailable)
		return
	}

	limit := maxStarResults
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < maxStarResults {
			limit = n
		}
	}

	var records []catalog.Record
	switch {
	case c.Query("name") != "":
		records = idx.SearchByName(c.Query("name"))
	case c.Query("min_mag") != "" || c.Query("max_mag") != "":
		min, err := strconv.ParseFloat(c.DefaultQuery("min_mag", "-99"), 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_magnitude", err)
			return
		}
		max, err := strconv.ParseFloat(c.DefaultQuery("max_mag", "99"), 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_magnitude", err)
			return
		}
		records = idx.ByMagnitudeRange(min, max)
	case c.Query("named") == "true":
		records = idx.NamedStars()
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_query",
			errors.New("expected one of: name, min_mag/max_mag, named=true"))
		return
	}

	if len(records) > limit {
		records = records[:limit]
	}
	views := make([]StarView, len(records))
	for i, rec := range records {
		views[i] = newStarView(rec)
	}
	response.RespondOK(c, gin.H{"total": idx.Total(), "stars": views})
}
