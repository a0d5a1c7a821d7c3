package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	rediscache "github.com/astrovows/starlight-backend/internal/clients/redis"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/response"
	"github.com/astrovows/starlight-backend/internal/services"
)

const maxSuggestionCount = 20

type SuggestionHandler struct {
	resolver services.SuggestionService
	cache    rediscache.SuggestionCache // nil when redis is not configured
	log      *logger.Logger
}

func NewSuggestionHandler(resolver services.SuggestionService, cache rediscache.SuggestionCache, log *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		resolver: resolver,
		cache:    cache,
		log:      log.With("handler", "SuggestionHandler"),
	}
}

// GetSuggestions handles GET /api/suggestions/:emotion?count=5. It always
// answers 200 with a full batch; resolution quality degrades silently.
func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	emotion := strings.TrimSpace(c.Param("emotion"))
	if emotion == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_emotion", errors.New("emotion key required"))
		return
	}

	count := services.DefaultSuggestionCount
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSuggestionCount {
			response.RespondError(c, http.StatusBadRequest, "invalid_count", errors.New("count must be 1-20"))
			return
		}
		count = n
	}

	if h.cache != nil {
		if cached, ok := h.cache.Get(c.Request.Context(), emotion, count); ok {
			response.RespondOK(c, gin.H{"emotion": emotion, "suggestions": cached, "cached": true})
			return
		}
	}

	suggestions := h.resolver.Resolve(c.Request.Context(), emotion, count)
	if h.cache != nil {
		h.cache.Set(c.Request.Context(), emotion, count, suggestions)
	}
	response.RespondOK(c, gin.H{"emotion": emotion, "suggestions": suggestions})
}
