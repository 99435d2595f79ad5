package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"quiz-master-backend/internal/services"
	"quiz-master-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ListResults godoc
// @Summary      Recently finished games
// @Tags         history
// @Produce      json
// @Param        limit query int false "Max results (default 20, max 100)"
// @Success      200 {array} models.GameResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/history [get]
func (h *HistoryHandler) ListResults(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	results, err := h.history.List(c.Request.Context(), limit)
	if err != nil {
		log.Printf("history: list failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResult godoc
// @Summary      Latest finished game played under a code
// @Tags         history
// @Produce      json
// @Param        code path string true "Game code"
// @Success      200 {object} models.GameResult
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/history/{code} [get]
func (h *HistoryHandler) GetResult(c *gin.Context) {
	result, err := h.history.Get(c.Request.Context(), c.Param("code"))
	if errors.Is(err, store.ErrResultNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "game not found"})
		return
	}
	if err != nil {
		log.Printf("history: get failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load game"})
		return
	}
	c.JSON(http.StatusOK, result)
}
