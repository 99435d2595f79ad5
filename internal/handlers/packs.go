package handlers

import (
	"net/http"

	"quiz-master-backend/internal/packs"

	"github.com/gin-gonic/gin"
)

type PacksHandler struct {
	library *packs.Library
}

func NewPacksHandler(library *packs.Library) *PacksHandler {
	return &PacksHandler{library: library}
}

// ListPacks godoc
// @Summary      Question packs a host can start a game from
// @Tags         packs
// @Produce      json
// @Success      200 {array} packs.Summary
// @Router       /api/v1/packs [get]
func (h *PacksHandler) ListPacks(c *gin.Context) {
	c.JSON(http.StatusOK, h.library.Summaries())
}
