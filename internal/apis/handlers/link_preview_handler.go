package handlers

import (
	"agenthub/internal/services"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LinkPreviewHandler struct {
	linkPreviewService services.LinkPreviewService
}

func NewLinkPreviewHandler(linkPreviewService services.LinkPreviewService) *LinkPreviewHandler {
	if linkPreviewService == nil {
		log.Fatal("Link preview service cannot be nil")
	}
	return &LinkPreviewHandler{linkPreviewService: linkPreviewService}
}

// @Summary Link Preview
// @Description Title, description and image of a web page
// @Produce json
// @Param url query string true "Page URL"
// @Success 200 {object} dtos.LinkPreviewResponse
func (h *LinkPreviewHandler) Preview(c *gin.Context) {
	preview, err := h.linkPreviewService.Preview(c.Request.Context(), c.Query("url"))
	if err != nil {
		writeBareError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}
