package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/dto"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reviewQueueHandler struct {
	reviewQueue portssvc.ReviewQueueSvc
}

func registerReviewQueueRoutes(rg *gin.RouterGroup, rq portssvc.ReviewQueueSvc) {
	h := &reviewQueueHandler{reviewQueue: rq}

	rg.GET("/review-queue", h.listReviewQueue)
}

// listReviewQueue returns one page of transactions awaiting attention.
func (h *reviewQueueHandler) listReviewQueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListReviewQueueParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListReviewQueue", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.reviewQueue.ListReviewQueue(c.Request.Context(), org, params.ToReviewFilter(), params.Cursor, params.PageSize)
	if err != nil {
		respondWithError(c, err, "Failed to list review queue")
		return
	}

	logger.Debug("Review queue page served", slog.Int("count", len(page.Items)), slog.Bool("has_more", page.HasMore))
	c.JSON(http.StatusOK, dto.ToReviewQueuePageResponse(page))
}
