package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categories portssvc.CategoryDirectorySvc
}

func registerCategoryRoutes(rg *gin.RouterGroup, cs portssvc.CategoryDirectorySvc) {
	h := &categoryHandler{categories: cs}

	rg.GET("/categories", h.listCategories)
}

// listCategories returns global categories plus those of the caller's organization.
func (h *categoryHandler) listCategories(c *gin.Context) {
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	categories, err := h.categories.ListCategories(c.Request.Context(), org.OrgID)
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}
