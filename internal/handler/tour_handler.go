package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tourvista/service-tours/internal/application"
	"github.com/tourvista/service-tours/pkg/auth"
	"github.com/tourvista/service-tours/pkg/middleware"
	"github.com/tourvista/service-tours/pkg/response"
)

// TourHandler handles HTTP requests for the tour catalog.
type TourHandler struct {
	tours      *application.TourService
	categories *application.CategoryService
}

// NewTourHandler creates a new TourHandler.
func NewTourHandler(tours *application.TourService, categories *application.CategoryService) *TourHandler {
	return &TourHandler{tours: tours, categories: categories}
}

// RegisterRoutes registers catalog routes. Reads are public; writes require
// the admin role.
func (h *TourHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	adminMW := []gin.HandlerFunc{
		middleware.AuthMiddleware(jwtManager),
		middleware.RequireRole(auth.RoleAdmin),
	}

	tours := r.Group("/api/v1/tours")
	{
		tours.GET("", h.ListActiveTours)
		tours.GET("/:id", h.GetTour)
		tours.POST("", append(adminMW, h.CreateTour)...)
		tours.PUT("/:id", append(adminMW, h.UpdateTour)...)
		tours.POST("/:id/archive", append(adminMW, h.ArchiveTour)...)
	}

	categories := r.Group("/api/v1/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", append(adminMW, h.CreateCategory)...)
		categories.PUT("/:id", append(adminMW, h.UpdateCategory)...)
		categories.DELETE("/:id", append(adminMW, h.DeleteCategory)...)
	}
}

// ListActiveTours handles GET /api/v1/tours.
func (h *TourHandler) ListActiveTours(c *gin.Context) {
	result, err := h.tours.ListActiveTours(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetTour handles GET /api/v1/tours/:id.
func (h *TourHandler) GetTour(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	result, err := h.tours.GetTour(c.Request.Context(), tourID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateTour handles POST /api/v1/tours.
func (h *TourHandler) CreateTour(c *gin.Context) {
	var req application.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.tours.CreateTour(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateTour handles PUT /api/v1/tours/:id.
func (h *TourHandler) UpdateTour(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	var req application.UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.tours.UpdateTour(c.Request.Context(), tourID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ArchiveTour handles POST /api/v1/tours/:id/archive.
func (h *TourHandler) ArchiveTour(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	if err := h.tours.ArchiveTour(c.Request.Context(), tourID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCategories handles GET /api/v1/categories.
func (h *TourHandler) ListCategories(c *gin.Context) {
	result, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateCategory handles POST /api/v1/categories.
func (h *TourHandler) CreateCategory(c *gin.Context) {
	var req application.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.categories.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateCategory handles PUT /api/v1/categories/:id.
func (h *TourHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category ID")
		return
	}

	var req application.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.categories.UpdateCategory(c.Request.Context(), categoryID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteCategory handles DELETE /api/v1/categories/:id.
func (h *TourHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category ID")
		return
	}

	if err := h.categories.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
