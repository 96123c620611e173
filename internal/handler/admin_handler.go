package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tourvista/service-tours/internal/application"
	bookingDomain "github.com/tourvista/service-tours/internal/domain/booking"
	"github.com/tourvista/service-tours/pkg/auth"
	"github.com/tourvista/service-tours/pkg/middleware"
	"github.com/tourvista/service-tours/pkg/response"
)

// AdminHandler handles administrative booking endpoints.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListAllBookings)
		admin.GET("/stats/bookings", h.GetBookingStats)
	}
}

// ListAllBookings handles GET /api/v1/admin/bookings. An optional ?status=
// query narrows the listing to one booking status.
func (h *AdminHandler) ListAllBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	var status *bookingDomain.BookingStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := bookingDomain.ParseBookingStatusName(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		status = &parsed
	}

	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// GetBookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
