package handler

import (
	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/auth"
	"github.com/Barbearia-Digital/service-booking/internal/middleware"
	"github.com/Barbearia-Digital/service-booking/internal/response"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the haircut catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes on the given router group.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cortes := r.Group("/cortes")
	{
		cortes.GET("/", h.ListServices)
		cortes.POST("/", middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin), h.CreateService)
	}
}

// ListServices handles GET /api/cortes/
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, services)
}

// CreateService handles POST /api/cortes/
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req application.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Corte cadastrado com sucesso", dto)
}
