package handler

import (
	"net/http"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/auth"
	"github.com/Barbearia-Digital/service-booking/internal/middleware"
	"github.com/Barbearia-Digital/service-booking/internal/response"
	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles HTTP requests for appointments.
type AppointmentHandler struct {
	service *application.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *application.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// RegisterRoutes registers appointment routes on the given router group.
func (h *AppointmentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	agendamentos := r.Group("/agendamentos")
	{
		agendamentos.GET("/", h.ListAppointments)
		agendamentos.GET("/:id", h.GetAppointment)
		agendamentos.POST("/", authMW, h.CreateAppointment)
		agendamentos.PUT("/:id", authMW, adminRole, h.UpdateAppointment)
		agendamentos.DELETE("/:id", authMW, adminRole, h.DeleteAppointment)
	}
}

// ListAppointments handles GET /api/agendamentos/
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	dtos, err := h.service.ListAppointments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, dtos)
}

// GetAppointment handles GET /api/agendamentos/:id
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	dto, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, dto)
}

// CreateAppointment handles POST /api/agendamentos/
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Unauthorized(c, "Login necessário")
		return
	}

	var req application.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Campos obrigatórios: nome_cliente, tipo_corte, data, horario, pagamento")
		return
	}

	dto, err := h.service.CreateAppointment(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Agendamento criado com sucesso", dto)
}

// UpdateAppointment handles PUT /api/agendamentos/:id
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req application.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpdateAppointment(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Agendamento atualizado com sucesso", dto)
}

// DeleteAppointment handles DELETE /api/agendamentos/:id
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Agendamento removido com sucesso"})
}
