package handler

import (
	"net/http"
	"strconv"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/auth"
	"github.com/Barbearia-Digital/service-booking/internal/middleware"
	"github.com/Barbearia-Digital/service-booking/internal/response"
	"github.com/gin-gonic/gin"
)

// VoucherHandler handles HTTP requests for discount vouchers.
type VoucherHandler struct {
	service *application.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(service *application.VoucherService) *VoucherHandler {
	return &VoucherHandler{service: service}
}

// RegisterRoutes registers voucher routes on the given router group.
func (h *VoucherHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	optionalMW := middleware.OptionalAuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	vouchers := r.Group("/vouchers")
	{
		vouchers.GET("/", optionalMW, h.ListVouchers)
		vouchers.GET("/meus-vouchers", authMW, h.ListMyVouchers)
		vouchers.POST("/validar", optionalMW, h.ValidateVoucher)
		vouchers.POST("/usar", authMW, h.UseVoucher)
		vouchers.POST("/", authMW, adminRole, h.CreateVoucher)
		vouchers.PUT("/:id", authMW, adminRole, h.UpdateVoucher)
		vouchers.DELETE("/:id", authMW, adminRole, h.DeleteVoucher)
	}
}

// ListVouchers handles GET /api/vouchers/
func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	dtos, err := h.service.ListVouchers(c.Request.Context(), middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, dtos)
}

// ListMyVouchers handles GET /api/vouchers/meus-vouchers
func (h *VoucherHandler) ListMyVouchers(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	dtos, err := h.service.ListMyVouchers(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, dtos)
}

// ValidateVoucher handles POST /api/vouchers/validar. Business rejections are
// reported as 200 with valido=false.
func (h *VoucherHandler) ValidateVoucher(c *gin.Context) {
	var req application.ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Código do voucher é obrigatório")
		return
	}

	user, _ := middleware.GetUser(c)
	result, err := h.service.ValidateVoucher(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, result)
}

// UseVoucher handles POST /api/vouchers/usar
func (h *VoucherHandler) UseVoucher(c *gin.Context) {
	var req application.ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Código do voucher é obrigatório")
		return
	}

	user, _ := middleware.GetUser(c)
	if err := h.service.UseVoucher(c.Request.Context(), user, req.Code); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sucesso": true, "mensagem": "Voucher utilizado com sucesso"})
}

// CreateVoucher handles POST /api/vouchers/
func (h *VoucherHandler) CreateVoucher(c *gin.Context) {
	var req application.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateVoucher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Voucher criado com sucesso", dto)
}

// UpdateVoucher handles PUT /api/vouchers/:id
func (h *VoucherHandler) UpdateVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req application.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpdateVoucher(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Voucher atualizado com sucesso", dto)
}

// DeleteVoucher handles DELETE /api/vouchers/:id
func (h *VoucherHandler) DeleteVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteVoucher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Voucher removido com sucesso"})
}

// parseID reads the :id path parameter, writing a 400 when it is malformed.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "ID inválido")
		return 0, false
	}
	return id, true
}
