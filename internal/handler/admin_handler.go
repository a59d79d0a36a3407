package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/auth"
	"github.com/Barbearia-Digital/service-booking/internal/middleware"
	"github.com/Barbearia-Digital/service-booking/internal/response"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves administrator reports.
type AdminHandler struct {
	reports *application.ReportService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reports *application.ReportService) *AdminHandler {
	return &AdminHandler{reports: reports}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/relatorio", h.RevenueReport)
		admin.GET("/relatorio.xlsx", h.ExportSpreadsheet)
	}
}

// RevenueReport handles GET /api/admin/relatorio
func (h *AdminHandler) RevenueReport(c *gin.Context) {
	stats, err := h.reports.GetRevenueStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, stats)
}

// ExportSpreadsheet handles GET /api/admin/relatorio.xlsx
func (h *AdminHandler) ExportSpreadsheet(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.ExportSpreadsheet(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("agendamentos-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
