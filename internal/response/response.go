// Package response writes the JSON envelopes of the booking API.
package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorBody is returned for every failed request.
type ErrorBody struct {
	Error     string `json:"erro"`
	Code      int    `json:"codigo"`
	Timestamp string `json:"timestamp"`
}

// SuccessBody wraps writes that report a message alongside the record.
type SuccessBody struct {
	Message   string `json:"mensagem"`
	Success   bool   `json:"sucesso"`
	Data      any    `json:"dados,omitempty"`
	Timestamp string `json:"timestamp"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Raw writes data as is. Listings are plain arrays.
func Raw(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success writes a 200 envelope.
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessBody{Message: message, Success: true, Data: data, Timestamp: now()})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, SuccessBody{Message: message, Success: true, Data: data, Timestamp: now()})
}

// Fail writes an error body with status.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message, Code: status, Timestamp: now()})
}

// BadRequest writes a 400.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden writes a 403.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// Error maps err to a status by its domain kind. Unknown errors become a 500
// without leaking their text.
func Error(c *gin.Context, err error) {
	var domErr *domain.DomainError
	if !errors.As(err, &domErr) {
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	}
	Fail(c, status, domErr.Message)
}
