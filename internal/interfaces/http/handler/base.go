package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/logger"
	"github.com/retaildash/backend/internal/interfaces/http/dto"
	"github.com/retaildash/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 response describing a binding failure
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError writes err as a JSON error response.
// Domain errors keep their code and message, with any details as data.
// Deadline errors become 504 and everything else is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.HandleErrorWithData(c, err, nil)
}

// HandleErrorWithData writes err like HandleError with data as the payload,
// e.g. the record as it stands after a failed write was undone
func (h *BaseHandler) HandleErrorWithData(c *gin.Context, err error, data any) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		if data == nil && len(domainErr.Details) > 0 {
			data = domainErr.Details
		}
		if data != nil {
			c.JSON(status, dto.NewErrorResponseWithData(code, domainErr.Message, requestID, data))
			return
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	status, code, message := http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"
	if errors.Is(err, context.DeadlineExceeded) {
		logger.L(c.Request.Context()).Warn("request timed out", zap.Error(err))
		status, code, message = http.StatusGatewayTimeout, dto.ErrCodeTimeout, "The data store did not answer in time"
	} else {
		logger.L(c.Request.Context()).Error("unexpected error", zap.Error(err))
	}
	if data != nil {
		c.JSON(status, dto.NewErrorResponseWithData(code, message, requestID, data))
		return
	}
	h.Error(c, status, code, message)
}

// bindJSON binds the request body, writing a validation response on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters, writing a validation response on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// uuidParam parses a UUID path parameter
func (h *BaseHandler) uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// int64Param parses a positive integer path parameter
func (h *BaseHandler) int64Param(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return 0, false
	}
	return id, true
}

// pageDefaults fills in missing pagination values
func pageDefaults(page, pageSize *int) {
	if *page <= 0 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = 20
	}
}
