// File: internal/telemetry/handler.go
package telemetry

import (
	"errors"
	"net/http"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for telemetry handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new telemetry handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for telemetry operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.POST("/telemetry", authMW, h.record)
}

func (h *Handler) record(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Record telemetry: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if _, err := h.service.Record(c.Request.Context(), userID, req); err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}
