// File: internal/mapping/handler.go
package mapping

import (
	"errors"
	"net/http"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for mapping handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new mapping handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for mapping operations.
// Creation lives under the parent profile; reads and writes of existing
// mappings are addressed directly.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.POST("/profiles/:id/mappings", authMW, h.create)

	mappingGroup := router.Group("/mappings", authMW)
	{
		mappingGroup.GET("", h.list)
		mappingGroup.PUT("/:id", h.update)
		mappingGroup.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	profileID, err := uuid.Parse(c.Query("profileId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A valid profileId query parameter is required."))
		return
	}

	mappings, err := h.service.List(c.Request.Context(), userID, profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]Response, 0, len(mappings))
	for i := range mappings {
		responses = append(responses, ToResponse(&mappings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create mapping: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	m, err := h.service.Create(c.Request.Context(), userID, profileID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToResponse(m))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid mapping ID format."))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update mapping: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	m, err := h.service.Update(c.Request.Context(), userID, mappingID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(m))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid mapping ID format."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, mappingID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondNoContent(c)
}
