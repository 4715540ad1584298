// File: internal/profile/handler.go
package profile

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

// Handler struct holds dependencies for profile handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
// The /default route must be registered before /:id so gin does not treat
// "default" as a profile ID.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	profileGroup := router.Group("/profiles", authMW)
	{
		profileGroup.GET("", h.list)
		profileGroup.POST("", h.create)
		profileGroup.GET("/default", h.getDefault)
		profileGroup.GET("/:id", h.get)
		profileGroup.PUT("/:id", h.update)
		profileGroup.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	profiles, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]Response, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, ToResponse(&profiles[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	profileID, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, mappings, err := h.service.Get(c.Request.Context(), userID, profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	resp := ToResponse(p)
	resp.Mappings = mappings
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getDefault(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	p, err := h.service.GetDefault(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create profile: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	profileID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update profile: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.Update(c.Request.Context(), userID, profileID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	profileID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, profileID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondNoContent(c)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return uuid.Nil, false
	}
	return id, true
}
