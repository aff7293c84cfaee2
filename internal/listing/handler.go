// File: internal/listing/handler.go
package listing

import (
	"realty_bureau_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for plot handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new plot handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for plot operations. optionalAuthMW
// identifies the caller when a token is present without requiring one.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, optionalAuthMW, authMW, adminRoleMW gin.HandlerFunc) {
	plots := router.Group("/plots")
	{
		plots.GET("", optionalAuthMW, h.searchListings)
		plots.GET("/:id", h.getListing)

		plots.POST("", authMW, h.createListing)

		admin := plots.Group("")
		admin.Use(authMW, adminRoleMW)
		{
			admin.PATCH("/:id", h.updateListing)
			admin.DELETE("/:id", h.deleteListing)
			admin.PATCH("/:id/approve", h.approveListing)
		}
	}
}

func (h *Handler) createListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Create plot: invalid body", zap.Error(err))
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Plot created successfully.", listing)
}

func (h *Handler) getListing(c *gin.Context) {
	listing, err := h.service.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Plot retrieved successfully.", listing)
}

func (h *Handler) searchListings(c *gin.Context) {
	query, err := ParseQuery(c.Request.URL.Query())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	query.Scope = ScopePublic
	if common.IsAdmin(c) {
		query.Scope = ScopeAll
	}

	listings, pagination, err := h.service.SearchListings(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Plots retrieved successfully.", listings, pagination)
}

func (h *Handler) updateListing(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Update plot: invalid body", zap.Error(err), zap.String("plotID", id.String()))
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Plot updated successfully.", listing)
}

func (h *Handler) deleteListing(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	listing, err := h.service.DeleteListing(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Plot deleted successfully.", listing)
}

func (h *Handler) approveListing(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	listing, err := h.service.ApproveListing(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Plot approved successfully.", listing)
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid plot ID format."))
		return uuid.Nil, false
	}
	return id, true
}
