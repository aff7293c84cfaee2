// File: internal/wishlist/handler.go
package wishlist

import (
	"realty_bureau_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for wishlist handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new wishlist handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the wishlist routes. Every route needs a caller.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := router.Group("/wishlist")
	group.Use(authMW)
	{
		group.GET("", h.list)
		group.GET("/plots", h.listPlots)
		group.GET("/:plotId", h.contains)
		group.POST("/add", h.add)
		group.POST("/remove", h.remove)
		group.POST("/toggle", h.toggle)
	}
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) bindPlot(c *gin.Context) (uuid.UUID, bool) {
	var req PlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.PlotID)
	if err != nil {
		common.RespondWithError(c, common.NewFieldError("plotId", "plotId must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	ids, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist retrieved successfully.", ListResponse{Wishlist: ids})
}

func (h *Handler) listPlots(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	plots, err := h.service.ListPlots(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist plots retrieved successfully.", plots)
}

func (h *Handler) contains(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	plotID, err := uuid.Parse(c.Param("plotId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid plot ID format."))
		return
	}
	saved, err := h.service.Contains(c.Request.Context(), userID, plotID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist membership retrieved.", MembershipResponse{Saved: saved})
}

func (h *Handler) add(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	plotID, ok := h.bindPlot(c)
	if !ok {
		return
	}
	result, err := h.service.Add(c.Request.Context(), userID, plotID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	message := "Plot added to wishlist."
	if result == AlreadyPresent {
		message = "Plot is already in wishlist."
	}
	common.RespondOK(c, message, AddResponse{Result: result, Saved: true})
}

func (h *Handler) remove(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	plotID, ok := h.bindPlot(c)
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), userID, plotID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Plot removed from wishlist.", MembershipResponse{Saved: false})
}

func (h *Handler) toggle(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	plotID, ok := h.bindPlot(c)
	if !ok {
		return
	}
	saved, err := h.service.Toggle(c.Request.Context(), userID, plotID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	message := "Plot removed from wishlist."
	if saved {
		message = "Plot added to wishlist."
	}
	common.RespondOK(c, message, MembershipResponse{Saved: saved})
}
