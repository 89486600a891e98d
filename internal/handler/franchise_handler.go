package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pizza_service/internal/authz"
	"pizza_service/internal/middleware"
	"pizza_service/internal/model"
	"pizza_service/internal/service"

	"github.com/gin-gonic/gin"
)

// FranchiseHandler handles franchise and store requests
type FranchiseHandler struct {
	service service.FranchiseService
}

// NewFranchiseHandler creates a new FranchiseHandler
func NewFranchiseHandler(s service.FranchiseService) *FranchiseHandler {
	return &FranchiseHandler{service: s}
}

func (h *FranchiseHandler) ListFranchises(c *gin.Context) {
	var caller *authz.Identity
	if identity, ok := middleware.IdentityFromContext(c); ok {
		caller = &identity
	}

	franchises, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load franchises"})
		return
	}

	c.JSON(http.StatusOK, franchises)
}

func (h *FranchiseHandler) ListUserFranchises(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	// The same path position serves as a user id here and a franchise
	// id on the sibling routes, so the routes share the :id wildcard.
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID"})
		return
	}

	franchises, err := h.service.ListForUser(c.Request.Context(), identity, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load franchises"})
		return
	}

	c.JSON(http.StatusOK, franchises)
}

func (h *FranchiseHandler) CreateFranchise(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var req model.CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid franchise"})
		return
	}

	franchise, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "unable to create a franchise"})
		case errors.Is(err, service.ErrUnknownAdmin):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrFranchiseExists):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create franchise"})
		}
		return
	}

	c.JSON(http.StatusOK, franchise)
}

func (h *FranchiseHandler) DeleteFranchise(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	franchiseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid franchise ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity, franchiseID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "unable to delete a franchise"})
		case errors.Is(err, service.ErrFranchiseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete franchise"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "franchise deleted"})
}

func (h *FranchiseHandler) CreateStore(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	franchiseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid franchise ID"})
		return
	}

	var req model.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid store"})
		return
	}

	store, err := h.service.CreateStore(c.Request.Context(), identity, franchiseID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "unable to create a store"})
		case errors.Is(err, service.ErrFranchiseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create store"})
		}
		return
	}

	c.JSON(http.StatusOK, store)
}

func (h *FranchiseHandler) DeleteStore(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	franchiseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid franchise ID"})
		return
	}
	storeID, err := strconv.Atoi(c.Param("storeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid store ID"})
		return
	}

	if err := h.service.DeleteStore(c.Request.Context(), identity, franchiseID, storeID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "unable to delete a store"})
		case errors.Is(err, service.ErrStoreNotFound), errors.Is(err, service.ErrFranchiseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete store"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "store deleted"})
}

// RegisterFranchiseRoutes registers franchise and store routes. The
// listing uses optional auth so admins see the full roster while
// anonymous callers still get names and stores.
func (h *FranchiseHandler) RegisterFranchiseRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, optionalAuthMW gin.HandlerFunc) {
	franchiseGroup := rg.Group("/franchise")
	{
		franchiseGroup.GET("", optionalAuthMW, h.ListFranchises)
		franchiseGroup.GET("/:id", authMW, h.ListUserFranchises)
		franchiseGroup.POST("", authMW, h.CreateFranchise)
		franchiseGroup.DELETE("/:id", authMW, h.DeleteFranchise)
		franchiseGroup.POST("/:id/store", authMW, h.CreateStore)
		franchiseGroup.DELETE("/:id/store/:storeId", authMW, h.DeleteStore)
	}
}
