package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pizza_service/internal/middleware"
	"pizza_service/internal/model"
	"pizza_service/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles menu and order requests
type OrderHandler struct {
	service service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) GetMenu(c *gin.Context) {
	menu, err := h.service.Menu(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, menu)
}

func (h *OrderHandler) UpdateMenu(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var req model.UpsertMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid menu item"})
		return
	}

	menu, err := h.service.UpsertMenuItem(c.Request.Context(), identity, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "unable to add menu item"})
		case errors.Is(err, service.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update menu"})
		}
		return
	}

	c.JSON(http.StatusOK, menu)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	orders, err := h.service.ListOrders(c.Request.Context(), identity, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order"})
		return
	}

	order, receipt, err := h.service.CreateOrder(c.Request.Context(), identity, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrReceiptFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "jwt": receipt})
}

// RegisterOrderRoutes registers menu and order routes. The menu listing
// is public; everything else requires a session.
func (h *OrderHandler) RegisterOrderRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	orderGroup := rg.Group("/order")
	{
		orderGroup.GET("/menu", h.GetMenu)
		orderGroup.PUT("/menu", authMW, h.UpdateMenu)
		orderGroup.GET("", authMW, h.GetOrders)
		orderGroup.POST("", authMW, h.CreateOrder)
	}
}
