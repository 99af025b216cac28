package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/realtime"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func (h *OrderHandler) publish(action string, order *models.Order) {
	if h.Hub != nil {
		h.Hub.Publish("orders", action, order)
	}
}

// Checkout turns the session cart into a placed order. Everything that
// touches the database happens in one transaction; the cart is only
// cleared after the commit succeeds, so a failed checkout leaves the
// shopper exactly where they were.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req struct {
		CustomerName    string `json:"customer_name" binding:"required"`
		CustomerEmail   string `json:"customer_email" binding:"required,email"`
		CustomerAddress string `json:"customer_address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	shoppingCart := sessionCart(c)
	cartItems := shoppingCart.Items()
	if len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	order := models.Order{
		ID:              uuid.New(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		TotalAmount:     shoppingCart.Total(),
		Status:          models.OrderStatusPending,
	}

	orderItems := make([]models.OrderItem, len(cartItems))
	for i, item := range cartItems {
		orderItems[i] = models.OrderItem{
			OrderID:      order.ID,
			ProductID:    item.Product.ID,
			ArtworkID:    item.Artwork.ID,
			ProductName:  item.Product.Name,
			ArtworkTitle: item.Artwork.Title,
			Quantity:     item.Quantity,
			UnitPrice:    item.Product.BasePrice,
		}
	}

	tx := h.DB.Begin()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	if err := tx.Omit("Order").CreateInBatches(&orderItems, 100).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order items"})
		return
	}

	for _, item := range cartItems {
		if err := tx.Model(&models.Product{}).Where("id = ?", item.Product.ID).
			Update("total_sales", gorm.Expr("total_sales + ?", item.Quantity)).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sales"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete order"})
		return
	}

	shoppingCart.Clear()

	h.DB.Preload("Items").First(&order, order.ID)

	h.publish(realtime.ActionInsert, &order)
	utils.SendOrderConfirmation(order.CustomerEmail, order.CustomerName, order.OrderNumber, order.TotalAmount)

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(customer_name) LIKE LOWER(?) OR LOWER(customer_email) LIKE LOWER(?) OR order_number LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
		"pages":  int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	var order models.Order
	if err := h.DB.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.Status, req.Status),
		})
		return
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	h.DB.Preload("Items").First(&order, order.ID)

	h.publish(realtime.ActionUpdate, &order)
	utils.SendOrderStatusUpdate(order.CustomerEmail, order.CustomerName, order.OrderNumber, string(req.Status))

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllowedTransitions)
}

// GetAdminDashboard returns pre-computed stats for the admin landing page.
func (h *OrderHandler) GetAdminDashboard(c *gin.Context) {
	var productCount int64
	h.DB.Model(&models.Product{}).Count(&productCount)

	var artworkCount int64
	h.DB.Model(&models.Artwork{}).Count(&artworkCount)

	var studentCount int64
	h.DB.Model(&models.Student{}).Count(&studentCount)

	var totalOrders int64
	h.DB.Model(&models.Order{}).Count(&totalOrders)

	var totalRevenue float64
	h.DB.Model(&models.Order{}).Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&totalRevenue)

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recentRevenue float64
	h.DB.Model(&models.Order{}).Where("created_at >= ? AND status != ?", sevenDaysAgo, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&recentRevenue)

	var pendingOrders int64
	h.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)

	var subscriberCount int64
	h.DB.Model(&models.Subscription{}).Count(&subscriberCount)

	var recentOrders []models.Order
	h.DB.Preload("Items").Order("created_at DESC").Limit(10).Find(&recentOrders)

	c.JSON(http.StatusOK, gin.H{
		"total_products":    productCount,
		"total_artworks":    artworkCount,
		"total_students":    studentCount,
		"total_orders":      totalOrders,
		"total_revenue":     totalRevenue,
		"recent_revenue":    recentRevenue,
		"pending_orders":    pendingOrders,
		"total_subscribers": subscriberCount,
		"recent_orders":     recentOrders,
	})
}
