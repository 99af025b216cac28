package handlers

import (
	"net/http"

	"github.com/stevejford/sassiart/cart"
	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

func sessionCart(c *gin.Context) *cart.Cart {
	return c.MustGet("cart").(*cart.Cart)
}

func cartResponse(shoppingCart *cart.Cart) gin.H {
	return gin.H{
		"items": shoppingCart.Items(),
		"total": shoppingCart.Total(),
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(sessionCart(c)))
}

// AddItem pairs a product with a piece of artwork and drops the pair into
// the session cart. The product and artwork are snapshotted at add time so
// later catalog edits don't reach into open carts.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		ArtworkID uuid.UUID `json:"artwork_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var artwork models.Artwork
	if err := h.DB.Preload("Student").Where("id = ?", req.ArtworkID).First(&artwork).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	if artwork.IsPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This artwork is not available for purchase"})
		return
	}

	studentName := ""
	if artwork.Student != nil {
		studentName = artwork.Student.Name
	}

	shoppingCart := sessionCart(c)
	item := shoppingCart.AddItem(
		cart.ProductSnapshot{
			ID:        product.ID,
			Name:      product.Name,
			BasePrice: product.BasePrice,
			ImageURL:  product.ImageURL,
		},
		cart.ArtworkSnapshot{
			ID:          artwork.ID,
			Title:       artwork.Title,
			StudentName: studentName,
			ImageURL:    artwork.ImageURL,
		},
	)

	c.JSON(http.StatusOK, gin.H{
		"item":  item,
		"items": shoppingCart.Items(),
		"total": shoppingCart.Total(),
	})
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		ArtworkID uuid.UUID `json:"artwork_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required,gte=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	shoppingCart := sessionCart(c)
	if !shoppingCart.UpdateQuantity(req.ProductID, req.ArtworkID, req.Quantity) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(shoppingCart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		ArtworkID uuid.UUID `json:"artwork_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	shoppingCart := sessionCart(c)
	if !shoppingCart.RemoveItem(req.ProductID, req.ArtworkID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(shoppingCart))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	shoppingCart := sessionCart(c)
	shoppingCart.Clear()
	c.JSON(http.StatusOK, cartResponse(shoppingCart))
}
