package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/stevejford/sassiart/firebase"
	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/pricing"
	"github.com/stevejford/sassiart/realtime"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
	Hub     *realtime.Hub
}

func (h *ProductHandler) publish(action string, product *models.Product) {
	if h.Hub != nil {
		h.Hub.Publish("products", action, product)
	}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	query := h.DB.Model(&models.Product{}).Preload("Category")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("popular") == "true" {
		query = query.Where("is_popular = ?", true)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	switch c.Query("sort") {
	case "best_selling":
		query = query.Order("total_sales DESC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("name ASC")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct accepts a multipart form so the image can ride along with
// the fields. markup_percent falls back to the store default when omitted.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	basePrice, err := strconv.ParseFloat(c.PostForm("base_price"), 64)
	if err != nil || basePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base_price must be a non-negative number"})
		return
	}

	product := models.Product{
		ID:            uuid.New(),
		Name:          name,
		Description:   c.PostForm("description"),
		BasePrice:     basePrice,
		MarkupPercent: models.DefaultMarkupPercent,
	}

	if markup := c.PostForm("markup_percent"); markup != "" {
		m, err := strconv.ParseFloat(markup, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markup_percent must be a number"})
			return
		}
		product.MarkupPercent = m
	}

	if categoryIDStr := c.PostForm("category_id"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		if err := h.DB.First(&models.ProductCategory{}, "id = ?", categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		product.CategoryID = &categoryID
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateFileUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
			return
		}

		imageURL, err := h.Storage.UploadProductImage(
			file,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
		)
		file.Close()

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
		product.ImageURL = imageURL
	}

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.publish(realtime.ActionInsert, &product)
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		product.Name = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		product.Description = description
	}
	if basePriceStr := c.PostForm("base_price"); basePriceStr != "" {
		basePrice, err := strconv.ParseFloat(basePriceStr, 64)
		if err != nil || basePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "base_price must be a non-negative number"})
			return
		}
		product.BasePrice = basePrice
	}
	if markup := c.PostForm("markup_percent"); markup != "" {
		m, err := strconv.ParseFloat(markup, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markup_percent must be a number"})
			return
		}
		product.MarkupPercent = m
	}
	if categoryIDStr, ok := c.GetPostForm("category_id"); ok {
		if categoryIDStr == "" {
			product.CategoryID = nil
		} else {
			categoryID, err := uuid.Parse(categoryIDStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
				return
			}
			if err := h.DB.First(&models.ProductCategory{}, "id = ?", categoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
				return
			}
			product.CategoryID = &categoryID
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateFileUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
			return
		}

		imageURL, err := h.Storage.UploadProductImage(
			file,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
		)
		file.Close()

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}

		if product.ImageURL != "" {
			if objectPath, err := utils.ExtractObjectPath(product.ImageURL); err == nil {
				if err := h.Storage.DeleteFile(objectPath); err != nil {
					log.Println("Failed to delete old product image:", err)
				}
			}
		}
		product.ImageURL = imageURL
	}

	if err := h.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.publish(realtime.ActionUpdate, &product)
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	h.publish(realtime.ActionDelete, &product)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *ProductHandler) SetPopular(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		IsPopular *bool `json:"is_popular" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := h.DB.Model(&product).Update("is_popular", *req.IsPopular).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	product.IsPopular = *req.IsPopular
	h.publish(realtime.ActionUpdate, &product)
	c.JSON(http.StatusOK, product)
}

// PricePreview shows what a product would sell for under a given markup
// without saving anything. With no markup param it uses the stored one.
func (h *ProductHandler) PricePreview(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	markup := product.MarkupPercent
	if markupStr := c.Query("markup"); markupStr != "" {
		m, err := strconv.ParseFloat(markupStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markup must be a number"})
			return
		}
		markup = m
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":     product.ID,
		"base_price":     product.BasePrice,
		"markup_percent": markup,
		"final_price":    pricing.FinalPrice(product.BasePrice, markup),
		"below_base":     pricing.IsBelowBase(markup),
	})
}
