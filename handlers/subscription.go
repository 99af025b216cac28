package handlers

import (
	"net/http"

	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	DB *gorm.DB
}

// Subscribe signs an email up for the newsletter, a student's gallery
// updates, or both. Re-subscribing the same email/student pair updates the
// existing row instead of erroring.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email                 string     `json:"email" binding:"required,email"`
		StudentID             *uuid.UUID `json:"student_id"`
		SubscribeToGallery    bool       `json:"subscribe_to_gallery"`
		SubscribeToNewsletter bool       `json:"subscribe_to_newsletter"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if !req.SubscribeToGallery && !req.SubscribeToNewsletter {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pick at least one subscription"})
		return
	}

	if req.SubscribeToGallery && req.StudentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Gallery subscriptions need a student_id"})
		return
	}

	if req.StudentID != nil {
		var student models.Student
		if err := h.DB.Where("id = ? AND is_gallery_public = ?", req.StudentID, true).First(&student).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
	}

	query := h.DB.Where("email = ?", req.Email)
	if req.StudentID != nil {
		query = query.Where("student_id = ?", req.StudentID)
	} else {
		query = query.Where("student_id IS NULL")
	}

	var sub models.Subscription
	isNew := false
	if err := query.First(&sub).Error; err != nil {
		sub = models.Subscription{
			ID:        uuid.New(),
			Email:     req.Email,
			StudentID: req.StudentID,
		}
		isNew = true
	}

	sub.SubscribeToGallery = sub.SubscribeToGallery || req.SubscribeToGallery
	sub.SubscribeToNewsletter = sub.SubscribeToNewsletter || req.SubscribeToNewsletter

	if err := h.DB.Save(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	if isNew {
		utils.SendSubscriptionWelcome(sub.Email)
		c.JSON(http.StatusCreated, sub)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	query := h.DB.Model(&models.Subscription{}).Preload("Student")

	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if c.Query("newsletter") == "true" {
		query = query.Where("subscribe_to_newsletter = ?", true)
	}

	var subs []models.Subscription
	if err := query.Order("created_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	id := c.Param("id")

	var sub models.Subscription
	if err := h.DB.Where("id = ?", id).First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if err := h.DB.Delete(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}
