package handlers

import (
	"net/http"
	"time"

	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentHandler struct {
	DB *gorm.DB
}

// GetStudents lists students with public galleries for the storefront.
func (h *StudentHandler) GetStudents(c *gin.Context) {
	var students []models.Student
	if err := h.DB.Where("is_gallery_public = ?", true).Order("name ASC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	c.JSON(http.StatusOK, publicStudents(students))
}

// GetFeaturedStudents returns the featured strip: flagged students whose
// feature window has not lapsed.
func (h *StudentHandler) GetFeaturedStudents(c *gin.Context) {
	var students []models.Student
	if err := h.DB.Where("is_gallery_public = ? AND is_featured = ?", true, true).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	now := time.Now()
	current := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.IsCurrentlyFeatured(now) {
			current = append(current, s)
		}
	}

	c.JSON(http.StatusOK, publicStudents(current))
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := c.Param("id")

	var student models.Student
	if err := h.DB.Preload("Artworks", "is_private = ?", false).
		Where("id = ? AND is_gallery_public = ?", id, true).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          student.ID,
		"name":        student.Name,
		"is_featured": student.IsCurrentlyFeatured(time.Now()),
		"artworks":    student.Artworks,
	})
}

// publicStudents strips account fields the storefront has no business seeing.
func publicStudents(students []models.Student) []gin.H {
	out := make([]gin.H, len(students))
	for i, s := range students {
		out[i] = gin.H{
			"id":          s.ID,
			"name":        s.Name,
			"is_featured": s.IsCurrentlyFeatured(time.Now()),
		}
	}
	return out
}

// Admin surface below.

func (h *StudentHandler) ListStudents(c *gin.Context) {
	query := h.DB.Model(&models.Student{})

	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+search+"%", "%"+search+"%")
	}

	var students []models.Student
	if err := query.Order("created_at DESC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		IsGalleryPublic *bool  `json:"is_gallery_public"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var existing models.Student
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	student := models.Student{
		ID:              uuid.New(),
		Name:            req.Name,
		Email:           req.Email,
		Password:        string(hashedPassword),
		IsGalleryPublic: req.IsGalleryPublic == nil || *req.IsGalleryPublic,
	}

	if err := h.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")

	var student models.Student
	if err := h.DB.Where("id = ?", id).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var req struct {
		Name            *string `json:"name"`
		Email           *string `json:"email"`
		IsGalleryPublic *bool   `json:"is_gallery_public"`
		IsAdmin         *bool   `json:"is_admin"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Email != nil && *req.Email != student.Email {
		var existing models.Student
		if err := h.DB.Where("email = ?", *req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		student.Email = *req.Email
	}
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.IsGalleryPublic != nil {
		student.IsGalleryPublic = *req.IsGalleryPublic
	}
	if req.IsAdmin != nil {
		currentID, _ := c.Get("student_id")
		if id := currentID.(uuid.UUID); id == student.ID && !*req.IsAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot revoke your own admin access"})
			return
		}
		student.IsAdmin = *req.IsAdmin
	}

	if err := h.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")

	currentID, _ := c.Get("student_id")
	if sid, ok := currentID.(uuid.UUID); ok && sid.String() == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	var student models.Student
	if err := h.DB.Where("id = ?", id).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	if err := h.DB.Delete(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// SetFeatured flips the featured flag and optionally sets an expiry.
func (h *StudentHandler) SetFeatured(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		IsFeatured    *bool      `json:"is_featured" binding:"required"`
		FeaturedUntil *time.Time `json:"featured_until"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var student models.Student
	if err := h.DB.Where("id = ?", id).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	updates := map[string]interface{}{
		"is_featured":    *req.IsFeatured,
		"featured_until": req.FeaturedUntil,
	}
	if err := h.DB.Model(&student).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}

	h.DB.Where("id = ?", id).First(&student)
	c.JSON(http.StatusOK, student)
}
