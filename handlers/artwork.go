package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/stevejford/sassiart/firebase"
	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/realtime"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArtworkHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
	Hub     *realtime.Hub
}

func (h *ArtworkHandler) publish(action string, artwork *models.Artwork) {
	if h.Hub != nil {
		h.Hub.Publish("artwork", action, artwork)
	}
}

// GetArtworks is the storefront gallery feed: private pieces and pieces
// belonging to hidden galleries are excluded.
func (h *ArtworkHandler) GetArtworks(c *gin.Context) {
	query := h.DB.Model(&models.Artwork{}).Preload("Student").
		Joins("JOIN students ON students.id = artworks.student_id").
		Where("artworks.is_private = ? AND students.is_gallery_public = ?", false, true)

	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("artworks.student_id = ?", studentID)
	}

	var artworks []models.Artwork
	if err := query.Order("artworks.created_at DESC").Find(&artworks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch artwork"})
		return
	}

	c.JSON(http.StatusOK, artworks)
}

func (h *ArtworkHandler) GetArtwork(c *gin.Context) {
	id := c.Param("id")

	var artwork models.Artwork
	if err := h.DB.Preload("Student").Where("id = ?", id).First(&artwork).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	// Private pieces are invisible to the storefront
	if artwork.IsPrivate {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	c.JSON(http.StatusOK, artwork)
}

// notifySubscribers emails everyone subscribed to this student's gallery.
// Best-effort: each send runs on its own goroutine inside utils.
func (h *ArtworkHandler) notifySubscribers(artwork *models.Artwork) {
	var student models.Student
	if err := h.DB.Where("id = ?", artwork.StudentID).First(&student).Error; err != nil {
		return
	}

	var subs []models.Subscription
	if err := h.DB.Where("student_id = ? AND subscribe_to_gallery = ?", artwork.StudentID, true).Find(&subs).Error; err != nil {
		log.Println("Failed to load gallery subscribers:", err)
		return
	}

	storefrontURL := os.Getenv("STOREFRONT_URL")
	if storefrontURL == "" {
		storefrontURL = "http://localhost:5173"
	}

	for _, sub := range subs {
		utils.SendNewArtworkEmail(sub.Email, student.Name, artwork.Title, storefrontURL)
	}
}

func (h *ArtworkHandler) CreateArtwork(c *gin.Context) {
	studentID, err := uuid.Parse(c.PostForm("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	if err := h.DB.First(&models.Student{}, "id = ?", studentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	artwork := models.Artwork{
		ID:          uuid.New(),
		StudentID:   studentID,
		Title:       title,
		Description: c.PostForm("description"),
		IsPrivate:   c.PostForm("is_private") == "true",
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

		imageURL, err := h.Storage.UploadArtworkImage(
			file,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
		)
		file.Close()

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
		artwork.ImageURL = imageURL
	}

	if err := h.DB.Create(&artwork).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create artwork"})
		return
	}

	h.DB.Preload("Student").First(&artwork, artwork.ID)

	if !artwork.IsPrivate {
		h.publish(realtime.ActionInsert, &artwork)
		h.notifySubscribers(&artwork)
	}

	c.JSON(http.StatusCreated, artwork)
}

func (h *ArtworkHandler) UpdateArtwork(c *gin.Context) {
	id := c.Param("id")

	var artwork models.Artwork
	if err := h.DB.Where("id = ?", id).First(&artwork).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	wasPrivate := artwork.IsPrivate

	if title := c.PostForm("title"); title != "" {
		artwork.Title = title
	}
	if description, ok := c.GetPostForm("description"); ok {
		artwork.Description = description
	}
	if isPrivate, ok := c.GetPostForm("is_private"); ok {
		artwork.IsPrivate = isPrivate == "true"
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

		imageURL, err := h.Storage.UploadArtworkImage(
			file,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
		)
		file.Close()

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}

		if artwork.ImageURL != "" {
			if objectPath, err := utils.ExtractObjectPath(artwork.ImageURL); err == nil {
				if err := h.Storage.DeleteFile(objectPath); err != nil {
					log.Println("Failed to delete old artwork image:", err)
				}
			}
		}
		artwork.ImageURL = imageURL
	}

	if err := h.DB.Save(&artwork).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update artwork"})
		return
	}

	h.DB.Preload("Student").First(&artwork, artwork.ID)

	h.publish(realtime.ActionUpdate, &artwork)
	if wasPrivate && !artwork.IsPrivate {
		h.notifySubscribers(&artwork)
	}

	c.JSON(http.StatusOK, artwork)
}

func (h *ArtworkHandler) DeleteArtwork(c *gin.Context) {
	id := c.Param("id")

	var artwork models.Artwork
	if err := h.DB.Where("id = ?", id).First(&artwork).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	if err := h.DB.Delete(&artwork).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete artwork"})
		return
	}

	h.publish(realtime.ActionDelete, &artwork)
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}
