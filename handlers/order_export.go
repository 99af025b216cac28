package handlers

import (
	"net/http"
	"time"

	"github.com/stevejford/sassiart/models"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// ExportOrders streams every order (with line items flattened) as an .xlsx
// download for offline bookkeeping.
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	query := h.DB.Preload("Items").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	headers := []string{
		"OrderNumber", "Status", "CustomerName", "CustomerEmail", "CustomerAddress",
		"Product", "Artwork", "Quantity", "UnitPrice", "OrderTotal", "PlacedAt",
	}
	headerRow := sheet.AddRow()
	for _, hdr := range headers {
		headerRow.AddCell().SetValue(hdr)
	}

	for _, o := range orders {
		for _, item := range o.Items {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.CustomerName)
			row.AddCell().SetValue(o.CustomerEmail)
			row.AddCell().SetValue(o.CustomerAddress)
			row.AddCell().SetValue(item.ProductName)
			row.AddCell().SetValue(item.ArtworkTitle)
			row.AddCell().SetValue(item.Quantity)
			row.AddCell().SetValue(item.UnitPrice)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}
}
