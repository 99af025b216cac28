package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/stevejford/sassiart/cart"
	"github.com/stevejford/sassiart/middleware"
	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/realtime"
	"github.com/stevejford/sassiart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables using raw SQLite-compatible SQL instead of AutoMigrate,
	// because the GORM model tags use PostgreSQL-specific defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM order_items")
	testDB.Exec("DELETE FROM orders")
	testDB.Exec("DELETE FROM subscriptions")
	testDB.Exec("DELETE FROM artworks")
	testDB.Exec("DELETE FROM products")
	testDB.Exec("DELETE FROM product_categories")
	testDB.Exec("DELETE FROM password_reset_tokens")
	testDB.Exec("DELETE FROM refresh_tokens")
	testDB.Exec("DELETE FROM students")
	return testDB
}

// createSQLiteTables creates all tables with SQLite-compatible DDL.
func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "students" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"is_admin" INTEGER DEFAULT 0,
			"is_gallery_public" INTEGER DEFAULT 1,
			"is_featured" INTEGER DEFAULT 0,
			"featured_until" DATETIME,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_students_deleted_at ON "students"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "product_categories" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL UNIQUE,
			"description" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_categories_deleted_at ON "product_categories"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"description" TEXT,
			"base_price" REAL NOT NULL,
			"markup_percent" REAL DEFAULT 30,
			"category_id" TEXT,
			"image_url" TEXT,
			"total_sales" INTEGER DEFAULT 0,
			"is_popular" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_products_category FOREIGN KEY ("category_id") REFERENCES "product_categories"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_deleted_at ON "products"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_products_category_id ON "products"("category_id")`,

		`CREATE TABLE IF NOT EXISTS "artworks" (
			"id" TEXT PRIMARY KEY,
			"student_id" TEXT NOT NULL,
			"title" TEXT NOT NULL,
			"description" TEXT,
			"image_url" TEXT,
			"is_private" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_artworks_student FOREIGN KEY ("student_id") REFERENCES "students"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_deleted_at ON "artworks"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_student_id ON "artworks"("student_id")`,

		`CREATE TABLE IF NOT EXISTS "orders" (
			"id" TEXT PRIMARY KEY,
			"order_number" TEXT NOT NULL UNIQUE,
			"customer_name" TEXT NOT NULL,
			"customer_email" TEXT NOT NULL,
			"customer_address" TEXT NOT NULL,
			"total_amount" REAL NOT NULL,
			"status" TEXT DEFAULT 'pending',
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_deleted_at ON "orders"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "order_items" (
			"id" TEXT PRIMARY KEY,
			"order_id" TEXT NOT NULL,
			"product_id" TEXT NOT NULL,
			"artwork_id" TEXT NOT NULL,
			"product_name" TEXT,
			"artwork_title" TEXT,
			"quantity" INTEGER NOT NULL,
			"unit_price" REAL NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_order_items_order FOREIGN KEY ("order_id") REFERENCES "orders"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON "order_items"("order_id")`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON "order_items"("product_id")`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_artwork_id ON "order_items"("artwork_id")`,

		`CREATE TABLE IF NOT EXISTS "subscriptions" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL,
			"student_id" TEXT,
			"subscribe_to_gallery" INTEGER DEFAULT 0,
			"subscribe_to_newsletter" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscription_email_student ON "subscriptions"("email", "student_id")`,

		`CREATE TABLE IF NOT EXISTS "password_reset_tokens" (
			"id" TEXT PRIMARY KEY,
			"student_id" TEXT NOT NULL,
			"token" TEXT NOT NULL UNIQUE,
			"expires_at" DATETIME NOT NULL,
			"used_at" DATETIME,
			"created_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_password_reset_tokens_student_id ON "password_reset_tokens"("student_id")`,

		`CREATE TABLE IF NOT EXISTS "refresh_tokens" (
			"id" TEXT PRIMARY KEY,
			"student_id" TEXT NOT NULL,
			"token" TEXT NOT NULL UNIQUE,
			"expires_at" DATETIME NOT NULL,
			"revoked_at" DATETIME,
			"created_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_student_id ON "refresh_tokens"("student_id")`,
	}

	for _, ddl := range tables {
		if err := db.Exec(ddl).Error; err != nil {
			return err
		}
	}
	return nil
}

// ==================== Seed Helpers ====================

// seedStudent creates a student account and returns it with a valid JWT token.
func seedStudent(db *gorm.DB, email string, isAdmin bool) (models.Student, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	student := models.Student{
		ID:              uuid.New(),
		Name:            "Test Student",
		Email:           email,
		Password:        string(hashed),
		IsAdmin:         isAdmin,
		IsGalleryPublic: true,
	}
	db.Create(&student)
	// GORM skips zero-value bools on Create, so pin them explicitly.
	db.Model(&student).Updates(map[string]interface{}{
		"is_admin":          isAdmin,
		"is_gallery_public": true,
	})

	token, _ := utils.GenerateToken(student.ID, student.Email, student.IsAdmin)
	return student, token
}

// seedCategory creates a test product category.
func seedCategory(db *gorm.DB, name string) models.ProductCategory {
	cat := models.ProductCategory{
		ID:   uuid.New(),
		Name: name,
	}
	db.Create(&cat)
	return cat
}

// seedProduct creates a test product.
func seedProduct(db *gorm.DB, name string, basePrice float64) models.Product {
	prod := models.Product{
		ID:            uuid.New(),
		Name:          name,
		BasePrice:     basePrice,
		MarkupPercent: models.DefaultMarkupPercent,
	}
	db.Create(&prod)
	return prod
}

// seedArtwork creates a test artwork for the given student.
func seedArtwork(db *gorm.DB, studentID uuid.UUID, title string, isPrivate bool) models.Artwork {
	art := models.Artwork{
		ID:        uuid.New(),
		StudentID: studentID,
		Title:     title,
		IsPrivate: isPrivate,
	}
	db.Create(&art)
	db.Model(&art).Update("is_private", isPrivate)
	return art
}

// seedOrder creates an order with one line item.
func seedOrder(db *gorm.DB, productID, artworkID uuid.UUID) models.Order {
	orderID := uuid.New()
	order := models.Order{
		ID:              orderID,
		OrderNumber:     "ORD" + time.Now().Format("20060102150405") + orderID.String()[:8],
		CustomerName:    "Jess Buyer",
		CustomerEmail:   "buyer@test.com",
		CustomerAddress: "1 Test Street",
		TotalAmount:     20.00,
		Status:          models.OrderStatusPending,
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: productID,
				ArtworkID: artworkID,
				Quantity:  2,
				UnitPrice: 10.00,
			},
		},
	}
	db.Create(&order)
	return order
}

// seedSubscription creates a subscription row.
func seedSubscription(db *gorm.DB, email string, studentID *uuid.UUID, gallery, newsletter bool) models.Subscription {
	sub := models.Subscription{
		ID:                    uuid.New(),
		Email:                 email,
		StudentID:             studentID,
		SubscribeToGallery:    gallery,
		SubscribeToNewsletter: newsletter,
	}
	db.Create(&sub)
	db.Model(&sub).Updates(map[string]interface{}{
		"subscribe_to_gallery":    gallery,
		"subscribe_to_newsletter": newsletter,
	})
	return sub
}

// ==================== Router Setup ====================

// setupAuthRouter sets up routes for auth handler tests.
func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db}

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.POST("/auth/refresh", authHandler.RefreshTokenHandler)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.PUT("/auth/profile", authHandler.UpdateProfile)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	return r
}

// setupCartRouter wires the cart and checkout endpoints against a fresh
// session manager, returning the manager so tests can mint sessions.
func setupCartRouter(db *gorm.DB) (*gin.Engine, *cart.Manager) {
	r := gin.New()
	carts := cart.NewManager(cart.DefaultSessionTTL)
	cartHandler := &CartHandler{DB: db}
	orderHandler := &OrderHandler{DB: db}
	sessionHandler := &SessionHandler{Carts: carts}

	api := r.Group("/api")
	api.POST("/session", sessionHandler.StartSession)

	session := api.Group("")
	session.Use(middleware.SessionMiddleware(carts))
	session.GET("/cart", cartHandler.GetCart)
	session.POST("/cart", cartHandler.AddItem)
	session.PUT("/cart/items", cartHandler.UpdateItem)
	session.DELETE("/cart/items", cartHandler.RemoveItem)
	session.DELETE("/cart", cartHandler.ClearCart)
	session.POST("/checkout", orderHandler.Checkout)

	return r, carts
}

// setupProductRouter sets up routes for product handler tests.
func setupProductRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	productHandler := &ProductHandler{DB: db, Storage: newMockStorage()}

	api := r.Group("/api")

	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.PUT("/products/:id/popular", productHandler.SetPopular)
	admin.GET("/products/:id/price-preview", productHandler.PricePreview)

	return r
}

// setupArtworkRouter sets up routes for artwork handler tests.
func setupArtworkRouter(db *gorm.DB, storage *mockStorage) *gin.Engine {
	r := gin.New()
	artworkHandler := &ArtworkHandler{DB: db, Storage: storage}

	api := r.Group("/api")

	api.GET("/artwork", artworkHandler.GetArtworks)
	api.GET("/artwork/:id", artworkHandler.GetArtwork)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/artwork", artworkHandler.CreateArtwork)
	admin.PUT("/artwork/:id", artworkHandler.UpdateArtwork)
	admin.DELETE("/artwork/:id", artworkHandler.DeleteArtwork)

	return r
}

// setupStudentRouter sets up routes for student handler tests.
func setupStudentRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	studentHandler := &StudentHandler{DB: db}

	api := r.Group("/api")

	api.GET("/students", studentHandler.GetStudents)
	api.GET("/students/featured", studentHandler.GetFeaturedStudents)
	api.GET("/students/:id", studentHandler.GetStudent)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/students", studentHandler.ListStudents)
	admin.POST("/students", studentHandler.CreateStudent)
	admin.PUT("/students/:id", studentHandler.UpdateStudent)
	admin.DELETE("/students/:id", studentHandler.DeleteStudent)
	admin.PUT("/students/:id/feature", studentHandler.SetFeatured)

	return r
}

// setupCategoryRouter sets up routes for category handler tests.
func setupCategoryRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	categoryHandler := &CategoryHandler{DB: db}

	api := r.Group("/api")
	api.GET("/categories", categoryHandler.GetCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	return r
}

// setupOrderRouter sets up routes for admin order handler tests.
func setupOrderRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.New()
	orderHandler := &OrderHandler{DB: db, Hub: hub}

	api := r.Group("/api")

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/orders", orderHandler.GetOrders)
	admin.GET("/orders/export", orderHandler.ExportOrders)
	admin.GET("/orders/transitions", orderHandler.GetOrderTransitions)
	admin.GET("/orders/:id", orderHandler.GetOrder)
	admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	admin.GET("/dashboard", orderHandler.GetAdminDashboard)

	return r
}

// setupSubscriptionRouter sets up routes for subscription handler tests.
func setupSubscriptionRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	subscriptionHandler := &SubscriptionHandler{DB: db}

	api := r.Group("/api")
	api.POST("/subscriptions", subscriptionHandler.Subscribe)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/subscriptions", subscriptionHandler.ListSubscriptions)
	admin.DELETE("/subscriptions/:id", subscriptionHandler.DeleteSubscription)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with JSON body and Authorization header.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// sessionRequest creates an HTTP request with JSON body and a shopper
// session token.
func sessionRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("X-Session-Token", token)
	return req
}

// multipartRequest creates a multipart form request with the given fields and file uploads.
// files maps form field names to filenames (dummy file data is used).
func multipartRequest(method, url string, fields map[string]string, files map[string]string, token string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, val := range fields {
		_ = writer.WriteField(key, val)
	}

	for fieldName, filename := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, filename))
		h.Set("Content-Type", "image/jpeg")

		part, err := writer.CreatePart(h)
		if err != nil {
			panic("failed to create multipart file part: " + err.Error())
		}
		part.Write([]byte("fake image data"))
	}

	writer.Close()

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// parseResponseArray reads the response body into a slice of maps.
func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
