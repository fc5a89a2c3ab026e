package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/orderhub/internal/auth"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// Foreign keys are switched on so cascade behavior matches Postgres.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Shop{},
		&models.Product{},
		&models.ProductInfo{},
		&models.Parameter{},
		&models.ProductParameter{},
		&models.Contact{},
		&models.Order{},
		&models.OrderItem{},
		&models.ConfirmEmailToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates an active user of the given type
func CreateTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Username:     "user-" + uuid.New().String()[:8],
		FirstName:    "Test",
		LastName:     "User",
		Type:         userType,
		IsActive:     true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestShop creates a shop owned by the given user
func CreateTestShop(t *testing.T, db *gorm.DB, owner *models.User) *models.Shop {
	t.Helper()

	shop := &models.Shop{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:   "Shop " + uuid.New().String()[:8],
		URL:    "https://shop.example.com/price.yaml",
		UserID: &owner.ID,
	}

	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("failed to create test shop: %v", err)
	}

	return shop
}

// CreateTestCategory creates a category
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name: name,
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

// CreateTestProduct creates a product in the given category
func CreateTestProduct(t *testing.T, db *gorm.DB, category *models.Category, name string) *models.Product {
	t.Helper()

	product := &models.Product{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:       name,
		CategoryID: category.ID,
	}

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}

	return product
}

// CreateTestListing creates a shop's listing of a product
func CreateTestListing(t *testing.T, db *gorm.DB, shop *models.Shop, product *models.Product, quantity, price uint) *models.ProductInfo {
	t.Helper()

	listing := &models.ProductInfo{
		Base: models.Base{
			ID: uuid.New(),
		},
		Model:      "model-" + uuid.New().String()[:8],
		ExternalID: uint(time.Now().UnixNano() % 1000000),
		ProductID:  product.ID,
		ShopID:     shop.ID,
		Quantity:   quantity,
		Price:      price,
		PriceRRC:   price + price/10,
	}

	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("failed to create test listing: %v", err)
	}

	return listing
}

// CreateTestContact creates a delivery contact for the given user
func CreateTestContact(t *testing.T, db *gorm.DB, user *models.User) *models.Contact {
	t.Helper()

	contact := &models.Contact{
		Base: models.Base{
			ID: uuid.New(),
		},
		UserID: user.ID,
		City:   "Springfield",
		Street: "Evergreen Terrace",
		House:  "742",
		Phone:  "+15551234567",
	}

	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("failed to create test contact: %v", err)
	}

	return contact
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Type)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// PriceListYAML renders a minimal price list document for import tests.
func PriceListYAML(shopName string) []byte {
	doc := fmt.Sprintf(`shop: %s
categories:
  - id: 1
    name: Smartphones
  - id: 2
    name: Accessories
goods:
  - id: 1001
    category: 1
    model: apple/iphone-15
    name: Smartphone Apple iPhone 15 128GB
    price: 79990
    price_rrc: 84990
    quantity: 10
    parameters:
      "Display (inch)": 6.1
      "Built-in memory (GB)": 128
      "Color": black
  - id: 2002
    category: 2
    model: apple/magsafe
    name: MagSafe Charger
    price: 3990
    price_rrc: 4490
    quantity: 25
    parameters:
      "Color": white
`, shopName)
	return []byte(doc)
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, user, and token
func NewTestContext(t *testing.T, userType models.UserType) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db, userType)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		User:       user,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
