// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/domain/cart"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/product"
	"github.com/your-org/eyewear-backend/internal/domain/upload"
	"github.com/your-org/eyewear-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},
		&user.Address{},

		// Product domain
		&product.Product{},

		// Cart domain
		&cart.CartItem{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
		&order.Payment{},
		&order.OrderStatusHistory{},

		// Upload domain
		&upload.UploadedFile{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand)",
		"CREATE INDEX IF NOT EXISTS idx_products_frame_shape ON products(frame_shape)",
		"CREATE INDEX IF NOT EXISTS idx_products_gender ON products(gender)",
		"CREATE INDEX IF NOT EXISTS idx_products_seller ON products(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items(user_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_created_at ON cart_items(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_source ON orders(source)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_provider_id ON payments(payment_provider_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_gateway_order ON payments(gateway_order_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments(created_at DESC)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_status ON order_status_history(status)",

		// Address indexes
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		// Upload indexes
		"CREATE INDEX IF NOT EXISTS idx_uploaded_files_category ON uploaded_files(category)",
		"CREATE INDEX IF NOT EXISTS idx_uploaded_files_uploaded_by ON uploaded_files(uploaded_by)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedTestUsers(); err != nil {
		return fmt.Errorf("failed to seed test users: %w", err)
	}

	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedTestUsers creates one account per role for development
func (m *Migration) seedTestUsers() error {
	log.Println("👤 Seeding test users...")

	testUsers := []user.User{
		{
			Email:     "customer@example.com",
			FirstName: "Test",
			LastName:  "Customer",
			Mobile:    "9876543210",
			Role:      user.RoleCustomer,
			IsActive:  true,
		},
		{
			Email:     "seller@example.com",
			FirstName: "Test",
			LastName:  "Seller",
			Mobile:    "9876543211",
			Role:      user.RoleSeller,
			IsActive:  true,
			ShopName:  "Clarity Opticals",
			GSTNumber: "29ABCDE1234F1Z5",
		},
		{
			Email:         "reseller@example.com",
			FirstName:     "Test",
			LastName:      "Reseller",
			Mobile:        "9876543212",
			Role:          user.RoleReseller,
			IsActive:      true,
			BusinessName:  "Vision Wholesale Traders",
			MarginPercent: 15,
		},
	}

	for _, u := range testUsers {
		var existing user.User
		result := m.db.Where("email = ?", u.Email).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&u).Error; err != nil {
				return fmt.Errorf("failed to create test user %s: %w", u.Email, err)
			}
			log.Printf("✅ Created test user: %s (%s)", u.Email, u.Role)
		} else {
			log.Printf("⏭️ Test user already exists: %s", u.Email)
		}
	}

	return nil
}

// seedTestProducts creates sample eyewear products
func (m *Migration) seedTestProducts() error {
	log.Println("🛍️ Seeding test products...")

	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount >= 3 {
		log.Println("⏭️ Test products already exist")
		return nil
	}

	testProducts := []product.Product{
		{
			ID:            uuid.New().String(),
			SKU:           "EYE-TEST-001",
			Name:          "Aviator Classic Eyeglasses",
			Slug:          "aviator-classic-eyeglasses",
			Description:   "Lightweight metal aviator frame with adjustable nose pads. Suits full prescription lenses including progressives.",
			Price:         249900,
			ComparePrice:  299900,
			Category:      product.CategoryEyeglasses,
			Brand:         "Enakart",
			FrameShape:    "aviator",
			FrameMaterial: "metal",
			FrameType:     "full-rim",
			Color:         "gunmetal",
			Gender:        "unisex",
			Images:        `["https://images.unsplash.com/photo-1574258495973-f010dfbb5371"]`,
			IsActive:      true,
			Quantity:      40,
			Source:        product.SourcePlatform,
		},
		{
			ID:            uuid.New().String(),
			SKU:           "EYE-TEST-002",
			Name:          "Wayfarer Polarized Sunglasses",
			Slug:          "wayfarer-polarized-sunglasses",
			Description:   "Acetate wayfarer frame with polarized UV400 lenses. Sold as-is, no prescription lens fitting.",
			Price:         199900,
			ComparePrice:  249900,
			Category:      product.CategorySunglasses,
			Brand:         "Enakart",
			FrameShape:    "wayfarer",
			FrameMaterial: "acetate",
			FrameType:     "full-rim",
			Color:         "tortoise",
			Gender:        "unisex",
			Images:        `["https://images.unsplash.com/photo-1572635196237-14b3f281503f"]`,
			IsActive:      true,
			Quantity:      60,
			Source:        product.SourcePlatform,
		},
		{
			ID:            uuid.New().String(),
			SKU:           "EYE-TEST-003",
			Name:          "Round Acetate Eyeglasses",
			Slug:          "round-acetate-eyeglasses",
			Description:   "Hand-finished round acetate frame in crystal clear. Pairs well with blu-cut and photochromic lenses.",
			Price:         179900,
			Category:      product.CategoryEyeglasses,
			Brand:         "Enakart",
			FrameShape:    "round",
			FrameMaterial: "acetate",
			FrameType:     "full-rim",
			Color:         "crystal",
			Gender:        "women",
			Images:        `["https://images.unsplash.com/photo-1511499767150-a48a237f0083"]`,
			IsActive:      true,
			Quantity:      25,
			Source:        product.SourcePlatform,
		},
	}

	for _, prod := range testProducts {
		var existing product.Product
		result := m.db.Where("sku = ?", prod.SKU).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&prod).Error; err != nil {
				log.Printf("⚠️ Failed to create test product %s: %v", prod.SKU, err)
			} else {
				log.Printf("✅ Created test product: %s", prod.Name)
			}
		} else {
			log.Printf("⏭️ Product already exists: %s", prod.Name)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"order_status_history",
		"payments",
		"order_items",
		"orders",
		"cart_items",
		"uploaded_files",
		"products",
		"addresses",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	// Get list of tables
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}

// CleanupTestData removes test data (useful for production setup)
func (m *Migration) CleanupTestData() error {
	log.Println("🧹 Cleaning up test data...")

	result := m.db.Where("sku LIKE ?", "EYE-TEST-%").Delete(&product.Product{})
	log.Printf("🗑️ Removed %d test products", result.RowsAffected)

	result = m.db.Where("email LIKE ?", "%@example.com").Delete(&user.User{})
	log.Printf("🗑️ Removed %d test users", result.RowsAffected)

	log.Println("✅ Test data cleanup completed")
	return nil
}
