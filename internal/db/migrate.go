package db

import (
	"krishisaarthi/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every table owned by the application, parents first
func Models() []any {
	return []any{
		&domain.User{},
		&domain.SoilTestRequest{},
		&domain.SoilTestReport{},
		&domain.CropFeed{},
		&domain.Comment{},
		&domain.MarketPrice{},
		&domain.BiddingEntry{},
		&domain.Bid{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(Models()...)
}
