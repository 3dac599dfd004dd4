package service

import (
	"testing"

	"krishisaarthi/internal/config"
	"krishisaarthi/internal/db"
	"krishisaarthi/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, role domain.Role, email string) *domain.User {
	t.Helper()
	name := email
	user := domain.User{Email: email, Password: "not-a-hash", Role: role, Name: &name}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func artifacts() ReportArtifacts {
	return ReportArtifacts{
		ReportURL:         "https://krishi-uploads.s3.amazonaws.com/reports/2/report.pdf",
		SoilCollectionURL: "https://krishi-uploads.s3.amazonaws.com/soil/2/sample.jpg",
		FarmerPhotoURL:    "https://krishi-uploads.s3.amazonaws.com/photos/2/farmer.jpg",
	}
}
