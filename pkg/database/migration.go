package database

import (
	"fmt"

	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table owned by the service in creation order
func Models() []any {
	return []any{
		&model.Account{},
		&model.ClinicProfile{},
		&model.DoctorProfile{},
		&model.ReceptionistProfile{},
		&model.StaffProfile{},
		&model.SalaryEntry{},
	}
}

// AutoMigrate creates or alters the tables and then the secondary indexes
func AutoMigrate(db *gorm.DB) error {
	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.GetLogger().Info("Database schema migrated", zap.Int("tables", len(models)))

	return CreateIndexes(db)
}
