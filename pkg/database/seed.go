package database

import (
	"errors"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoClinic is the admin account created for local development
type DemoClinic struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	ClinicName string
	Location   string
	Months     int
}

func GetDemoClinic() DemoClinic {
	return DemoClinic{
		Name:       "Demo Admin",
		Email:      "admin@demo-clinic.local",
		Password:   "Admin@123", // development only
		Phone:      "9876543210",
		ClinicName: "Demo Clinic",
		Location:   "Bengaluru",
		Months:     12,
	}
}

// Seed creates the demo clinic admin unless an account with its email exists
func Seed(db *gorm.DB, bcryptCost int) error {
	return SeedClinic(db, GetDemoClinic(), bcryptCost, time.Now())
}

func SeedClinic(db *gorm.DB, demo DemoClinic, bcryptCost int, now time.Time) error {
	var existing model.Account
	err := db.Where("email = ?", demo.Email).First(&existing).Error
	if err == nil {
		logger.GetLogger().Debug("Demo clinic already seeded", zap.String("email", demo.Email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcryptCost)
	if err != nil {
		return err
	}

	expiry := now.AddDate(0, demo.Months, 0)
	account, err := model.NewAccount(demo.Name, demo.Email, demo.Phone, string(hash), &model.ClinicProfile{
		ClinicName:         demo.ClinicName,
		Location:           demo.Location,
		SubscriptionExpiry: &expiry,
	})
	if err != nil {
		return err
	}

	if err := db.Create(account).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("Demo clinic seeded",
		zap.String("account_id", account.ID),
		zap.String("email", demo.Email),
		zap.Time("subscription_expiry", expiry),
	)
	return nil
}
