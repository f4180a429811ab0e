package database

import (
	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.Booking{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Rating{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Setting{},
	)
	if err != nil {
		return err
	}

	// Status and score constraints AutoMigrate cannot express
	db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_status_check`)
	db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_status_check CHECK (status IN ('active', 'completed', 'cancelled'))`)
	db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_seats_check`)
	db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_seats_check CHECK (remaining_seats >= 0 AND remaining_seats <= total_seats)`)

	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
	db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'approved', 'rejected', 'cancelled'))`)
	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_seats_check`)
	db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_seats_check CHECK (seats > 0)`)

	db.Exec(`ALTER TABLE wallets DROP CONSTRAINT IF EXISTS wallets_balance_check`)
	db.Exec(`ALTER TABLE wallets ADD CONSTRAINT wallets_balance_check CHECK (balance >= 0)`)

	db.Exec(`ALTER TABLE ratings DROP CONSTRAINT IF EXISTS ratings_score_check`)
	db.Exec(`ALTER TABLE ratings ADD CONSTRAINT ratings_score_check CHECK (score BETWEEN 1 AND 5)`)

	// Seed the global commission rate once
	var count int64
	if err := db.Model(&models.Setting{}).
		Where("user_id = 0 AND key = ?", models.SettingKeyCommissionRate).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&models.Setting{
			UserID: 0,
			Key:    models.SettingKeyCommissionRate,
			Value:  "0.03",
		}).Error; err != nil {
			return err
		}
	}

	return nil
}
