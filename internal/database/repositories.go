package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
	"github.com/yoldas-app/yoldas-backend/internal/services"
)

// gorm-backed implementations of the repository interfaces the reservation,
// settlement and wallet services operate on.

type TripRepo struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) GetTrip(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, id).Error; err != nil {
		return nil, translate(err)
	}
	return &trip, nil
}

func (r *TripRepo) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

type BookingRepo struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *BookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *BookingRepo) UpdateWithTrip(ctx context.Context, booking *models.Booking, trip *models.Trip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		return tx.Save(trip).Error
	})
}

// CancelTripCascade commits the cancelled bookings, the trip's restored
// seat counts and the trip's soft delete in one transaction, so a failure
// mid-cascade leaves nothing half-cancelled.
func (r *BookingRepo) CancelTripCascade(ctx context.Context, trip *models.Trip, bookings []*models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range bookings {
			if err := tx.Save(b).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(trip).Error; err != nil {
			return err
		}
		return tx.Delete(trip).Error
	})
}

func (r *BookingRepo) ListByTrip(ctx context.Context, tripID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepo) FindByIdempotencyKey(ctx context.Context, userID uint, key string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

type WalletRepo struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

func (r *WalletRepo) GetByUser(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, translate(err)
	}
	return &wallet, nil
}

func (r *WalletRepo) CreateForUser(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet := models.Wallet{UserID: userID, Balance: 0}
	if err := r.db.WithContext(ctx).Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *WalletRepo) ListTransactions(ctx context.Context, walletID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// Apply commits every movement in one transaction. Debits use a guarded
// UPDATE so a balance can never go negative; zero rows affected means the
// funds were insufficient and the whole batch rolls back.
func (r *WalletRepo) Apply(ctx context.Context, movements []services.WalletMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range movements {
			var wallet models.Wallet
			if err := tx.Where("user_id = ?", m.UserID).First(&wallet).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					wallet = models.Wallet{UserID: m.UserID, Balance: 0}
					if err := tx.Create(&wallet).Error; err != nil {
						return err
					}
				} else {
					return err
				}
			}

			if m.Type == models.TransactionTypeDeposit {
				if err := tx.Model(&models.Wallet{}).
					Where("id = ?", wallet.ID).
					Update("balance", gorm.Expr("balance + ?", m.Amount)).Error; err != nil {
					return err
				}
			} else {
				result := tx.Model(&models.Wallet{}).
					Where("id = ? AND balance >= ?", wallet.ID, m.Amount).
					Update("balance", gorm.Expr("balance - ?", m.Amount))
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return services.ErrInsufficientFunds
				}
			}

			entry := models.Transaction{
				WalletID:    wallet.ID,
				Type:        m.Type,
				Amount:      m.Amount,
				Description: m.Description,
				Reference:   m.Reference,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get resolves a setting for a user, falling back to the global row.
func (r *SettingsRepo) Get(ctx context.Context, userID uint, key string) (string, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && userID != 0 {
		err = r.db.WithContext(ctx).
			Where("user_id = 0 AND key = ?", key).
			First(&setting).Error
	}
	if err != nil {
		return "", translate(err)
	}
	return setting.Value, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}
