package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// DefaultCommissionRate applies when no commission_rate setting exists.
const DefaultCommissionRate = 0.03

// SettingsRepository resolves a setting for a user, falling back to the
// global row (user id 0) when the user has no override.
type SettingsRepository interface {
	Get(ctx context.Context, userID uint, key string) (string, error)
}

// SettlementResult summarizes the fees applied by a completed trip.
type SettlementResult struct {
	TripID         uint    `json:"tripId"`
	CommissionRate float64 `json:"commissionRate"`
	Passengers     int     `json:"passengers"`
	TotalFees      float64 `json:"totalFees"`
}

// SettlementService completes trips and applies commission exactly once.
// It shares the per-trip lock with the reservation engine so completion
// never interleaves with an approval for the same trip.
type SettlementService struct {
	trips    TripRepository
	bookings BookingRepository
	wallets  WalletRepository
	settings SettingsRepository
	locks    *KeyedMutex
	notifier Notifier
	log      *logrus.Logger
}

func NewSettlementService(trips TripRepository, bookings BookingRepository, wallets WalletRepository, settings SettingsRepository, locks *KeyedMutex, notifier Notifier, log *logrus.Logger) *SettlementService {
	return &SettlementService{
		trips:    trips,
		bookings: bookings,
		wallets:  wallets,
		settings: settings,
		locks:    locks,
		notifier: notifier,
		log:      log,
	}
}

// CompleteTrip debits every passenger with an approved booking
// rate × price × seats, credits the driver the aggregate and marks the
// trip completed. The whole settlement is all-or-nothing: one passenger
// with an insufficient balance aborts every debit and the trip stays
// active. A second call finds the trip no longer active and fails with
// ErrAlreadyCompleted, so fees apply exactly once.
func (s *SettlementService) CompleteTrip(ctx context.Context, tripID, actorID uint) (*SettlementResult, error) {
	key := TripKey(tripID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != actorID {
		return nil, ErrNotOwner
	}
	if trip.Status != models.TripStatusActive {
		return nil, ErrAlreadyCompleted
	}

	rate := s.commissionRate(ctx)
	bookings, err := s.bookings.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	reference := uuid.NewString()
	route := fmt.Sprintf("%s → %s", trip.FromCity, trip.ToCity)

	var movements []WalletMovement
	var total float64
	passengers := 0
	for _, b := range bookings {
		if b.Status != models.BookingStatusApproved {
			continue
		}
		fee := rate * trip.PricePerSeat * float64(b.Seats)
		movements = append(movements, WalletMovement{
			UserID:      b.UserID,
			Amount:      fee,
			Type:        models.TransactionTypePayment,
			Description: fmt.Sprintf("Service fee for trip %s", route),
			Reference:   reference,
		})
		total += fee
		passengers++
	}
	if total > 0 {
		movements = append(movements, WalletMovement{
			UserID:      trip.DriverID,
			Amount:      total,
			Type:        models.TransactionTypeDeposit,
			Description: fmt.Sprintf("Trip earnings for %s", route),
			Reference:   reference,
		})
		if err := s.wallets.Apply(ctx, movements); err != nil {
			return nil, err
		}
	}

	trip.Status = models.TripStatusCompleted
	if err := s.trips.UpdateTrip(ctx, trip); err != nil {
		// Fees are applied but the status write failed; surface loudly so
		// the reference id can be used to reconcile.
		s.log.WithError(err).WithFields(logrus.Fields{
			"tripId":    tripID,
			"reference": reference,
		}).Error("trip settled but status update failed")
		return nil, err
	}

	for _, b := range bookings {
		if b.Status != models.BookingStatusApproved {
			continue
		}
		s.notifyCompleted(ctx, b.UserID, route)
	}

	s.log.WithFields(logrus.Fields{
		"tripId":     tripID,
		"passengers": passengers,
		"totalFees":  total,
		"rate":       rate,
	}).Info("trip completed")

	return &SettlementResult{
		TripID:         tripID,
		CommissionRate: rate,
		Passengers:     passengers,
		TotalFees:      total,
	}, nil
}

func (s *SettlementService) commissionRate(ctx context.Context) float64 {
	raw, err := s.settings.Get(ctx, 0, models.SettingKeyCommissionRate)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).Warn("failed to read commission rate, using default")
		}
		return DefaultCommissionRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate > 1 {
		s.log.WithField("value", raw).Warn("invalid commission rate setting, using default")
		return DefaultCommissionRate
	}
	return rate
}

func (s *SettlementService) notifyCompleted(ctx context.Context, userID uint, route string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, models.NotificationTripCompleted,
		"Trip completed", fmt.Sprintf("The trip %s was completed", route)); err != nil {
		s.log.WithError(err).Warn("failed to record notification")
	}
}
