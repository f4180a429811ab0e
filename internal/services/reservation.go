package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// TripRepository is the persistence surface the reservation and settlement
// services need for trips.
type TripRepository interface {
	GetTrip(ctx context.Context, id uint) (*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
}

// BookingRepository is the persistence surface for bookings. Status writes
// go exclusively through the reservation engine; handlers only read.
type BookingRepository interface {
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// UpdateWithTrip persists a booking status change together with the
	// trip's seat counter in a single transaction.
	UpdateWithTrip(ctx context.Context, booking *models.Booking, trip *models.Trip) error
	// CancelTripCascade persists the cancelled bookings, the trip's final
	// seat counts and its soft delete in a single transaction.
	CancelTripCascade(ctx context.Context, trip *models.Trip, bookings []*models.Booking) error
	ListByTrip(ctx context.Context, tripID uint) ([]models.Booking, error)
	FindByIdempotencyKey(ctx context.Context, userID uint, key string) (*models.Booking, error)
}

// Notifier records a user-facing event. Implementations are best-effort;
// the engine logs failures and carries on.
type Notifier interface {
	Notify(ctx context.Context, userID uint, typ models.NotificationType, title, body string) error
}

// ReservationService guards every seat-count mutation. All operations for
// one trip are serialized through a per-trip mutex so that two requests
// each within capacity cannot jointly overbook.
type ReservationService struct {
	trips    TripRepository
	bookings BookingRepository
	locks    *KeyedMutex
	notifier Notifier
	log      *logrus.Logger
}

func NewReservationService(trips TripRepository, bookings BookingRepository, locks *KeyedMutex, notifier Notifier, log *logrus.Logger) *ReservationService {
	return &ReservationService{
		trips:    trips,
		bookings: bookings,
		locks:    locks,
		notifier: notifier,
		log:      log,
	}
}

// RequestBooking creates a pending booking against an active trip. The
// capacity check and the insert happen under the trip lock. A non-empty
// idemKey makes retries safe: the same (user, key) pair returns the
// original booking instead of creating a duplicate.
func (s *ReservationService) RequestBooking(ctx context.Context, tripID, requesterID uint, seats int, idemKey string) (*models.Booking, error) {
	if seats < 1 {
		return nil, ErrCapacityExceeded
	}

	if idemKey != "" {
		existing, err := s.bookings.FindByIdempotencyKey(ctx, requesterID, idemKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	key := TripKey(tripID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripStatusActive {
		return nil, ErrTripNotActive
	}
	if trip.DriverID == requesterID {
		return nil, ErrSelfBooking
	}
	if seats > trip.RemainingSeats {
		return nil, ErrCapacityExceeded
	}

	booking := &models.Booking{
		TripID:         tripID,
		UserID:         requesterID,
		Seats:          seats,
		Status:         models.BookingStatusPending,
		IdempotencyKey: idemKey,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, trip.DriverID, models.NotificationBookingRequested,
		"New booking request",
		fmt.Sprintf("A passenger requested %d seat(s) on %s → %s", seats, trip.FromCity, trip.ToCity))

	s.log.WithFields(logrus.Fields{
		"tripId":    tripID,
		"bookingId": booking.ID,
		"seats":     seats,
	}).Info("booking requested")

	return booking, nil
}

// Approve moves a pending booking to approved and decrements the trip's
// remaining seats. Capacity is re-checked under the lock because other
// approvals may have shrunk it since the request was made.
func (s *ReservationService) Approve(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	key, booking, trip, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer s.locks.Unlock(key)

	if trip.DriverID != actorID {
		return nil, ErrNotOwner
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrNotPending
	}
	if booking.Seats > trip.RemainingSeats {
		return nil, ErrCapacityExceeded
	}

	booking.Status = models.BookingStatusApproved
	trip.RemainingSeats -= booking.Seats
	if err := s.bookings.UpdateWithTrip(ctx, booking, trip); err != nil {
		return nil, err
	}

	s.notify(ctx, booking.UserID, models.NotificationBookingApproved,
		"Booking approved",
		fmt.Sprintf("Your booking for %s → %s was approved", trip.FromCity, trip.ToCity))

	s.log.WithFields(logrus.Fields{
		"bookingId":      bookingID,
		"tripId":         trip.ID,
		"remainingSeats": trip.RemainingSeats,
	}).Info("booking approved")

	return booking, nil
}

// Reject moves a pending booking to rejected. Seats are untouched since a
// pending booking never held any.
func (s *ReservationService) Reject(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	key, booking, trip, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer s.locks.Unlock(key)

	if trip.DriverID != actorID {
		return nil, ErrNotOwner
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrNotPending
	}

	booking.Status = models.BookingStatusRejected
	if err := s.bookings.UpdateWithTrip(ctx, booking, trip); err != nil {
		return nil, err
	}

	s.notify(ctx, booking.UserID, models.NotificationBookingRejected,
		"Booking declined",
		fmt.Sprintf("Your booking for %s → %s was declined", trip.FromCity, trip.ToCity))

	return booking, nil
}

// Cancel releases the seats of an approved booking back to the trip.
// Either the requester or the trip owner may cancel while the trip is
// still active.
func (s *ReservationService) Cancel(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	key, booking, trip, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer s.locks.Unlock(key)

	if actorID != booking.UserID && actorID != trip.DriverID {
		return nil, ErrNotParticipant
	}
	if booking.Status != models.BookingStatusApproved {
		return nil, ErrNotApproved
	}
	if trip.Status != models.TripStatusActive {
		return nil, ErrTripNotActive
	}

	booking.Status = models.BookingStatusCancelled
	trip.RemainingSeats += booking.Seats
	if err := s.bookings.UpdateWithTrip(ctx, booking, trip); err != nil {
		return nil, err
	}

	notified := booking.UserID
	if actorID == booking.UserID {
		notified = trip.DriverID
	}
	s.notify(ctx, notified, models.NotificationBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("A booking for %s → %s was cancelled", trip.FromCity, trip.ToCity))

	return booking, nil
}

// CancelTrip soft-deletes an active trip and cancels every non-terminal
// booking on it, releasing held seats.
func (s *ReservationService) CancelTrip(ctx context.Context, tripID, actorID uint) error {
	key := TripKey(tripID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.DriverID != actorID {
		return ErrNotOwner
	}
	if trip.Status != models.TripStatusActive {
		return ErrTripNotActive
	}

	bookings, err := s.bookings.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}

	trip.Status = models.TripStatusCancelled
	var cancelled []*models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status.IsTerminal() {
			continue
		}
		if b.Status == models.BookingStatusApproved {
			trip.RemainingSeats += b.Seats
		}
		b.Status = models.BookingStatusCancelled
		cancelled = append(cancelled, b)
	}

	// The cascade commits atomically; a failure leaves every booking and
	// the trip as they were.
	if err := s.bookings.CancelTripCascade(ctx, trip, cancelled); err != nil {
		return err
	}

	for _, b := range cancelled {
		s.notify(ctx, b.UserID, models.NotificationTripCancelled,
			"Trip cancelled",
			fmt.Sprintf("The trip %s → %s was cancelled by the driver", trip.FromCity, trip.ToCity))
	}

	s.log.WithField("tripId", tripID).Info("trip cancelled")
	return nil
}

// TripEdit carries the optional fields of a trip edit. Zero-valued string
// fields and nil pointers are left unchanged.
type TripEdit struct {
	FromCity  string
	ToCity    string
	Date      *time.Time
	Time      string
	Price     *float64
	Seats     *int
	Note      *string
	CarModel  *string
	CarColor  *string
	CarNumber *string
}

// EditTrip applies an owner's edit under the trip lock, so the seat counter
// is read and written in the same critical section as approvals and can
// never be overwritten from a stale snapshot. Seat changes shift the
// remaining count by the total delta and refuse to shrink below the seats
// already approved.
func (s *ReservationService) EditTrip(ctx context.Context, tripID, actorID uint, edit TripEdit) (*models.Trip, error) {
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
		return nil, ErrTripNotActive
	}

	if edit.Seats != nil {
		if *edit.Seats < trip.SeatsSold() {
			return nil, ErrSeatsBelowSold
		}
		trip.RemainingSeats += *edit.Seats - trip.TotalSeats
		trip.TotalSeats = *edit.Seats
	}
	if edit.FromCity != "" {
		trip.FromCity = edit.FromCity
	}
	if edit.ToCity != "" {
		trip.ToCity = edit.ToCity
	}
	if edit.Date != nil {
		trip.Date = *edit.Date
	}
	if edit.Time != "" {
		trip.Time = edit.Time
	}
	if edit.Price != nil {
		trip.PricePerSeat = *edit.Price
	}
	if edit.Note != nil {
		trip.Note = *edit.Note
	}
	if edit.CarModel != nil {
		trip.CarModel = *edit.CarModel
	}
	if edit.CarColor != nil {
		trip.CarColor = *edit.CarColor
	}
	if edit.CarNumber != nil {
		trip.CarNumber = *edit.CarNumber
	}

	if err := s.trips.UpdateTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// lockBooking loads a booking and its trip under the trip lock. The caller
// must unlock the returned key.
func (s *ReservationService) lockBooking(ctx context.Context, bookingID uint) (string, *models.Booking, *models.Trip, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return "", nil, nil, err
	}

	key := TripKey(booking.TripID)
	s.locks.Lock(key)

	// Re-read under the lock; the status may have moved while we waited.
	booking, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		s.locks.Unlock(key)
		return "", nil, nil, err
	}
	trip, err := s.trips.GetTrip(ctx, booking.TripID)
	if err != nil {
		s.locks.Unlock(key)
		return "", nil, nil, err
	}
	return key, booking, trip, nil
}

func (s *ReservationService) notify(ctx context.Context, userID uint, typ models.NotificationType, title, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, typ, title, body); err != nil {
		s.log.WithError(err).Warn("failed to record notification")
	}
}
