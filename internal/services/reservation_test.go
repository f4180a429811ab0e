package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

func newTestReservation(t *testing.T) (*ReservationService, *fakeStore, *fakeNotifier) {
	t.Helper()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewReservationService(store, store, NewKeyedMutex(), notifier, testLogger())
	return svc, store, notifier
}

func seedTrip(store *fakeStore, id, driverID uint, seats int) {
	store.trips[id] = models.Trip{
		ID:             id,
		DriverID:       driverID,
		FromCity:       "Baku",
		ToCity:         "Ganja",
		PricePerSeat:   500,
		TotalSeats:     seats,
		RemainingSeats: seats,
		Status:         models.TripStatusActive,
	}
}

func TestRequestBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending booking without touching seats", func(t *testing.T) {
		svc, store, notifier := newTestReservation(t)
		seedTrip(store, 1, 10, 3)

		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, 2, booking.Seats)
		assert.Equal(t, 3, store.trips[1].RemainingSeats)
		assert.Len(t, notifier.byType(models.NotificationBookingRequested), 1)
	})

	t.Run("rejects the trip owner", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)

		_, err := svc.RequestBooking(ctx, 1, 10, 1, "")
		assert.ErrorIs(t, err, ErrSelfBooking)
	})

	t.Run("rejects inactive trips", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		trip := store.trips[1]
		trip.Status = models.TripStatusCompleted
		store.trips[1] = trip

		_, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		assert.ErrorIs(t, err, ErrTripNotActive)
	})

	t.Run("rejects more seats than remain", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)

		_, err := svc.RequestBooking(ctx, 1, 20, 4, "")
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("rejects non-positive seat counts", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)

		_, err := svc.RequestBooking(ctx, 1, 20, 0, "")
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("same idempotency key returns the original booking", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)

		first, err := svc.RequestBooking(ctx, 1, 20, 2, "key-1")
		require.NoError(t, err)
		second, err := svc.RequestBooking(ctx, 1, 20, 2, "key-1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, store.bookings, 1)
	})

	t.Run("missing trip", func(t *testing.T) {
		svc, _, _ := newTestReservation(t)
		_, err := svc.RequestBooking(ctx, 99, 20, 1, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements remaining seats", func(t *testing.T) {
		svc, store, notifier := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)

		approved, err := svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusApproved, approved.Status)
		assert.Equal(t, 1, store.trips[1].RemainingSeats)
		assert.Len(t, notifier.byType(models.NotificationBookingApproved), 1)
	})

	t.Run("only the owner may approve", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		require.NoError(t, err)

		_, err = svc.Approve(ctx, booking.ID, 20)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("re-checks capacity under the lock", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		first, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		second, err := svc.RequestBooking(ctx, 1, 30, 2, "")
		require.NoError(t, err)

		_, err = svc.Approve(ctx, first.ID, 10)
		require.NoError(t, err)

		_, err = svc.Approve(ctx, second.ID, 10)
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		// Failed approval leaves the booking and seat count untouched
		assert.Equal(t, models.BookingStatusPending, store.bookings[second.ID].Status)
		assert.Equal(t, 1, store.trips[1].RemainingSeats)
	})

	t.Run("double approval fails", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		require.NoError(t, err)

		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, 2, store.trips[1].RemainingSeats)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("leaves seats untouched", func(t *testing.T) {
		svc, store, notifier := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)

		rejected, err := svc.Reject(ctx, booking.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusRejected, rejected.Status)
		assert.Equal(t, 3, store.trips[1].RemainingSeats)
		assert.Len(t, notifier.byType(models.NotificationBookingRejected), 1)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		require.NoError(t, err)

		_, err = svc.Reject(ctx, booking.ID, 10)
		require.NoError(t, err)
		_, err = svc.Reject(ctx, booking.ID, 10)
		assert.ErrorIs(t, err, ErrNotPending)
		_, err = svc.Approve(ctx, booking.ID, 10)
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("releases exactly the booked seats", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)
		require.Equal(t, 1, store.trips[1].RemainingSeats)

		cancelled, err := svc.Cancel(ctx, booking.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, 3, store.trips[1].RemainingSeats)
	})

	t.Run("owner may cancel a passenger booking", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, booking.ID, 10)
		assert.NoError(t, err)
	})

	t.Run("strangers may not cancel", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, booking.ID, 99)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("only approved bookings cancel", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 1, "")
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, booking.ID, 20)
		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, booking.ID, 20)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, booking.ID, 20)
		assert.ErrorIs(t, err, ErrNotApproved)
		assert.Equal(t, 3, store.trips[1].RemainingSeats)
	})
}

func TestCancelTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels non-terminal bookings and releases seats", func(t *testing.T) {
		svc, store, notifier := newTestReservation(t)
		seedTrip(store, 1, 10, 4)

		approved, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, approved.ID, 10)
		require.NoError(t, err)

		pending, err := svc.RequestBooking(ctx, 1, 30, 1, "")
		require.NoError(t, err)

		rejected, err := svc.RequestBooking(ctx, 1, 40, 1, "")
		require.NoError(t, err)
		_, err = svc.Reject(ctx, rejected.ID, 10)
		require.NoError(t, err)

		require.NoError(t, svc.CancelTrip(ctx, 1, 10))

		assert.Equal(t, models.TripStatusCancelled, store.trips[1].Status)
		assert.Equal(t, 4, store.trips[1].RemainingSeats)
		assert.Equal(t, models.BookingStatusCancelled, store.bookings[approved.ID].Status)
		assert.Equal(t, models.BookingStatusCancelled, store.bookings[pending.ID].Status)
		assert.Equal(t, models.BookingStatusRejected, store.bookings[rejected.ID].Status)
		assert.Len(t, notifier.byType(models.NotificationTripCancelled), 2)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		assert.ErrorIs(t, svc.CancelTrip(ctx, 1, 20), ErrNotOwner)
	})

	t.Run("completed trips stay completed", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		trip := store.trips[1]
		trip.Status = models.TripStatusCompleted
		store.trips[1] = trip

		assert.ErrorIs(t, svc.CancelTrip(ctx, 1, 10), ErrTripNotActive)
	})

	t.Run("failed cascade leaves every booking and the trip untouched", func(t *testing.T) {
		svc, store, notifier := newTestReservation(t)
		seedTrip(store, 1, 10, 4)

		approved, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, approved.ID, 10)
		require.NoError(t, err)
		pending, err := svc.RequestBooking(ctx, 1, 30, 1, "")
		require.NoError(t, err)

		boom := errors.New("connection reset")
		store.cascadeErr = boom
		require.ErrorIs(t, svc.CancelTrip(ctx, 1, 10), boom)

		assert.Equal(t, models.TripStatusActive, store.trips[1].Status)
		assert.Equal(t, 2, store.trips[1].RemainingSeats)
		assert.Equal(t, models.BookingStatusApproved, store.bookings[approved.ID].Status)
		assert.Equal(t, models.BookingStatusPending, store.bookings[pending.ID].Status)
		assert.Empty(t, notifier.byType(models.NotificationTripCancelled))

		// Retry succeeds once the store recovers
		store.cascadeErr = nil
		require.NoError(t, svc.CancelTrip(ctx, 1, 10))
		assert.Equal(t, models.TripStatusCancelled, store.trips[1].Status)
		assert.Equal(t, 4, store.trips[1].RemainingSeats)
	})
}

func TestEditTrip(t *testing.T) {
	ctx := context.Background()
	seats := func(n int) *int { return &n }

	t.Run("seat change shifts remaining seats by the delta", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)

		trip, err := svc.EditTrip(ctx, 1, 10, TripEdit{Seats: seats(5)})
		require.NoError(t, err)
		assert.Equal(t, 5, trip.TotalSeats)
		assert.Equal(t, 3, trip.RemainingSeats)
	})

	t.Run("never shrinks below sold seats", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)

		_, err = svc.EditTrip(ctx, 1, 10, TripEdit{Seats: seats(1)})
		assert.ErrorIs(t, err, ErrSeatsBelowSold)
		assert.Equal(t, 3, store.trips[1].TotalSeats)
	})

	t.Run("only the owner may edit", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		_, err := svc.EditTrip(ctx, 1, 20, TripEdit{FromCity: "Sumqayit"})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("inactive trips are not editable", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		trip := store.trips[1]
		trip.Status = models.TripStatusCompleted
		store.trips[1] = trip

		_, err := svc.EditTrip(ctx, 1, 10, TripEdit{FromCity: "Sumqayit"})
		assert.ErrorIs(t, err, ErrTripNotActive)
	})

	t.Run("field edit preserves a seat counter changed by approvals", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 3)
		booking, err := svc.RequestBooking(ctx, 1, 20, 2, "")
		require.NoError(t, err)
		_, err = svc.Approve(ctx, booking.ID, 10)
		require.NoError(t, err)
		require.Equal(t, 1, store.trips[1].RemainingSeats)

		trip, err := svc.EditTrip(ctx, 1, 10, TripEdit{FromCity: "Sumqayit"})
		require.NoError(t, err)
		assert.Equal(t, "Sumqayit", trip.FromCity)
		assert.Equal(t, 1, store.trips[1].RemainingSeats)
		assert.Equal(t, 3, store.trips[1].TotalSeats)
	})

	t.Run("edits racing approvals keep the seat invariant", func(t *testing.T) {
		svc, store, _ := newTestReservation(t)
		seedTrip(store, 1, 10, 5)

		note := "updated"
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(passenger uint) {
				defer wg.Done()
				booking, err := svc.RequestBooking(ctx, 1, passenger, 1, "")
				if err != nil {
					return
				}
				_, _ = svc.Approve(ctx, booking.ID, 10)
			}(uint(100 + i))

			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.EditTrip(ctx, 1, 10, TripEdit{Note: &note})
			}()
		}
		wg.Wait()

		trip := store.trips[1]
		approvedSeats := 0
		for _, b := range store.bookings {
			if b.Status == models.BookingStatusApproved {
				approvedSeats += b.Seats
			}
		}
		assert.Equal(t, trip.TotalSeats-approvedSeats, trip.RemainingSeats)
		assert.GreaterOrEqual(t, trip.RemainingSeats, 0)
	})
}

// Mirrors the three-seat walkthrough: approve two, a two-seat request is
// refused, a one-seat request fills the trip.
func TestSeatLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestReservation(t)
	seedTrip(store, 1, 10, 3)

	a, err := svc.RequestBooking(ctx, 1, 20, 2, "")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, a.ID, 10)
	require.NoError(t, err)
	require.Equal(t, 1, store.trips[1].RemainingSeats)

	_, err = svc.RequestBooking(ctx, 1, 30, 2, "")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	b, err := svc.RequestBooking(ctx, 1, 30, 1, "")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, b.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, store.trips[1].RemainingSeats)

	_, err = svc.RequestBooking(ctx, 1, 40, 1, "")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

// Races many request/approve pairs against one trip and checks the seat
// counter never goes negative and approvals never exceed capacity.
func TestConcurrentApprovalsNeverOverbook(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestReservation(t)
	seedTrip(store, 1, 10, 5)

	const attempts = 20
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(passenger uint) {
			defer wg.Done()
			booking, err := svc.RequestBooking(ctx, 1, passenger, 1, "")
			if err != nil {
				return
			}
			_, _ = svc.Approve(ctx, booking.ID, 10)
		}(uint(100 + i))
	}
	wg.Wait()

	trip := store.trips[1]
	assert.GreaterOrEqual(t, trip.RemainingSeats, 0)

	approvedSeats := 0
	for _, b := range store.bookings {
		if b.Status == models.BookingStatusApproved {
			approvedSeats += b.Seats
		}
	}
	assert.Equal(t, 5, approvedSeats)
	assert.Equal(t, 0, trip.RemainingSeats)
}
