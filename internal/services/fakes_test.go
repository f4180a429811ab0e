package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// fakeStore is an in-memory implementation of the repository interfaces
// the reservation, settlement and wallet services depend on. It hands out
// copies, as a real database row scan would.
type fakeStore struct {
	mu          sync.Mutex
	trips       map[uint]models.Trip
	bookings    map[uint]models.Booking
	wallets     map[uint]models.Wallet // keyed by user id
	txs         []models.Transaction
	settings    map[string]string // global settings only
	nextBooking uint
	nextWallet  uint
	cascadeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trips:    make(map[uint]models.Trip),
		bookings: make(map[uint]models.Booking),
		wallets:  make(map[uint]models.Wallet),
		settings: make(map[string]string),
	}
}

func (f *fakeStore) GetTrip(_ context.Context, id uint) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := trip
	return &copied, nil
}

func (f *fakeStore) UpdateTrip(_ context.Context, trip *models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips[trip.ID] = *trip
	return nil
}

func (f *fakeStore) CancelTripCascade(_ context.Context, trip *models.Trip, bookings []*models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cascadeErr != nil {
		return f.cascadeErr
	}
	for _, b := range bookings {
		f.bookings[b.ID] = *b
	}
	f.trips[trip.ID] = *trip
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := booking
	return &copied, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextBooking++
	booking.ID = f.nextBooking
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeStore) UpdateWithTrip(_ context.Context, booking *models.Booking, trip *models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = *booking
	f.trips[trip.ID] = *trip
	return nil
}

func (f *fakeStore) ListByTrip(_ context.Context, tripID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for id := uint(1); id <= f.nextBooking; id++ {
		if b, ok := f.bookings[id]; ok && b.TripID == tripID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByIdempotencyKey(_ context.Context, userID uint, key string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.IdempotencyKey == key {
			copied := b
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) GetByUser(_ context.Context, userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := wallet
	return &copied, nil
}

func (f *fakeStore) CreateForUser(_ context.Context, userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWallet++
	wallet := models.Wallet{ID: f.nextWallet, UserID: userID}
	f.wallets[userID] = wallet
	return &wallet, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, walletID uint) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for i := len(f.txs) - 1; i >= 0; i-- {
		if f.txs[i].WalletID == walletID {
			out = append(out, f.txs[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Apply(_ context.Context, movements []WalletMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Stage against copies first so a failing debit leaves nothing applied
	staged := make(map[uint]models.Wallet)
	for _, m := range movements {
		wallet, ok := staged[m.UserID]
		if !ok {
			wallet, ok = f.wallets[m.UserID]
			if !ok {
				f.nextWallet++
				wallet = models.Wallet{ID: f.nextWallet, UserID: m.UserID}
			}
		}
		if m.Type == models.TransactionTypeDeposit {
			wallet.Balance += m.Amount
		} else {
			if wallet.Balance < m.Amount {
				return ErrInsufficientFunds
			}
			wallet.Balance -= m.Amount
		}
		staged[m.UserID] = wallet
	}

	for userID, wallet := range staged {
		f.wallets[userID] = wallet
	}
	for _, m := range movements {
		f.txs = append(f.txs, models.Transaction{
			ID:          uint(len(f.txs) + 1),
			WalletID:    f.wallets[m.UserID].ID,
			Type:        m.Type,
			Amount:      m.Amount,
			Description: m.Description,
			Reference:   m.Reference,
		})
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, userID uint, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value, ok := f.settings[key]; ok {
		return value, nil
	}
	return "", ErrNotFound
}

func (f *fakeStore) setWallet(userID uint, balance float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWallet++
	f.wallets[userID] = models.Wallet{ID: f.nextWallet, UserID: userID, Balance: balance}
}

func (f *fakeStore) balance(userID uint) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallets[userID].Balance
}

// fakeNotifier records notifications instead of persisting them.
type fakeNotifier struct {
	mu     sync.Mutex
	events []models.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, userID uint, typ models.NotificationType, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, models.Notification{UserID: userID, Type: typ, Title: title, Body: body})
	return nil
}

func (n *fakeNotifier) byType(typ models.NotificationType) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Notification
	for _, e := range n.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
