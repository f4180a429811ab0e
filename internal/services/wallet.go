package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// WalletMovement is one signed balance change. Amount is always positive;
// Type decides the sign (deposit adds, withdrawal/payment subtracts).
type WalletMovement struct {
	UserID      uint
	Amount      float64
	Type        models.TransactionType
	Description string
	Reference   string
}

// WalletRepository persists wallets and their append-only transaction
// ledger. Apply commits all movements atomically: if any debit would push a
// balance below zero the whole batch fails with ErrInsufficientFunds and no
// wallet is touched.
type WalletRepository interface {
	GetByUser(ctx context.Context, userID uint) (*models.Wallet, error)
	CreateForUser(ctx context.Context, userID uint) (*models.Wallet, error)
	ListTransactions(ctx context.Context, walletID uint) ([]models.Transaction, error)
	Apply(ctx context.Context, movements []WalletMovement) error
}

// WalletService serializes balance changes per wallet and keeps the
// non-negative balance invariant.
type WalletService struct {
	wallets WalletRepository
	locks   *KeyedMutex
	log     *logrus.Logger
}

func NewWalletService(wallets WalletRepository, locks *KeyedMutex, log *logrus.Logger) *WalletService {
	return &WalletService{wallets: wallets, locks: locks, log: log}
}

// Balance returns the user's wallet, creating an empty one if registration
// predates the wallet table.
func (s *WalletService) Balance(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err == ErrNotFound {
		return s.wallets.CreateForUser(ctx, userID)
	}
	return wallet, err
}

// Deposit credits the user's wallet and appends a deposit transaction.
func (s *WalletService) Deposit(ctx context.Context, userID uint, amount float64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	key := WalletKey(userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if _, err := s.Balance(ctx, userID); err != nil {
		return nil, err
	}

	err := s.wallets.Apply(ctx, []WalletMovement{{
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeDeposit,
		Description: "Wallet top-up",
		Reference:   uuid.NewString(),
	}})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"userId": userID, "amount": amount}).Info("wallet deposit")
	return s.wallets.GetByUser(ctx, userID)
}

// Withdraw debits the user's wallet. Fails with ErrInsufficientFunds when
// the balance cannot cover the amount; no partial debit happens.
func (s *WalletService) Withdraw(ctx context.Context, userID uint, amount float64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	key := WalletKey(userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if _, err := s.Balance(ctx, userID); err != nil {
		return nil, err
	}

	err := s.wallets.Apply(ctx, []WalletMovement{{
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeWithdrawal,
		Description: "Wallet withdrawal",
		Reference:   uuid.NewString(),
	}})
	if err != nil {
		return nil, err
	}

	return s.wallets.GetByUser(ctx, userID)
}

// Transactions lists the wallet ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	wallet, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.wallets.ListTransactions(ctx, wallet.ID)
}
