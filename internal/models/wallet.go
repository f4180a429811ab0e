package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's balance. One wallet per user, created at registration.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"userId" gorm:"uniqueIndex;not null"`
	Balance   float64        `json:"balance" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Wallet) TableName() string {
	return "wallets"
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePayment    TransactionType = "payment"
)

// Transaction is an append-only ledger entry. The wallet balance is the sum
// of signed amounts: deposits add, withdrawals and payments subtract.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	WalletID    uint            `json:"walletId" gorm:"not null;index"`
	Wallet      *Wallet         `json:"-" gorm:"foreignKey:WalletID"`
	Type        TransactionType `json:"type" gorm:"not null"`
	Amount      float64         `json:"amount" gorm:"not null"`
	Description string          `json:"description"`
	Reference   string          `json:"reference" gorm:"index"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "transactions"
}

// Signed returns the amount with the sign the balance ledger applies.
func (t *Transaction) Signed() float64 {
	if t.Type == TransactionTypeDeposit {
		return t.Amount
	}
	return -t.Amount
}
