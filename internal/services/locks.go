package services

import (
	"fmt"
	"sync"
)

// KeyedMutex serializes work per entity key. Booking approval and trip
// settlement for the same trip must never interleave, so both services
// share one instance and lock the same trip key.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Lock entries
// are retained for the process lifetime; the key space is bounded by the
// number of trips and wallets touched since startup.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("unlock of unknown key %q", key))
	}
	m.Unlock()
}

// TripKey returns the lock key guarding a trip's seat counter.
func TripKey(tripID uint) string {
	return fmt.Sprintf("trip:%d", tripID)
}

// WalletKey returns the lock key guarding a user's wallet.
func WalletKey(userID uint) string {
	return fmt.Sprintf("wallet:%d", userID)
}
