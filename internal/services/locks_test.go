package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("trip:1")
			counter++
			km.Unlock("trip:1")
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock(TripKey(1))
	defer km.Unlock(TripKey(1))

	done := make(chan struct{})
	go func() {
		km.Lock(TripKey(2))
		km.Unlock(TripKey(2))
		close(done)
	}()
	<-done
}

func TestKeyedMutexKeyBuilders(t *testing.T) {
	assert.Equal(t, "trip:7", TripKey(7))
	assert.Equal(t, "wallet:7", WalletKey(7))
	assert.NotEqual(t, TripKey(7), WalletKey(7))
}

func TestKeyedMutexUnknownKeyPanics(t *testing.T) {
	km := NewKeyedMutex()
	assert.Panics(t, func() { km.Unlock("trip:99") })
}
