package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("k")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Empty(t, km.locks, "entry dibuang setelah semua unlock")
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()
	unlockA := km.Lock("a")
	// key lain tidak boleh menunggu "a"
	unlockB := km.Lock("b")
	unlockB()
	unlockA()
	assert.Empty(t, km.locks)
}
