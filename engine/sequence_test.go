package engine_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medicart/pos-engine/engine"
)

func TestSequencer_PrefixAndStart(t *testing.T) {
	seq := engine.NewInvoiceSequencer("INV-", 1001)

	assert.Equal(t, "INV-1001", seq.Peek())
	assert.Equal(t, "INV-1001", seq.Next())
	assert.Equal(t, "INV-1002", seq.Next())
}

func TestSequencer_StrictlyIncreasingByOne(t *testing.T) {
	seq := engine.NewInvoiceSequencer("B", 1)

	for want := int64(1); want <= 500; want++ {
		id, n := seq.NextNumbered()
		assert.Equal(t, want, n)
		assert.Equal(t, fmt.Sprintf("B%d", want), id)
	}
}

func TestSequencer_NeverRepeatsUnderConcurrency(t *testing.T) {
	seq := engine.NewInvoiceSequencer("INV-", 1)

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- seq.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestSequencer_SeedAfter_NeverGoesBackward(t *testing.T) {
	seq := engine.NewInvoiceSequencer("INV-", 1)
	seq.SeedAfter(41)
	assert.Equal(t, "INV-42", seq.Next())

	// Seeding below the current counter is a no-op.
	seq.SeedAfter(10)
	assert.Equal(t, "INV-43", seq.Next())
}

func TestSequencer_StartBelowOne_ClampedToOne(t *testing.T) {
	seq := engine.NewInvoiceSequencer("INV-", 0)
	assert.Equal(t, "INV-1", seq.Next())
}
