package memory_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangoroad/haggle/internal/memory"
)

func TestLog_EvictsPastBound(t *testing.T) {
	log := memory.New(3)
	for i := 1; i <= 5; i++ {
		log.Add(i, "seller", fmt.Sprintf("msg %d", i), nil)
	}

	require.Equal(t, 3, log.Len())
	entries := log.Entries()
	assert.Equal(t, 3, entries[0].Round) // oldest two evicted
	assert.Equal(t, 5, entries[2].Round)
}

func TestLog_Summary(t *testing.T) {
	log := memory.New(0)
	price := 65000.0
	log.Add(1, "seller", "I'm asking ₹90,000", nil)
	log.Add(1, "buyer", "My anchor is ₹65,000.", &price)

	summary := log.Summary(8)
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "R1 seller")
	assert.Contains(t, lines[0], "(-)")
	assert.Contains(t, lines[1], "R1 buyer")
	assert.Contains(t, lines[1], "₹65000")

	// Asking for more lines than exist returns everything.
	assert.Equal(t, summary, log.Summary(100))
}

func TestLog_EntriesAreACopy(t *testing.T) {
	log := memory.New(0)
	log.Add(1, "seller", "hello", nil)

	entries := log.Entries()
	entries[0].Message = "mutated"
	assert.Equal(t, "hello", log.Entries()[0].Message)
}
