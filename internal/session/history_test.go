package session

import (
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

func TestHistoryOrder(t *testing.T) {
	h := New()
	require.Zero(t, h.Len())
	require.Nil(t, h.Entries())
	require.Nil(t, h.Lines())

	h.Append("2 + 3*4", calc.IntValue(14))
	h.Append("7/2", calc.FloatValue(3.5))
	h.Append("2^10", calc.IntValue(1024))

	require.Equal(t, 3, h.Len())
	want := []Entry{
		{Expr: "2 + 3*4", Result: calc.IntValue(14)},
		{Expr: "7/2", Result: calc.FloatValue(3.5)},
		{Expr: "2^10", Result: calc.IntValue(1024)},
	}
	assert.Equal(t, want, h.Entries())
	assert.Equal(t, []string{
		"1: 2 + 3*4 = 14",
		"2: 7/2 = 3.5",
		"3: 2^10 = 1024",
	}, h.Lines())

	e, ok := h.At(0)
	require.True(t, ok)
	assert.Equal(t, want[2], e)
	e, ok = h.At(2)
	require.True(t, ok)
	assert.Equal(t, want[0], e)
	_, ok = h.At(3)
	assert.False(t, ok)
	_, ok = h.At(-1)
	assert.False(t, ok)
}

func TestHistoryEntriesCopy(t *testing.T) {
	h := New()
	h.Append("1", calc.IntValue(1))
	got := h.Entries()
	got[0].Expr = "changed"
	assert.Equal(t, "1", h.Entries()[0].Expr)
}

func TestHistoryClear(t *testing.T) {
	h := New()
	id := h.ID()
	require.NotEqual(t, uuid.Nil, id)
	h.Append("1+1", calc.IntValue(2))
	h.Clear()
	assert.Zero(t, h.Len())
	assert.Nil(t, h.Lines())
	assert.Equal(t, id, h.ID())
	h.Append("2+2", calc.IntValue(4))
	assert.Equal(t, []string{"1: 2+2 = 4"}, h.Lines())
}

func TestHistorySessionsDistinct(t *testing.T) {
	assert.NotEqual(t, New().ID(), New().ID())
}

func TestHistoryConcurrent(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Append(strconv.Itoa(i), calc.IntValue(int64(j)))
				h.Len()
				h.Entries()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1600, h.Len())
}
