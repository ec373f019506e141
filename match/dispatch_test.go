package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachValid_SkipsOversizedPattern(t *testing.T) {
	buf := []byte("xAAyz")
	patterns := [][]byte{[]byte("AA"), []byte("ZZZZZZZZZZ")}

	var called []string
	rep, err := ForEachValid(buf, patterns, 0, func(i int, b, p []byte, off int) error {
		called = append(called, string(p))
		assert.Equal(t, buf, b)
		assert.Equal(t, 0, off)
		assert.Equal(t, 0, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AA"}, called)
	assert.Equal(t, 1, rep.Dispatched)
	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, 1, rep.Skipped[0].Index)
	assert.ErrorIs(t, rep.Skipped[0].Result.Err(), ErrPatternSizeOutOfRange)
}

func TestForEachValid_Order(t *testing.T) {
	buf := []byte("abcdefgh")
	patterns := [][]byte{[]byte("c"), nil, []byte("a"), []byte("h")}

	var order []int
	rep, err := ForEachValid(buf, patterns, 0, func(i int, _, _ []byte, _ int) error {
		order = append(order, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, order)
	assert.Len(t, rep.Skipped, 1)
}

func TestForEachValid_AllInvalid(t *testing.T) {
	rep, err := ForEachValid(nil, [][]byte{[]byte("a"), []byte("b")}, 0, func(int, []byte, []byte, int) error {
		t.Fatal("action must not run")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, rep.Dispatched)
	require.Len(t, rep.Skipped, 2)
	for _, s := range rep.Skipped {
		assert.ErrorIs(t, s.Result.Err(), ErrEmptyOrInvalidRange)
	}
}

func TestForEachValid_ActionErrorAborts(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	rep, err := ForEachValid([]byte("abc"), [][]byte{[]byte("a"), []byte("b")}, 0, func(int, []byte, []byte, int) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rep.Dispatched)
}
