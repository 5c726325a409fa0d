package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoller_IntBetween(t *testing.T) {
	t.Run("stays within the closed range", func(t *testing.T) {
		roller := NewRoller(1)

		for i := 0; i < 10000; i++ {
			v := roller.IntBetween(80, 120)
			require.GreaterOrEqual(t, v, 80)
			require.LessOrEqual(t, v, 120)
		}
	})

	t.Run("both bounds are reachable", func(t *testing.T) {
		roller := NewRoller(1)

		sawMin, sawMax := false, false
		for i := 0; i < 10000 && !(sawMin && sawMax); i++ {
			switch roller.IntBetween(1, 10) {
			case 1:
				sawMin = true
			case 10:
				sawMax = true
			}
		}
		assert.True(t, sawMin, "lower bound never drawn")
		assert.True(t, sawMax, "upper bound never drawn")
	})

	t.Run("degenerate range returns the single value", func(t *testing.T) {
		roller := NewRoller(1)

		for i := 0; i < 100; i++ {
			assert.Equal(t, 7, roller.IntBetween(7, 7))
		}
	})

	t.Run("same seed gives the same sequence", func(t *testing.T) {
		a := NewRoller(12345)
		b := NewRoller(12345)

		for i := 0; i < 100; i++ {
			assert.Equal(t, a.IntBetween(1, 1000), b.IntBetween(1, 1000))
		}
	})
}
