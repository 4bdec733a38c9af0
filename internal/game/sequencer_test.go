package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTurn(t *testing.T) {
	p1 := &Entrant{ID: "p1", Standing: true}
	p2 := &Entrant{ID: "p2"}
	p3 := &Entrant{ID: "p3", Busted: true}

	t.Run("skips standing and busted", func(t *testing.T) {
		next := NextTurn([]*Entrant{p1, p2, p3}, 0)
		require.NotNil(t, next)
		assert.Equal(t, "p2", next.ID)
	})

	t.Run("wraps around to earlier bettors", func(t *testing.T) {
		next := NextTurn([]*Entrant{p2, p1, p3}, 2)
		require.NotNil(t, next)
		assert.Equal(t, "p2", next.ID)
	})

	t.Run("everyone done hands off to dealer", func(t *testing.T) {
		assert.Nil(t, NextTurn([]*Entrant{p1, p3}, 0))
	})

	t.Run("negative start scans from the first entrant", func(t *testing.T) {
		a := &Entrant{ID: "a"}
		b := &Entrant{ID: "b"}
		next := NextTurn([]*Entrant{a, b}, -1)
		require.NotNil(t, next)
		assert.Equal(t, "a", next.ID)
	})

	t.Run("empty order", func(t *testing.T) {
		assert.Nil(t, NextTurn(nil, 0))
	})
}
