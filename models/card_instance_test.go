package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardInstance_TakeDamage(t *testing.T) {
	t.Run("defense reduces the damage dealt", func(t *testing.T) {
		card := &CardInstance{Health: 100, Defense: 5, CurrentHealth: 100}

		dealt := card.TakeDamage(20)
		assert.Equal(t, 15, dealt)
		assert.Equal(t, 85, card.CurrentHealth)
	})

	t.Run("damage fully absorbed deals nothing", func(t *testing.T) {
		card := &CardInstance{Health: 100, Defense: 30, CurrentHealth: 100}

		dealt := card.TakeDamage(20)
		assert.Zero(t, dealt)
		assert.Equal(t, 100, card.CurrentHealth)
	})

	t.Run("health floors at zero", func(t *testing.T) {
		card := &CardInstance{Health: 100, Defense: 0, CurrentHealth: 10}

		dealt := card.TakeDamage(50)
		assert.Equal(t, 50, dealt)
		assert.Zero(t, card.CurrentHealth)
		assert.False(t, card.IsAlive())
	})
}

func TestCardInstance_Heal(t *testing.T) {
	t.Run("restores up to the rolled maximum", func(t *testing.T) {
		card := &CardInstance{Health: 100, CurrentHealth: 90}

		restored := card.Heal(30)
		assert.Equal(t, 10, restored)
		assert.Equal(t, 100, card.CurrentHealth)
	})

	t.Run("full restore from zero", func(t *testing.T) {
		card := &CardInstance{Health: 100, CurrentHealth: 0}

		restored := card.Heal(100)
		assert.Equal(t, 100, restored)
		assert.True(t, card.IsAlive())
	})

	t.Run("healing at full health restores nothing", func(t *testing.T) {
		card := &CardInstance{Health: 100, CurrentHealth: 100}

		assert.Zero(t, card.Heal(25))
		assert.Equal(t, 100, card.CurrentHealth)
	})
}

func TestCardInstance_ResetHealth(t *testing.T) {
	card := &CardInstance{Health: 80, CurrentHealth: 0}
	card.ResetHealth()
	assert.Equal(t, 80, card.CurrentHealth)
}

func TestCardInstance_DamageHealCycle(t *testing.T) {
	// A full fight round trip: damage past defense, partial heal, finish
	card := &CardInstance{Health: 100, Defense: 10, CurrentHealth: 100}

	assert.Equal(t, 30, card.TakeDamage(40))
	assert.Equal(t, 70, card.CurrentHealth)

	assert.Equal(t, 20, card.Heal(20))
	assert.Equal(t, 90, card.CurrentHealth)

	card.TakeDamage(200)
	assert.Zero(t, card.CurrentHealth)
	assert.False(t, card.IsAlive())
}
