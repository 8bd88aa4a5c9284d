package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOptionType(t *testing.T) {
	assert.NoError(t, CheckOptionType(Call))
	assert.NoError(t, CheckOptionType(Put))

	err := CheckOptionType("straddle")
	assert.ErrorIs(t, err, ErrInvalidOptionType)
	assert.Contains(t, err.Error(), "straddle")

	assert.ErrorIs(t, CheckOptionType(""), ErrInvalidOptionType)
	assert.ErrorIs(t, CheckOptionType("CALL"), ErrInvalidOptionType)
}

func TestOptionValidate(t *testing.T) {
	assert.NoError(t, Option{Strike: 100, Type: Call}.Validate())

	assert.ErrorIs(t, Option{Strike: 100, Type: "butterfly"}.Validate(), ErrInvalidOptionType)
	assert.ErrorIs(t, Option{Strike: 0, Type: Put}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Option{Strike: -5, Type: Call}.Validate(), ErrInvalidParameter)
}

func TestOptionPayoff(t *testing.T) {
	call := Option{Strike: 100, Type: Call}
	assert.Equal(t, 5.0, call.Payoff(105))
	assert.Equal(t, 0.0, call.Payoff(95))
	assert.Equal(t, 0.0, call.Payoff(100))

	put := Option{Strike: 100, Type: Put}
	assert.Equal(t, 0.0, put.Payoff(105))
	assert.Equal(t, 5.0, put.Payoff(95))
}
