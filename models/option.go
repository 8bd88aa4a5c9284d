package models

import (
	"errors"
	"fmt"
	"math"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

var (
	ErrInvalidOptionType = errors.New("unrecognized option type")
	ErrInvalidParameter  = errors.New("invalid parameter")
)

// CheckOptionType rejects anything that is not a plain call or put.
func CheckOptionType(typ OptionType) error {
	if typ != Call && typ != Put {
		return fmt.Errorf("%w: %q", ErrInvalidOptionType, string(typ))
	}
	return nil
}

type Option struct {
	Strike float64    // Strike price
	Type   OptionType // "call" or "put"
}

// Validate reports whether the contract can be priced at all.
func (o Option) Validate() error {
	if err := CheckOptionType(o.Type); err != nil {
		return err
	}
	if o.Strike <= 0 {
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidParameter, o.Strike)
	}
	return nil
}

// Payoff returns the exercise value of the contract at price s.
func (o Option) Payoff(s float64) float64 {
	if o.Type == Put {
		return math.Max(0, o.Strike-s)
	}
	return math.Max(0, s-o.Strike)
}
