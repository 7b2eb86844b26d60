package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNegativePrice   = errors.New("negative price")
)

// LineTotal returns unitPrice × quantity rounded to two decimal places.
func LineTotal(unitPrice Money, quantity int) (Money, error) {
	if quantity < 1 {
		return Money{}, fmt.Errorf("quantity %d must be at least 1: %w", quantity, ErrInvalidQuantity)
	}
	if unitPrice.IsNegative() {
		return Money{}, fmt.Errorf("unit price %s: %w", unitPrice, ErrNegativePrice)
	}
	total := NewMoney(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	if !total.Fits() {
		return Money{}, fmt.Errorf("quantity %d at %s exceeds %s: %w", quantity, unitPrice, MaxAmount, ErrInvalidQuantity)
	}
	return total, nil
}

func Sum(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
