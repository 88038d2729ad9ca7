package model

import (
	"database/sql/driver"
	"fmt"
	"math"
)

// Money is an amount in hundredths of the currency unit.
type Money int64

// MoneyFromFloat rounds a currency amount to the nearest hundredth.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

// Units returns a whole-unit amount as Money.
func Units(n int64) Money {
	return Money(n * 100)
}

// Mul multiplies m by a real factor, rounding half away from zero.
func (m Money) Mul(factor float64) Money {
	return Money(math.Round(float64(m) * factor))
}

// Times multiplies m by an integral quantity.
func (m Money) Times(q int) Money {
	return m * Money(q)
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Value renders the amount as an exact decimal literal so NUMERIC/DECIMAL
// columns receive no float rounding.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
