// Package money provides decimal-backed helpers for currency arithmetic.
//
// Amounts are float64 at rest and on the wire; everything that decides
// "did this amount change" or computes a delta between two amounts goes
// through decimal so binary floating-point noise cannot leak into balance
// bookkeeping.
package money

import "github.com/shopspring/decimal"

// Noise is the tolerance below which two amounts are considered equal.
const Noise = 0.01

var noise = decimal.NewFromFloat(Noise)

// Changed reports whether new differs from old by more than the noise
// tolerance.
func Changed(old, new float64) bool {
	diff := decimal.NewFromFloat(new).Sub(decimal.NewFromFloat(old)).Abs()
	return diff.GreaterThan(noise)
}

// Delta returns new - old rounded to cents.
func Delta(old, new float64) float64 {
	d, _ := decimal.NewFromFloat(new).Sub(decimal.NewFromFloat(old)).Round(2).Float64()
	return d
}

// Add returns a + b rounded to cents.
func Add(a, b float64) float64 {
	sum, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).Float64()
	return sum
}

// Round2 rounds v to cents.
func Round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}
