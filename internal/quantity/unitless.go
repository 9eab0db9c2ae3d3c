package quantity

import "math"

// Unitless is a sentinel value that is the same in every unit system:
// zero and the two infinities.
type Unitless struct {
	value float64
}

func ZeroQuantity() Unitless   { return Unitless{0} }
func MaxQuantity() Unitless    { return Unitless{math.Inf(1)} }
func NegMaxQuantity() Unitless { return Unitless{math.Inf(-1)} }

func (s Unitless) Value() float64 { return s.value }

func (s Unitless) Compare(o Unitless) int {
	return compareFloat(s.value, o.value)
}

// From converts a sentinel into a quantity of any unit. No conversion
// factor is applied: zero and infinity are unit independent.
func From[U Unit](s Unitless) Quantity[U] {
	return Quantity[U]{value: s.value}
}
