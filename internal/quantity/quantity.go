package quantity

import "fmt"

// Unit is implemented by zero-size tag types. Value is the multiplicative
// factor converting one unit of the tag into the native (SI) unit system.
type Unit interface {
	Value() float64
}

// Quantity is a number expressed in the unit named by its tag. It has the
// size of a float64 and the unit never appears at run time.
type Quantity[U Unit] struct {
	value float64
}

func New[U Unit](v float64) Quantity[U] {
	return Quantity[U]{value: v}
}

// Value returns the stored number, in units of U.
func (q Quantity[U]) Value() float64 { return q.value }

// UnitCast converts q into the native unit system.
func UnitCast[U Unit](q Quantity[U]) float64 {
	var u U
	return q.value * u.Value()
}

func (q Quantity[U]) String() string {
	return fmt.Sprintf("%g", q.value)
}

func Swap[U Unit](a, b *Quantity[U]) {
	*a, *b = *b, *a
}

// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
// NaN compares equal to everything, like the raw float comparisons do.
func Compare[U Unit](a, b Quantity[U]) int {
	return compareFloat(a.value, b.value)
}

func (q Quantity[U]) Eq(o Quantity[U]) bool { return q.value == o.value }
func (q Quantity[U]) Ne(o Quantity[U]) bool { return q.value != o.value }
func (q Quantity[U]) Lt(o Quantity[U]) bool { return q.value < o.value }
func (q Quantity[U]) Le(o Quantity[U]) bool { return q.value <= o.value }
func (q Quantity[U]) Gt(o Quantity[U]) bool { return q.value > o.value }
func (q Quantity[U]) Ge(o Quantity[U]) bool { return q.value >= o.value }

// CompareUnitless compares q against a sentinel on the right.
func (q Quantity[U]) CompareUnitless(s Unitless) int {
	return compareFloat(q.value, s.value)
}

// UnitlessCompare compares a sentinel on the left against q.
func UnitlessCompare[U Unit](s Unitless, q Quantity[U]) int {
	return compareFloat(s.value, q.value)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
