// Package quantity provides unit-tagged scalars.
//
// A [Quantity] stores a plain float64 next to a compile-time unit tag, so
// values in different units cannot be compared or mixed by accident:
//
//	e := quantity.New[quantity.Mev](10)
//	joules := quantity.UnitCast(e)
//
// # Unit System
//
// The native unit system is SI, the same one used by gonum.org/v1/gonum/unit,
// and the conversion factors of the tags are derived from
// gonum.org/v1/gonum/unit/constant. Use [Energy], [Mass], [Charge] and
// [Velocity] to obtain typed gonum values.
//
// # Sentinels
//
// [ZeroQuantity], [MaxQuantity] and [NegMaxQuantity] are [Unitless] values
// that compare against a quantity of any unit and convert into one with
// [From].
package quantity
