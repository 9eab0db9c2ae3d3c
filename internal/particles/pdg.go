package particles

import (
	"fmt"
	"slices"

	"github.com/san-kum/mctrans/internal/quantity"
)

// PDGNumber is a Particle Data Group Monte Carlo particle code. Zero is not
// a valid code.
type PDGNumber int32

const (
	Electron PDGNumber = 11
	Positron PDGNumber = -11
	MuMinus  PDGNumber = 13
	MuPlus   PDGNumber = -13
	Gamma    PDGNumber = 22
	PiPlus   PDGNumber = 211
	PiMinus  PDGNumber = -211
	Neutron  PDGNumber = 2112
	Proton   PDGNumber = 2212
)

func (p PDGNumber) Valid() bool { return p != 0 }

func (p PDGNumber) String() string { return fmt.Sprintf("%d", int32(p)) }

// Review of Particle Physics 2020 values, MeV/c^2 and 1/s.
var standard = map[PDGNumber]Input{
	Electron: {Name: "e-", PDG: Electron, Mass: mass(0.5109989461), Charge: charge(-1)},
	Positron: {Name: "e+", PDG: Positron, Mass: mass(0.5109989461), Charge: charge(1)},
	Gamma:    {Name: "gamma", PDG: Gamma, Mass: mass(0), Charge: charge(0)},
	MuMinus:  {Name: "mu-", PDG: MuMinus, Mass: mass(105.6583745), Charge: charge(-1), DecayConstant: 1 / 2.1969811e-6},
	MuPlus:   {Name: "mu+", PDG: MuPlus, Mass: mass(105.6583745), Charge: charge(1), DecayConstant: 1 / 2.1969811e-6},
	PiPlus:   {Name: "pi+", PDG: PiPlus, Mass: mass(139.57061), Charge: charge(1), DecayConstant: 1 / 2.6033e-8},
	PiMinus:  {Name: "pi-", PDG: PiMinus, Mass: mass(139.57061), Charge: charge(-1), DecayConstant: 1 / 2.6033e-8},
	Neutron:  {Name: "neutron", PDG: Neutron, Mass: mass(939.565413), Charge: charge(0), DecayConstant: 1 / 879.4},
	Proton:   {Name: "proton", PDG: Proton, Mass: mass(938.272081), Charge: charge(1)},
}

func mass(v float64) quantity.MevMass {
	return quantity.New[quantity.UnitDivide[quantity.Mev, quantity.CLightSq]](v)
}

func charge(v float64) quantity.ElementaryCharge {
	return quantity.New[quantity.EChargeUnit](v)
}

// StandardInputs returns the tabulated definitions of the requested codes,
// in the order given.
func StandardInputs(codes ...PDGNumber) ([]Input, error) {
	out := make([]Input, 0, len(codes))
	for _, code := range codes {
		in, ok := standard[code]
		if !ok {
			return nil, fmt.Errorf("%w: no standard definition for PDG %d", ErrInvalidInput, code)
		}
		out = append(out, in)
	}
	return out, nil
}

// StandardCodes lists every tabulated code in ascending order.
func StandardCodes() []PDGNumber {
	codes := make([]PDGNumber, 0, len(standard))
	for code := range standard {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
