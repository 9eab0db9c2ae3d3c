package particles_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mctrans/internal/compute"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/quantity"
)

func mass(v float64) quantity.MevMass {
	return quantity.New[quantity.UnitDivide[quantity.Mev, quantity.CLightSq]](v)
}

func charge(v float64) quantity.ElementaryCharge {
	return quantity.New[quantity.EChargeUnit](v)
}

func leptons() []particles.Input {
	return []particles.Input{
		{Name: "e-", PDG: 11, Mass: mass(0.5109989461), Charge: charge(-1)},
		{Name: "e+", PDG: -11, Mass: mass(0.5109989461), Charge: charge(1)},
	}
}

var _ = Describe("Params", func() {
	var (
		backend *compute.CPUBackend
		params  *particles.Params
	)

	BeforeEach(func() {
		backend = compute.NewCPUBackend()
		var err error
		params, err = particles.NewWithBackend(backend, leptons())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		params.Close()
	})

	It("assigns ids in input order", func() {
		Expect(params.Size()).To(Equal(2))
		Expect(params.Find("e-")).To(Equal(ids.New[ids.ParticleTag](0)))
		Expect(params.Find("e+")).To(Equal(ids.New[ids.ParticleTag](1)))
	})

	It("finds the same id by name and by code", func() {
		Expect(params.Find("e-")).To(Equal(params.FindPDG(particles.Electron)))
		Expect(params.Find("e+")).To(Equal(params.FindPDG(particles.Positron)))
	})

	It("returns an unset id for unknown species", func() {
		Expect(params.Find("proton").Valid()).To(BeFalse())
		Expect(params.FindPDG(particles.Proton).Valid()).To(BeFalse())
	})

	It("round trips labels and codes", func() {
		for i := 0; i < params.Size(); i++ {
			id := ids.New[ids.ParticleTag](i)
			Expect(params.Find(params.Label(id))).To(Equal(id))
			Expect(params.FindPDG(params.PDG(id))).To(Equal(id))
		}
	})

	It("mirrors identical definitions to device memory", func() {
		host, device := params.HostView(), params.DeviceView()
		Expect(device.Size()).To(Equal(host.Size()))
		for i := 0; i < host.Size(); i++ {
			id := ids.New[ids.ParticleTag](i)
			Expect(device.Get(id)).To(Equal(host.Get(id)))
		}
		Expect(params.Get(params.Find("e+")).Charge.Value()).To(Equal(1.0))
		Expect(backend.LiveBytes()).To(BeNumerically(">", 0))
	})

	It("frees device memory on close", func() {
		params.Close()
		Expect(backend.LiveBytes()).To(BeZero())
		Expect(func() { params.DeviceView() }).To(Panic())
	})

	It("rejects out of range and unset ids", func() {
		Expect(func() { params.Label(ids.New[ids.ParticleTag](2)) }).To(Panic())
		Expect(func() { params.PDG(ids.ParticleDefID{}) }).To(Panic())
		Expect(func() { params.HostView().Get(ids.New[ids.ParticleTag](5)) }).To(Panic())
	})
})

var _ = Describe("Construction errors", func() {
	DescribeTable("duplicate definitions",
		func(extra particles.Input, sentinel error, first, second int) {
			inputs := append(leptons(), extra)
			_, err := particles.NewWithBackend(compute.NewCPUBackend(), inputs)
			Expect(err).To(MatchError(sentinel))

			var dup *particles.DuplicateError
			Expect(errors.As(err, &dup)).To(BeTrue())
			Expect(dup.First).To(Equal(first))
			Expect(dup.Second).To(Equal(second))
		},
		Entry("repeated PDG code", particles.Input{Name: "electron", PDG: 11, Mass: mass(0.511)}, particles.ErrDuplicatePDG, 0, 2),
		Entry("repeated name", particles.Input{Name: "e+", PDG: 1011, Mass: mass(0.511)}, particles.ErrDuplicateName, 1, 2),
	)

	It("names the offending code", func() {
		inputs := append(leptons(), particles.Input{Name: "electron", PDG: 11})
		_, err := particles.New(inputs)
		Expect(err).To(MatchError(ContainSubstring("11")))
	})

	DescribeTable("invalid definitions",
		func(in particles.Input) {
			_, err := particles.NewWithBackend(compute.NewCPUBackend(), []particles.Input{in})
			Expect(err).To(MatchError(particles.ErrInvalidInput))
		},
		Entry("empty name", particles.Input{PDG: 22}),
		Entry("zero code", particles.Input{Name: "x"}),
		Entry("negative mass", particles.Input{Name: "x", PDG: 99, Mass: mass(-1)}),
		Entry("negative decay constant", particles.Input{Name: "x", PDG: 99, DecayConstant: -1}),
	)

	It("accepts an empty registry", func() {
		params, err := particles.NewWithBackend(compute.NewCPUBackend(), nil)
		Expect(err).NotTo(HaveOccurred())
		defer params.Close()
		Expect(params.Size()).To(BeZero())
		Expect(params.Find("e-").Valid()).To(BeFalse())
	})
})

var _ = Describe("StandardInputs", func() {
	It("builds a registry from tabulated species", func() {
		inputs, err := particles.StandardInputs(particles.Gamma, particles.Electron, particles.Positron, particles.Proton)
		Expect(err).NotTo(HaveOccurred())

		params, err := particles.NewWithBackend(compute.NewCPUBackend(), inputs)
		Expect(err).NotTo(HaveOccurred())
		defer params.Close()

		Expect(params.Label(params.FindPDG(particles.Gamma))).To(Equal("gamma"))
		Expect(params.Get(params.Find("proton")).Mass.Value()).To(BeNumerically("~", 938.272, 1e-3))
	})

	It("lists every tabulated code in order", func() {
		codes := particles.StandardCodes()
		Expect(codes).To(HaveLen(9))
		Expect(codes[0]).To(Equal(particles.PiMinus))
		Expect(codes).To(ContainElements(particles.Gamma, particles.Proton))

		inputs, err := particles.StandardInputs(codes...)
		Expect(err).NotTo(HaveOccurred())
		all, err := particles.New(inputs)
		Expect(err).NotTo(HaveOccurred())
		defer all.Close()
		Expect(all.Size()).To(Equal(len(codes)))
	})

	It("rejects codes without a table entry", func() {
		_, err := particles.StandardInputs(particles.PDGNumber(999999))
		Expect(err).To(MatchError(particles.ErrInvalidInput))
	})
})
