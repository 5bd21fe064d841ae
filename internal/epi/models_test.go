package epi_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/epi"
)

// derivativeSum evaluates the model at a mid-epidemic state and sums the
// compartment flow rates.
func derivativeSum(m epi.Model, x dynamo.State) float64 {
	return m.Derive(x, 0).Sum()
}

var _ = Describe("SEIR", func() {
	var m *epi.SEIR

	BeforeEach(func() {
		m = epi.NewSEIR()
	})

	It("conserves the population analytically", func() {
		n := m.Population()
		x := dynamo.State{0.6 * n, 0.1 * n, 0.2 * n, 0.1 * n}
		Expect(derivativeSum(m, x)).To(BeNumerically("~", 0, 1e-6))
	})

	It("starts with exactly one initial case", func() {
		x0 := m.InitialState()
		Expect(x0).To(HaveLen(4))
		Expect(x0[2]).To(Equal(1.0))
		Expect(x0.Sum()).To(Equal(m.Population()))
	})

	It("moves mass from susceptible through exposed to infected", func() {
		n := m.Population()
		dx := m.Derive(dynamo.State{n - 1, 0, 1, 0}, 0)
		Expect(dx[0]).To(BeNumerically("<", 0))
		Expect(dx[1]).To(BeNumerically(">", 0))
	})

	It("rejects a non-positive population", func() {
		Expect(m.SetParam("N", 0)).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("rejects negative rates", func() {
		Expect(m.SetParam("beta", -0.1)).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("rejects unknown parameters", func() {
		Expect(m.SetParam("delta", 1.0)).To(HaveOccurred())
	})

	It("exposes beta for sweeping", func() {
		Expect(m.SetParam("beta", 0.35)).To(Succeed())
		Expect(m.GetParams()["beta"]).To(Equal(0.35))
	})
})

var _ = Describe("SIRD", func() {
	var m *epi.SIRD

	BeforeEach(func() {
		m = epi.NewSIRD()
	})

	It("conserves the population analytically", func() {
		n := m.Population()
		x := dynamo.State{0.5 * n, 0.2 * n, 0.25 * n, 0.05 * n}
		Expect(derivativeSum(m, x)).To(BeNumerically("~", 0, 1e-6))
	})

	It("splits outflow from infected by the mortality fraction", func() {
		n := m.Population()
		x := dynamo.State{0.5 * n, 0.2 * n, 0.25 * n, 0.05 * n}
		dx := m.Derive(x, 0)
		// dead flow / total outflow of infected = alpha
		Expect(dx[3] / (dx[2] + dx[3])).To(BeNumerically("~", epi.DefaultAlpha, 1e-9))
	})

	It("rejects alpha outside [0,1]", func() {
		Expect(m.SetParam("alpha", 1.5)).To(MatchError(dynamo.ErrParameterBounds))
		Expect(m.SetParam("alpha", -0.1)).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("accepts the alpha boundaries", func() {
		Expect(m.SetParam("alpha", 0)).To(Succeed())
		Expect(m.SetParam("alpha", 1)).To(Succeed())
	})

	It("starts with exactly one initial case", func() {
		x0 := m.InitialState()
		Expect(x0).To(HaveLen(4))
		Expect(x0[1]).To(Equal(1.0))
		Expect(x0.Sum()).To(Equal(m.Population()))
	})
})

var _ = Describe("SIR", func() {
	It("conserves the population analytically", func() {
		m := epi.NewSIR()
		n := m.Population()
		x := dynamo.State{0.7 * n, 0.2 * n, 0.1 * n}
		Expect(derivativeSum(m, x)).To(BeNumerically("~", 0, 1e-6))
	})
})

var _ = Describe("Registry", func() {
	It("builds every listed model", func() {
		for _, name := range epi.List() {
			m, err := epi.New(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Name()).To(Equal(name))
			Expect(m.Validate()).To(Succeed())
			Expect(m.Compartments()).To(HaveLen(m.Dim()))
		}
	})

	It("rejects unknown models", func() {
		_, err := epi.New("sirs")
		Expect(err).To(HaveOccurred())
	})
})
