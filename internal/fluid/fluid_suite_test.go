package fluid_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

func TestFluidSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fluid Suite")
}

var _ = Describe("Solver", func() {
	var (
		s *fluid.Solver
		g fluid.Grid
	)

	BeforeEach(func() {
		g = fluid.DefaultGrid()
		g.N = 48
		var err error
		s, err = fluid.New(g)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("with no sources", func() {
		It("keeps every field at zero", func() {
			for i := 0; i < 3; i++ {
				s.Tick()
			}
			Expect(s.Density()).To(HaveEach(BeZero()))
			Expect(s.VelocityX()).To(HaveEach(BeZero()))
			Expect(s.VelocityY()).To(HaveEach(BeZero()))
		})
	})

	Context("with a puff of dye", func() {
		BeforeEach(func() {
			Expect(s.AddDensity(24, 24, 4)).To(Succeed())
			Expect(s.AddVelocity(24, 24, 0, 3)).To(Succeed())
		})

		It("defers staged mass until Step", func() {
			Expect(s.Mass()).To(BeZero())
			s.Step()
			Expect(s.Mass()).To(BeNumerically(">", 0))
		})

		It("never produces negative density", func() {
			for i := 0; i < 8; i++ {
				s.Tick()
			}
			Expect(s.Density()).To(HaveEach(BeNumerically(">=", -1e-9)))
		})

		It("stays finite under health checks", func() {
			g.CheckHealth = true
			checked, err := fluid.New(g)
			Expect(err).NotTo(HaveOccurred())
			Expect(checked.AddDensity(24, 24, 4)).To(Succeed())
			for i := 0; i < 5; i++ {
				checked.Tick()
			}
			Expect(checked.Fault()).NotTo(HaveOccurred())
		})
	})

	Context("injecting outside the grid", func() {
		It("rejects the call", func() {
			Expect(s.AddDensity(g.N, 0, 1)).To(MatchError(fluid.ErrOutOfBounds))
			Expect(s.AddVelocity(-1, 3, 1, 1)).To(MatchError(fluid.ErrOutOfBounds))
		})
	})

	DescribeTable("fading",
		func(rate float64) {
			g.FadeRate = rate
			g.Injection = fluid.Direct
			faded, err := fluid.New(g)
			Expect(err).NotTo(HaveOccurred())
			Expect(faded.AddDensity(5, 5, 2)).To(Succeed())
			faded.Fade()
			Expect(faded.Density()[g.Idx(5, 5)]).To(Equal(2 * rate))
		},
		Entry("default rate", 0.99),
		Entry("no decay", 1.0),
		Entry("full decay", 0.0),
	)
})
