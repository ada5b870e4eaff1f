package config_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxsim/internal/boxmodel"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/flux"
)

func runPreset(name string) (*boxmodel.Model, *boxmodel.History) {
	mf := config.GetPreset(name)
	Expect(mf).NotTo(BeNil())

	m, err := config.Build(mf, flux.NewLibrary())
	Expect(err).NotTo(HaveOccurred())

	h, err := m.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return m, h
}

func series(h *boxmodel.History, key string) []float64 {
	s, ok := h.Series(key)
	Expect(ok).To(BeTrue(), "missing series %s", key)
	return s
}

var _ = Describe("Presets", func() {
	Describe("tank", func() {
		It("drains at a constant rate", func() {
			_, h := runPreset("tank")
			Expect(series(h, "tank_volume")).To(Equal([]float64{100, 95, 90, 85}))
			Expect(series(h, "time")).To(Equal([]float64{0, 1, 2, 3}))
			Expect(series(h, "step")).To(Equal([]float64{0, 1, 2, 3}))
		})
	})

	Describe("exchange", func() {
		var h *boxmodel.History

		BeforeEach(func() {
			_, h = runPreset("exchange")
		})

		It("conserves total mass within the basin", func() {
			upper := series(h, "basin_upper")
			lower := series(h, "basin_lower")
			for i := range upper {
				Expect(upper[i] + lower[i]).To(BeNumerically("~", 100, 1e-9))
			}
		})

		It("relaxes toward equal levels", func() {
			u, _ := h.Last("basin_upper")
			l, _ := h.Last("basin_lower")
			Expect(u).To(BeNumerically("~", 50, 0.01))
			Expect(l).To(BeNumerically("~", 50, 0.01))
		})
	})

	Describe("carbon", func() {
		It("runs the Lua emission schedule to completion", func() {
			m, h := runPreset("carbon")
			Expect(h.Len()).To(Equal(m.TotalSteps() + 1))
			Expect(m.Time()).To(BeNumerically("~", 250, 1e-9))

			for _, key := range h.Variables() {
				for _, v := range series(h, key) {
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse(), "%s went non-finite", key)
				}
			}
		})

		It("feeds the atmosphere from emissions", func() {
			mf := config.GetPreset("carbon")
			mf.Processes = mf.Processes[:1]
			m, err := config.Build(mf, flux.NewLibrary())
			Expect(err).NotTo(HaveOccurred())

			h, err := m.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			// sum of (2 + 0.01 t) * 0.5 over t = 0, 0.5, ..., 249.5
			want := 600.0
			for i := 0; i < 500; i++ {
				want += (2 + 0.01*float64(i)*0.5) * 0.5
			}
			got, _ := h.Last("atmosphere_carbon")
			Expect(got).To(BeNumerically("~", want, 1e-6))
		})
	})

	Describe("predator_prey", func() {
		It("keeps both populations finite", func() {
			_, h := runPreset("predator_prey")
			for _, key := range []string{"prey_n", "predator_n"} {
				v, _ := h.Last(key)
				Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
			}
		})
	})

	Describe("overrides", func() {
		It("applies CLI step settings before building", func() {
			mf := config.GetPreset("tank")
			cfg := config.DefaultConfig()
			cfg.Steps = 10
			mf.Override(cfg)

			_, h := func() (*boxmodel.Model, *boxmodel.History) {
				m, err := config.Build(mf, flux.NewLibrary())
				Expect(err).NotTo(HaveOccurred())
				h, err := m.Run(context.Background())
				Expect(err).NotTo(HaveOccurred())
				return m, h
			}()
			Expect(h.Len()).To(Equal(11))
			last, _ := h.Last("tank_volume")
			Expect(last).To(Equal(50.0))
		})
	})
})
