package systems

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
)

var _ = Describe("RevStateMachine", func() {
	var (
		cfg     config.RevConfig
		m       *RevStateMachine
		ignites int
	)

	settle := func(ticks int) {
		for i := 0; i < ticks; i++ {
			m.Tick()
		}
	}

	BeforeEach(func() {
		cfg = config.DefaultEngineConfig().Rev
		m = NewRevStateMachine(cfg)
		ignites = 0
		m.OnIgnite(func() { ignites++ })
	})

	Describe("initial state", func() {
		It("starts idle with rpm spinning up from zero", func() {
			Expect(m.State()).To(Equal(components.RevIdle))
			Expect(m.RPM()).To(BeZero())
			Expect(m.RpmState().Target).To(Equal(60.0))
			Expect(m.Angle()).To(BeZero())
		})
	})

	Describe("transitions", func() {
		It("moves to Revving on IgniteStart and fires the ignite handlers once", func() {
			Expect(m.IgniteStart()).To(BeTrue())
			Expect(m.State()).To(Equal(components.RevRevving))
			Expect(m.RpmState().Target).To(Equal(800.0))
			Expect(ignites).To(Equal(1))
		})

		It("ignores a second IgniteStart while already Revving", func() {
			m.IgniteStart()
			Expect(m.IgniteStart()).To(BeFalse())
			Expect(ignites).To(Equal(1))
		})

		It("returns to Idle on IgniteStop", func() {
			m.IgniteStart()
			Expect(m.IgniteStop()).To(BeTrue())
			Expect(m.State()).To(Equal(components.RevIdle))
			Expect(m.RpmState().Target).To(Equal(60.0))
		})

		It("treats LoseFocus like IgniteStop", func() {
			m.IgniteStart()
			Expect(m.LoseFocus()).To(BeTrue())
			Expect(m.Revving()).To(BeFalse())
		})

		It("ignores release events while Idle", func() {
			Expect(m.IgniteStop()).To(BeFalse())
			Expect(m.LoseFocus()).To(BeFalse())
			Expect(m.State()).To(Equal(components.RevIdle))
		})

		It("fires the ignite handlers again after a full release cycle", func() {
			m.IgniteStart()
			m.IgniteStop()
			m.IgniteStart()
			Expect(ignites).To(Equal(2))
		})
	})

	Describe("Tick", func() {
		It("advances the angle by rpm/60 * angleScale", func() {
			settle(10)
			before := m.Angle()
			m.Tick()
			Expect(m.Angle() - before).To(BeNumerically("~", m.RPM()/60*cfg.AngleScale, 1e-12))
		})

		It("converges upward to max rpm without overshoot and back down to idle", func() {
			settle(600)
			Expect(m.RPM()).To(BeNumerically("~", 60, 1e-6))
			Expect(m.RPM()).To(BeNumerically("<=", 60))

			m.IgniteStart()
			prev := m.RPM()
			for i := 0; i < 200; i++ {
				m.Tick()
				Expect(m.RPM()).To(BeNumerically(">", prev))
				Expect(m.RPM()).To(BeNumerically("<=", 800))
				prev = m.RPM()
			}
			Expect(m.RPM()).To(BeNumerically(">", 799))

			m.IgniteStop()
			for i := 0; i < 200; i++ {
				m.Tick()
				Expect(m.RPM()).To(BeNumerically("<", prev))
				Expect(m.RPM()).To(BeNumerically(">=", 60))
				prev = m.RPM()
			}
			Expect(m.RPM()).To(BeNumerically("<", 61))
		})

		It("keeps rpm within [0, max(idle, max)] even with an overshooting smoothing factor", func() {
			cfg.Smoothing = 1.5
			m = NewRevStateMachine(cfg)
			m.IgniteStart()
			for i := 0; i < 50; i++ {
				m.Tick()
				Expect(m.RPM()).To(BeNumerically(">=", 0))
				Expect(m.RPM()).To(BeNumerically("<=", 800))
			}
			m.IgniteStop()
			for i := 0; i < 50; i++ {
				m.Tick()
				Expect(m.RPM()).To(BeNumerically(">=", 0))
				Expect(m.RPM()).To(BeNumerically("<=", 800))
			}
		})
	})

	Describe("EmitsAmbient", func() {
		It("emits while Revving and while coasting above the threshold", func() {
			Expect(m.EmitsAmbient()).To(BeFalse())

			m.IgniteStart()
			Expect(m.EmitsAmbient()).To(BeTrue())

			settle(100)
			m.IgniteStop()
			Expect(m.RPM()).To(BeNumerically(">", cfg.AmbientThreshold))
			Expect(m.EmitsAmbient()).To(BeTrue())

			settle(300)
			Expect(m.EmitsAmbient()).To(BeFalse())
		})
	})
})
