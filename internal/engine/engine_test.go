package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agromech/cuttersim/internal/dynamics"
	"github.com/agromech/cuttersim/internal/engine"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/torque"
)

var _ = Describe("Run", func() {
	It("produces a uniform grid of the requested length", func() {
		p := params.Defaults()
		res, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Times).To(HaveLen(p.Points))
		Expect(res.Omegas).To(HaveLen(p.Points))
		Expect(res.Times[0]).To(Equal(0.0))
		Expect(res.Times[p.Points-1]).To(Equal(p.Duration))

		dt := p.Duration / float64(p.Points-1)
		for i := 1; i < p.Points; i++ {
			Expect(res.Times[i] - res.Times[i-1]).To(BeNumerically("~", dt, 1e-9))
		}
	})

	It("reports the reference cutter's inertia", func() {
		res, err := engine.Run(params.Defaults())
		Expect(err).NotTo(HaveOccurred())

		Expect(res.PlateInertia).To(BeNumerically("~", 1.08, 1e-12))
		Expect(res.BladeInertia).To(BeNumerically("~", 2*4.5*0.78*0.78, 1e-12))
		Expect(res.Inertia).To(BeNumerically("~", res.PlateInertia+res.BladeInertia, 1e-12))
	})

	It("approaches the analytic steady state from rest", func() {
		// Torque balance: 200 = 0.1 w + 0.01 w² + 27 gives w ≈ 126.6.
		res, err := engine.Run(params.Defaults())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.FinalOmega()).To(BeNumerically(">", 115))
		Expect(res.FinalOmega()).To(BeNumerically("<", 127))
	})

	It("is deterministic across repeated runs", func() {
		p := params.Defaults()
		a, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())
		b, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Evals).To(Equal(b.Evals))
		Expect(a.Accepted).To(Equal(b.Accepted))
		Expect(a.Omegas).To(Equal(b.Omegas))
		Expect(a.Angles).To(Equal(b.Angles))
	})

	It("spins up monotonically when nothing resists", func() {
		p := params.Defaults()
		p.ViscousFriction = 0
		p.DragCoeff = 0
		p.VegDensity = 0

		res, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(res.Omegas); i++ {
			Expect(res.Omegas[i]).To(BeNumerically(">", res.Omegas[i-1]))
		}
		// Constant torque over constant inertia is linear spin-up.
		want := p.InputTorque / res.Inertia * p.Duration
		Expect(res.FinalOmega()).To(BeNumerically("~", want, 1e-6*want))
	})

	It("keeps an undriven head exactly at rest", func() {
		p := params.Defaults()
		res, err := engine.Run(p, engine.WithInputTorque(torque.Spec{Kind: torque.Constant, Base: 0}))
		Expect(err).NotTo(HaveOccurred())
		for i := range res.Omegas {
			Expect(res.Omegas[i]).To(BeZero())
			Expect(res.Angles[i]).To(BeZero())
		}
	})

	It("keeps the per-sample series consistent", func() {
		res, err := engine.Run(params.Defaults())
		Expect(err).NotTo(HaveOccurred())

		for i := range res.Times {
			net := res.InputTorque[i] - res.FrictionTorque[i] - res.DragTorque[i] - res.GrassTorque[i]
			Expect(res.NetTorque[i]).To(BeNumerically("~", net, 1e-9))
			Expect(res.Power[i]).To(BeNumerically("~", res.NetTorque[i]*res.Omegas[i], 1e-6))
			ke := 0.5 * res.Inertia * res.Omegas[i] * res.Omegas[i]
			Expect(res.KineticEnergy[i]).To(BeNumerically("~", ke, 1e-6))
		}
		Expect(res.KineticEnergy[0]).To(BeZero())
	})

	It("records solver diagnostics", func() {
		res, err := engine.Run(params.Defaults())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Evals).To(BeNumerically(">", 0))
		Expect(res.Accepted).To(BeNumerically(">", 0))
		Expect(res.StiffSwitch).To(BeNumerically("<", 0))
		Expect(res.Elapsed).To(BeNumerically(">", 0))
	})

	It("agrees across integration methods", func() {
		p := params.Defaults()
		p.Duration = 2.0

		finals := map[string]float64{}
		for _, m := range []string{"rk45", "rk23", "gbs8", "radau", "auto"} {
			q := p
			q.Method = m
			res, err := engine.Run(q)
			Expect(err).NotTo(HaveOccurred())
			finals[m] = res.FinalOmega()
		}
		ref := finals["rk45"]
		for m, v := range finals {
			Expect(v).To(BeNumerically("~", ref, 1e-4*math.Abs(ref)), "method %s", m)
		}
	})

	It("derives spatial torque position from the machine parameters", func() {
		p := params.Defaults()
		spec := torque.Spec{
			Kind: torque.SigmoidTransition,
			Base: 10, High: 150,
			Center: 15, Width: 1,
		}
		res, err := engine.Run(p, engine.WithGrassTorque(spec))
		Expect(err).NotTo(HaveOccurred())

		// The spec leaves advance velocity unset; at the machine's
		// 3 m/s the 15 m transition falls at t = 5 s, so the run starts
		// on light grass and ends against the full resistance.
		n := len(res.GrassTorque)
		Expect(res.GrassTorque[1]).To(BeNumerically("~", 10, 1))
		Expect(res.GrassTorque[n-1]).To(BeNumerically(">", 140))
	})

	It("applies a spatial grass torque override", func() {
		p := params.Defaults()
		spec := torque.Spec{
			Kind:            torque.SigmoidTransition,
			Base:            10, High: 150,
			Center: 15, Width: 1,
			AdvanceVelocity: p.AdvanceVelocity,
		}
		light, err := engine.Run(p, engine.WithGrassTorque(torque.Spec{Kind: torque.Constant, Base: 10}))
		Expect(err).NotTo(HaveOccurred())
		heavy, err := engine.Run(p, engine.WithGrassTorque(spec))
		Expect(err).NotTo(HaveOccurred())

		// The transition sits at 15 m = 5 s; past it the override head
		// runs noticeably slower.
		Expect(heavy.FinalOmega()).To(BeNumerically("<", light.FinalOmega()))
	})

	Describe("error reporting", func() {
		It("rejects invalid parameters", func() {
			p := params.Defaults()
			p.Radius = -1
			_, err := engine.Run(p)
			Expect(err).To(HaveOccurred())
			var verr *dynamics.ValidationError
			Expect(err).To(BeAssignableToTypeOf(verr))
		})

		It("rejects an unknown method", func() {
			p := params.Defaults()
			p.Method = "dop853"
			_, err := engine.Run(p)
			Expect(err).To(HaveOccurred())
			var cerr *dynamics.ConfigurationError
			Expect(err).To(BeAssignableToTypeOf(cerr))
		})

		It("rejects a malformed torque spec", func() {
			_, err := engine.Run(params.Defaults(),
				engine.WithGrassTorque(torque.Spec{Kind: "meadow"}))
			Expect(err).To(HaveOccurred())
			var cerr *dynamics.ConfigurationError
			Expect(err).To(BeAssignableToTypeOf(cerr))
		})
	})
})
