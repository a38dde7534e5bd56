package hooks_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/params"
)

var _ = Describe("Registry defaults", func() {
	var (
		reg *hooks.Registry
		ctx *hooks.Context
	)

	BeforeEach(func() {
		reg = hooks.NewRegistry()
		ctx = &hooks.Context{
			T:       0.42,
			Tstep:   7,
			SysComp: []string{"u0", "u1", "p"},
			UComp:   []string{"u0", "u1"},
			Params:  params.Defaults(),
		}
	})

	It("treats every unset hook as a no-op", func() {
		for name, fn := range map[string]hooks.Func{
			"Initialize":        reg.Initialize,
			"StartTimestep":     reg.StartTimestep,
			"TentativeVelocity": reg.TentativeVelocity,
			"Pressure":          reg.Pressure,
			"Scalar":            reg.Scalar,
			"Temporal":          reg.Temporal,
			"AtEnd":             reg.AtEnd,
		} {
			up, err := fn(ctx)
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(up).To(BeEmpty(), name)
		}
	})

	It("does not mutate caller state from default hooks", func() {
		before := len(ctx.Params)
		_, err := reg.StartTimestep(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.Extra).To(BeNil())
		Expect(ctx.Params).To(HaveLen(before))
		Expect(ctx.T).To(Equal(0.42))
		Expect(ctx.Tstep).To(Equal(7))
	})

	It("returns an empty mapping from the default PreSolve", func() {
		up, err := reg.PreSolve(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(up).NotTo(BeNil())
		Expect(up).To(BeEmpty())
	})

	It("maps every unknown to an empty constraint list", func() {
		table, err := reg.CreateBCs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(table).To(HaveLen(3))
		for _, ui := range ctx.SysComp {
			Expect(table).To(HaveKey(ui))
			Expect(table[ui]).To(BeEmpty())
		}
	})

	It("supplies zero body force per velocity component", func() {
		f := reg.BodyForce(ctx)
		Expect(f).To(Equal([]float64{0, 0}))
	})

	It("supplies a zero source per scalar component", func() {
		ctx.Params = params.Merge(ctx.Params, params.Set{
			"scalar_components": []string{"alfa"},
		})
		src := reg.ScalarSources(ctx)
		Expect(src).To(HaveKeyWithValue("alfa", 0.0))
	})

	It("builds the default mesh from resolution parameters", func() {
		p := params.Merge(params.Defaults(), params.Set{"Nx": 4, "Ny": 3})
		m, err := reg.Mesh(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.NumCells()).To(Equal(2 * 4 * 3))
	})
})

var _ = Describe("Context updates", func() {
	It("deep-merges hook updates into the shared namespace", func() {
		ctx := &hooks.Context{}
		ctx.Apply(hooks.Updates{"probe": params.Set{"x": 0.5, "y": 0.5}})
		ctx.Apply(hooks.Updates{"probe": params.Set{"y": 1.0}})

		probe := ctx.Extra.Sub("probe")
		Expect(probe).NotTo(BeNil())

		x, _ := probe.Float("x")
		y, _ := probe.Float("y")
		Expect(x).To(Equal(0.5), "sibling key must survive a partial update")
		Expect(y).To(Equal(1.0))
	})

	It("ignores nil and empty updates", func() {
		ctx := &hooks.Context{}
		ctx.Apply(nil)
		ctx.Apply(hooks.Updates{})
		Expect(ctx.Extra).To(BeNil())
	})
})
