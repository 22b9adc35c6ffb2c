package params

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Hash is a stable FNV-1a digest of every field, used by external
// memoizing layers to key identical runs. Equal sets hash equal; the
// engine itself never consults it.
func (p ParameterSet) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	writeF(p.Radius)
	writeF(p.BladeLenFrac)
	writeF(p.CuttingWidth)
	writeF(p.TotalMass)
	writeF(p.PlateMassFrac)
	writeF(float64(p.BladeCount))
	writeF(p.InputTorque)
	writeF(p.ViscousFriction)
	writeF(p.DragCoeff)
	writeF(p.VegDensity)
	writeF(p.GrassResistance)
	writeF(p.AdvanceVelocity)
	writeF(p.Duration)
	writeF(float64(p.Points))
	writeF(p.RelTol)
	writeF(p.AbsTol)
	writeF(p.MaxStep)
	writeF(p.InitialAngle)
	writeF(p.InitialOmega)
	h.Write([]byte(p.Method))
	return h.Sum64()
}
