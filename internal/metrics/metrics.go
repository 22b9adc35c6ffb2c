package metrics

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/agromech/cuttersim/internal/engine"
)

const (
	// DefaultStabilityThreshold flags a run whose angular velocity
	// varies by more than this coefficient of variation over the tail.
	DefaultStabilityThreshold = 0.25

	// DefaultTailFraction is the trailing share of the trajectory the
	// stability indicator inspects.
	DefaultTailFraction = 0.20
)

// Report holds the scalar performance figures derived from one run.
// A pure function output: no reference back to the result.
type Report struct {
	// Energy [J].
	TotalEnergy  float64 `json:"total_energy"`
	UsefulEnergy float64 `json:"useful_energy"`
	LossEnergy   float64 `json:"loss_energy"`
	Efficiency   float64 `json:"efficiency"` // useful/total, 0 when total is 0

	// Power [W].
	AveragePower float64 `json:"average_power"`
	PeakPower    float64 `json:"peak_power"`

	// Cutting performance.
	CutArea     float64 `json:"cut_area"`     // [m²]
	CuttingRate float64 `json:"cutting_rate"` // [m²/s]

	// Stability of omega over the trajectory tail.
	StabilityIndicator float64 `json:"stability_indicator"` // coefficient of variation
	Unstable           bool    `json:"unstable"`

	// Dynamic response.
	SettlingTime float64 `json:"settling_time"` // [s]
	Overshoot    float64 `json:"overshoot"`     // [%] above final omega

	// Dominant frequency of the net torque [Hz], 0 when flat.
	DominantFrequency float64 `json:"dominant_frequency"`

	Statistics Statistics `json:"statistics"`
}

// Statistics are the descriptive figures of the sampled series.
type Statistics struct {
	AngleRange    float64 `json:"angle_range"`    // [rad]
	MaxAbsOmega   float64 `json:"max_abs_omega"`  // [rad/s]
	OmegaRMS      float64 `json:"omega_rms"`      // [rad/s]
	TorqueRMS     float64 `json:"torque_rms"`     // net [N·m]
	MeanPower     float64 `json:"mean_power"`     // [W]
	MaxPower      float64 `json:"max_power"`      // [W]
	FinalKinetic  float64 `json:"final_kinetic"`  // [J]
	FinalOmega    float64 `json:"final_omega"`    // [rad/s]
	FinalAngle    float64 `json:"final_angle"`    // [rad]
}

// Analyzer computes reports from simulation results. The zero value is
// not usable; construct with New.
type Analyzer struct {
	StabilityThreshold float64
	TailFraction       float64
}

func New() *Analyzer {
	return &Analyzer{
		StabilityThreshold: DefaultStabilityThreshold,
		TailFraction:       DefaultTailFraction,
	}
}

// Analyze derives the performance report from a finished run. The
// result is never modified.
func (a *Analyzer) Analyze(res *engine.SimulationResult) Report {
	p := res.Params
	n := len(res.Times)

	totalPower := make([]float64, n)
	usefulPower := make([]float64, n)
	for i := 0; i < n; i++ {
		totalPower[i] = res.InputTorque[i] * res.Omegas[i]
		usefulPower[i] = res.GrassTorque[i] * res.Omegas[i]
	}

	total := integrate.Trapezoidal(res.Times, totalPower)
	useful := integrate.Trapezoidal(res.Times, usefulPower)

	efficiency := 0.0
	if total != 0 {
		efficiency = useful / total
	}

	peak := 0.0
	for _, v := range totalPower {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}

	cv := tailVariation(res.Omegas, a.TailFraction)

	report := Report{
		TotalEnergy:        total,
		UsefulEnergy:       useful,
		LossEnergy:         total - useful,
		Efficiency:         efficiency,
		AveragePower:       total / p.Duration,
		PeakPower:          peak,
		CutArea:            p.AdvanceVelocity * p.CuttingWidth * p.Duration,
		CuttingRate:        p.AdvanceVelocity * p.CuttingWidth,
		StabilityIndicator: cv,
		Unstable:           cv > a.StabilityThreshold,
		SettlingTime:       settlingTime(res.Times, res.Omegas),
		Overshoot:          overshoot(res.Omegas),
		DominantFrequency:  dominantFrequency(res.Times, res.NetTorque),
		Statistics:         statistics(res),
	}
	return report
}

// tailVariation is the coefficient of variation of the series over its
// final fraction. A zero-mean tail with spread reports +Inf rather
// than hiding the instability.
func tailVariation(series []float64, fraction float64) float64 {
	n := len(series)
	start := n - int(float64(n)*fraction)
	if start < 0 {
		start = 0
	}
	if start > n-2 {
		start = n - 2
	}
	tail := series[start:]

	mean := stat.Mean(tail, nil)
	sd := stat.StdDev(tail, nil)
	if math.Abs(mean) == 0 {
		if sd == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return sd / math.Abs(mean)
}

// settlingTime is the last time the velocity leaves a 5% band around
// its final value.
func settlingTime(times, omegas []float64) float64 {
	final := omegas[len(omegas)-1]
	band := 0.05 * math.Abs(final)
	for i := len(omegas) - 1; i >= 0; i-- {
		if math.Abs(omegas[i]-final) > band {
			return times[i]
		}
	}
	return 0
}

// overshoot is the peak velocity excess over the final value, in
// percent of the final value.
func overshoot(omegas []float64) float64 {
	final := omegas[len(omegas)-1]
	if final == 0 {
		return 0
	}
	peak := omegas[0]
	for _, v := range omegas {
		if v > peak {
			peak = v
		}
	}
	if peak <= final {
		return 0
	}
	return (peak - final) / math.Abs(final) * 100
}

// dominantFrequency locates the strongest non-DC bin of the net-torque
// spectrum.
func dominantFrequency(times, series []float64) float64 {
	n := len(series)
	if n < 10 {
		return 0
	}
	duration := times[n-1] - times[0]
	if duration <= 0 {
		return 0
	}
	fs := float64(n-1) / duration

	spectrum := fft.FFTReal(series)
	best, bestIdx := 0.0, 0
	for i := 1; i < n/2; i++ {
		if m := cmplx.Abs(spectrum[i]); m > best {
			best = m
			bestIdx = i
		}
	}
	if bestIdx == 0 {
		return 0
	}
	// Ignore numerically flat spectra: a constant series still shows
	// rounding-level ripple.
	dc := cmplx.Abs(spectrum[0])
	if best < 1e-9*math.Max(dc, 1) {
		return 0
	}
	return float64(bestIdx) * fs / float64(n)
}

func statistics(res *engine.SimulationResult) Statistics {
	minA, maxA := res.Angles[0], res.Angles[0]
	for _, v := range res.Angles {
		if v < minA {
			minA = v
		}
		if v > maxA {
			maxA = v
		}
	}
	maxW, sumW2 := 0.0, 0.0
	for _, v := range res.Omegas {
		if av := math.Abs(v); av > maxW {
			maxW = av
		}
		sumW2 += v * v
	}
	sumT2 := 0.0
	for _, v := range res.NetTorque {
		sumT2 += v * v
	}
	maxP := res.Power[0]
	for _, v := range res.Power {
		if v > maxP {
			maxP = v
		}
	}
	n := float64(len(res.Omegas))
	return Statistics{
		AngleRange:   maxA - minA,
		MaxAbsOmega:  maxW,
		OmegaRMS:     math.Sqrt(sumW2 / n),
		TorqueRMS:    math.Sqrt(sumT2 / n),
		MeanPower:    stat.Mean(res.Power, nil),
		MaxPower:     maxP,
		FinalKinetic: res.KineticEnergy[len(res.KineticEnergy)-1],
		FinalOmega:   res.FinalOmega(),
		FinalAngle:   res.FinalAngle(),
	}
}
