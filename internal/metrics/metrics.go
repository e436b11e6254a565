// Package metrics accumulates summary statistics over sampled worldline
// events during a traced run.
package metrics

import (
	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/worldline"
)

// Metric observes one entity's event stream over a run.
type Metric interface {
	Name() string
	Observe(e worldline.Event, t float64)
	Value() float64
	Reset()
}

// PeakSpeed tracks the maximum coordinate speed seen.
type PeakSpeed struct {
	max float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(e worldline.Event, t float64) {
	if s := e.Frame.Velocity.Len(); s > p.max {
		p.max = s
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }
func (p *PeakSpeed) Reset()         { p.max = 0 }

// TimeDilation tracks the mean Lorentz factor over the run.
type TimeDilation struct {
	sum     float64
	samples int
}

func NewTimeDilation() *TimeDilation { return &TimeDilation{} }

func (d *TimeDilation) Name() string { return "mean_gamma" }

func (d *TimeDilation) Observe(e worldline.Event, t float64) {
	d.sum += relativity.LorentzFactor(e.Frame.Velocity)
	d.samples++
}

func (d *TimeDilation) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *TimeDilation) Reset() {
	d.sum = 0
	d.samples = 0
}

// ProperLag tracks how far the entity's own clock has fallen behind
// coordinate time since the first observation.
type ProperLag struct {
	baseCoord  float64
	baseProper float64
	set        bool
	lag        float64
}

func NewProperLag() *ProperLag { return &ProperLag{} }

func (p *ProperLag) Name() string { return "proper_lag" }

func (p *ProperLag) Observe(e worldline.Event, t float64) {
	if !p.set {
		p.baseCoord = t
		p.baseProper = e.ProperTime
		p.set = true
	}
	p.lag = (t - p.baseCoord) - (e.ProperTime - p.baseProper)
}

func (p *ProperLag) Value() float64 { return p.lag }

func (p *ProperLag) Reset() {
	p.set = false
	p.lag = 0
}
