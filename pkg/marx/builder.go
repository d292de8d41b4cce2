/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/


package marx

import (
	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/pulse"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

const (
	// DeadTimeMin is the minimal separation between charge and pulse, seconds
	DeadTimeMin = 100e-9
)

type Builder struct {
	clock     *clock.Clock
	validator pulse.Validator
}

func NewBuilder(c *clock.Clock) *Builder {
	return &Builder{clock: c}
}

// Clock returns the clock the builder quantizes with.
func (b *Builder) Clock() *clock.Clock {
	return b.clock
}

// Build validates the windows of all stages and assembles the program.
// Nothing is written here, a failed build leaves the hardware untouched.
func (b *Builder) Build(channels []Timing, deadTime, repRate float64) (*Program, error) {
	if len(channels) > NumChannels {
		return nil, ErrTooManyChannels{Count: len(channels)}
	}
	if len(channels) != NumChannels {
		return nil, ErrWrongChannelCount{Count: len(channels)}
	}

	period := b.clock.Period()
	repRateCycles, err := b.clock.SecondsToCycles(repRate)
	if err != nil {
		return nil, err
	}
	if repRateCycles <= 0 {
		return nil, pulse.ErrInvalidRepRate{RepRate: repRateCycles}
	}
	// disabled outputs are written as repRate + DisabledOffset
	if repRateCycles > clock.MaxCycles-pulse.DisabledOffset {
		return nil, clock.ErrOverflow{
			Seconds:    repRate,
			MaxSeconds: b.clock.CyclesToSeconds(clock.MaxCycles - pulse.DisabledOffset),
		}
	}
	if deadTime < DeadTimeMin {
		return nil, ErrDeadTimeTooShort{DeadTime: deadTime, Min: DeadTimeMin}
	}
	deadTimeCycles, err := b.clock.SecondsToCycles(deadTime)
	if err != nil {
		return nil, err
	}

	p := &Program{
		ClockPeriod: period,
		RepRate:     repRateCycles,
		DeadTime:    deadTimeCycles,
		IoInit:      reg.IoInitAll(true),
	}

	first := repRate
	minWidth := repRate
	for i, t := range channels {
		ch := i + 1
		if t.Off || (t.Start > repRate && t.Stop > repRate) {
			p.Channels[i] = pulse.Off()
			// the fiber driver inverts once, so idle is high
			p.IoInit.SetIdle(reg.OutputIndex(ch, reg.A), true)
			continue
		}
		width := t.Stop - t.Start
		if width < minWidth {
			minWidth = width
		}
		if minWidth < period {
			return nil, ErrWidthBelowClockPeriod{Channel: ch, Width: minWidth, Period: period}
		}
		if t.Start < first {
			first = t.Start
		}
		if t.Stop > repRate && t.Start <= repRate {
			return nil, ErrLastValueExceedsRepRate{Channel: ch, Stop: t.Stop, RepRate: repRate}
		}
		if t.Start < repRate/2 {
			return nil, ErrInsufficientChargeTime{Channel: ch, Start: t.Start, RepRate: repRate}
		}
		if t.Stop < t.Start {
			return nil, ErrStartAfterStop{Channel: ch, Start: t.Start, Stop: t.Stop}
		}

		start, err := b.clock.SecondsToCycles(t.Start)
		if err != nil {
			return nil, ErrChannel{Channel: ch, Err: err}
		}
		stop, err := b.clock.SecondsToCycles(t.Stop)
		if err != nil {
			return nil, ErrChannel{Channel: ch, Err: err}
		}
		w := pulse.On(start, stop)
		if err := b.validator.CheckWindow(w, repRateCycles); err != nil {
			return nil, ErrChannel{Channel: ch, Err: err}
		}
		p.Channels[i] = w
		p.IoInit.SetIdle(reg.OutputIndex(ch, reg.A), false)
	}

	firstCycles, err := b.clock.SecondsToCycles(first)
	if err != nil {
		return nil, err
	}
	p.Charge = pulse.On(deadTimeCycles, firstCycles-deadTimeCycles)
	if err := b.validator.CheckWindow(p.Charge, repRateCycles); err != nil {
		return nil, ErrChargeWindow{Start: p.Charge.Start, Stop: p.Charge.Stop, Err: err}
	}

	if !p.IoInit.ChargeIdleHigh() {
		return nil, ErrInternalInvariant{What: "charge init not correct: " + p.IoInit.String()}
	}
	log.Debug("Built program: rep rate %d cycles, dead time %d cycles, io init %s, charge %s",
		p.RepRate, p.DeadTime, p.IoInit, p.Charge)
	return p, nil
}
