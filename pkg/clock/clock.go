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


// Package clock converts between seconds and cycles of the fixed-period
// clock that drives the AXI IO peripheral counters.
package clock

import (
	"math"
)

const (
	// DefaultPeriod is the period of the PL clock of the PYNQ overlay, seconds
	DefaultPeriod = 8e-9
	// RegisterBits is the width of every counter register of the peripheral
	RegisterBits = 32
	// MaxCycles is the largest count a counter register can hold
	MaxCycles Cycles = 1<<RegisterBits - 1
)

// Cycles is a time quantized to clock cycles.
// It is signed so that window values computed before validation can be
// represented; anything written to a register is in [0, MaxCycles].
type Cycles int64

// Fits reports whether the count can be written to a counter register.
func (c Cycles) Fits() bool {
	return c >= 0 && c <= MaxCycles
}

// Clock is an immutable clock model.
type Clock struct {
	period float64
}

// New returns a clock with the given period in seconds.
func New(period float64) (*Clock, error) {
	if math.IsNaN(period) || math.IsInf(period, 0) || period <= 0 {
		return nil, ErrInvalidPeriod{Period: period}
	}
	return &Clock{period: period}, nil
}

// NewDefault returns a clock with DefaultPeriod.
func NewDefault() *Clock {
	return &Clock{period: DefaultPeriod}
}

// Period returns the clock period in seconds.
func (c *Clock) Period() float64 {
	return c.period
}

// Frequency returns the clock frequency in Hz.
func (c *Clock) Frequency() float64 {
	return 1 / c.period
}

// MaxSeconds is the longest duration representable by a counter register.
func (c *Clock) MaxSeconds() float64 {
	return c.CyclesToSeconds(MaxCycles)
}

// SecondsToCycles quantizes a duration to the nearest number of cycles,
// ties to even.
func (c *Clock) SecondsToCycles(seconds float64) (Cycles, error) {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0, ErrNegativeDuration{Seconds: seconds}
	}
	if seconds > c.MaxSeconds() {
		return 0, ErrOverflow{Seconds: seconds, MaxSeconds: c.MaxSeconds()}
	}
	cycles := math.RoundToEven(seconds / c.period)
	if cycles > float64(MaxCycles) {
		return 0, ErrOverflow{Seconds: seconds, MaxSeconds: c.MaxSeconds()}
	}
	return Cycles(cycles), nil
}

// CyclesToSeconds converts a cycle count back to seconds.
func (c *Clock) CyclesToSeconds(cycles Cycles) float64 {
	return float64(cycles) * c.period
}
