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


package pulse

import (
	"jinr.ru/greenlab/go-marx/pkg/clock"
)

// Validator checks output windows against a repetition rate.
// RepRate is the last programmed repetition rate, it is used when a check
// is called without one. Zero means nothing was programmed yet.
type Validator struct {
	RepRate clock.Cycles
}

// Check validates a start/stop pair against repRate, or against the latched
// repetition rate if repRate <= 0.
//
// Both values above the repetition rate (or both negative) mean the output is
// intentionally off; this is reported as Disabled, not as an error, and takes
// precedence over the ordering checks.
func (v Validator) Check(start, stop, repRate clock.Cycles) (State, error) {
	if repRate <= 0 {
		if v.RepRate <= 0 {
			return Disabled, ErrInvalidRepRate{RepRate: repRate}
		}
		repRate = v.RepRate
	}
	if (stop > repRate && start > repRate) || (stop < 0 && start < 0) {
		return Disabled, nil
	}
	if start > repRate {
		return Disabled, ErrStartExceedsPeriod{Start: start, RepRate: repRate}
	}
	if stop > repRate {
		return Disabled, ErrStopExceedsPeriod{Stop: stop, RepRate: repRate}
	}
	if stop < start {
		return Disabled, ErrStopBeforeStart{Start: start, Stop: stop}
	}
	if stop == start {
		return Disabled, ErrZeroWidthWindow{At: start}
	}
	return Enabled, nil
}

// CheckWindow validates an already tagged window. Disabled windows pass.
func (v Validator) CheckWindow(w Window, repRate clock.Cycles) error {
	if !w.Enabled {
		return nil
	}
	state, err := v.Check(w.Start, w.Stop, repRate)
	if err != nil {
		return err
	}
	if state != Enabled {
		return ErrUnexpectedlyDisabled{Window: w}
	}
	return nil
}

// Check validates a start/stop pair without a latched repetition rate.
func Check(start, stop, repRate clock.Cycles) (State, error) {
	return Validator{}.Check(start, stop, repRate)
}
