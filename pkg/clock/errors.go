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


package clock

import (
	"fmt"
)

// ErrInvalidPeriod returned when a clock period is not a positive finite number
type ErrInvalidPeriod struct {
	Period float64
}

func (e ErrInvalidPeriod) Error() string {
	return fmt.Sprintf("Invalid clock period %g s, must be positive", e.Period)
}

// ErrNegativeDuration returned when a negative duration is converted to cycles
type ErrNegativeDuration struct {
	Seconds float64
}

func (e ErrNegativeDuration) Error() string {
	return fmt.Sprintf("Value cannot be negative: %g s", e.Seconds)
}

// ErrOverflow returned when a cycle count does not fit a counter register
type ErrOverflow struct {
	Seconds    float64
	MaxSeconds float64
}

func (e ErrOverflow) Error() string {
	return fmt.Sprintf("Number too large: %g s, maximum length is %g seconds", e.Seconds, e.MaxSeconds)
}

// ErrConflictingPeriod returned when two clock period sources disagree
type ErrConflictingPeriod struct {
	Source      string
	Period      float64
	OtherSource string
	OtherPeriod float64
}

func (e ErrConflictingPeriod) Error() string {
	return fmt.Sprintf("Clock period sources disagree: %s says %g s, %s says %g s",
		e.Source, e.Period, e.OtherSource, e.OtherPeriod)
}

// ErrClockNotFound returned when a board file has no clock with the requested name
type ErrClockNotFound struct {
	Path string
	Name string
}

func (e ErrClockNotFound) Error() string {
	return fmt.Sprintf("Clock %s not found in board file %s", e.Name, e.Path)
}
