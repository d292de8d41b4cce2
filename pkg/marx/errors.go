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
	"fmt"

	"jinr.ru/greenlab/go-marx/pkg/clock"
)

// ErrTooManyChannels returned when more than NumChannels stages are defined
type ErrTooManyChannels struct {
	Count int
}

func (e ErrTooManyChannels) Error() string {
	return fmt.Sprintf("%d channels defined, where %d is max", e.Count, NumChannels)
}

// ErrWrongChannelCount returned when the number of stages is not what is expected
type ErrWrongChannelCount struct {
	Count int
}

func (e ErrWrongChannelCount) Error() string {
	return fmt.Sprintf("%d channels defined, but %d should be defined", e.Count, NumChannels)
}

// ErrDelayLength returned when a delay array does not have an entry per active stage
type ErrDelayLength struct {
	Name   string
	Length int
	Want   int
}

func (e ErrDelayLength) Error() string {
	return fmt.Sprintf("%s has %d entries, %d expected", e.Name, e.Length, e.Want)
}

// ErrPositiveDelay returned when a delay would move a window later than nominal
type ErrPositiveDelay struct {
	Name    string
	Channel int
	Delay   float64
}

func (e ErrPositiveDelay) Error() string {
	return fmt.Sprintf("%s of channel %d is %g s, delays can only be zero or negative", e.Name, e.Channel, e.Delay)
}

// ErrNegativeTimeBetween returned when sequence stages would overlap
type ErrNegativeTimeBetween struct {
	TimeBetween float64
}

func (e ErrNegativeTimeBetween) Error() string {
	return fmt.Sprintf("Time between pulses cannot be negative: %g s", e.TimeBetween)
}

// ErrDeadTimeTooShort returned when the dead time is below the hardware minimum
type ErrDeadTimeTooShort struct {
	DeadTime float64
	Min      float64
}

func (e ErrDeadTimeTooShort) Error() string {
	return fmt.Sprintf("Dead time %g is shorter than minimum of %g", e.DeadTime, e.Min)
}

// ErrWidthBelowClockPeriod returned when a pulse is shorter than one clock period
type ErrWidthBelowClockPeriod struct {
	Channel int
	Width   float64
	Period  float64
}

func (e ErrWidthBelowClockPeriod) Error() string {
	return fmt.Sprintf("Min width of %g is smaller than clock period %g for channel %d", e.Width, e.Period, e.Channel)
}

// ErrLastValueExceedsRepRate returned when a pulse starts inside the period but ends after it
type ErrLastValueExceedsRepRate struct {
	Channel int
	Stop    float64
	RepRate float64
}

func (e ErrLastValueExceedsRepRate) Error() string {
	return fmt.Sprintf("Last value %g of channel %d is larger than rep rate %g", e.Stop, e.Channel, e.RepRate)
}

// ErrInsufficientChargeTime returned when a pulse starts in the first half of the period
type ErrInsufficientChargeTime struct {
	Channel int
	Start   float64
	RepRate float64
}

func (e ErrInsufficientChargeTime) Error() string {
	return fmt.Sprintf("First value %g of channel %d is before half cycle of %g, this gives too little time to charge",
		e.Start, e.Channel, e.RepRate)
}

// ErrStartAfterStop returned when a pulse ends before it starts
type ErrStartAfterStop struct {
	Channel int
	Start   float64
	Stop    float64
}

func (e ErrStartAfterStop) Error() string {
	return fmt.Sprintf("Start %g cannot be after end time %g for channel %d", e.Start, e.Stop, e.Channel)
}

// ErrChannel wraps a cycle domain error of a stage
type ErrChannel struct {
	Channel int
	Err     error
}

func (e ErrChannel) Error() string {
	return fmt.Sprintf("Channel %d: %s", e.Channel, e.Err)
}

func (e ErrChannel) Unwrap() error {
	return e.Err
}

// ErrChargeWindow returned when the dead time leaves no valid charge window
type ErrChargeWindow struct {
	Start clock.Cycles
	Stop  clock.Cycles
	Err   error
}

func (e ErrChargeWindow) Error() string {
	return fmt.Sprintf("Charge window [%d, %d] is invalid: %s", e.Start, e.Stop, e.Err)
}

func (e ErrChargeWindow) Unwrap() error {
	return e.Err
}

// ErrInternalInvariant returned when the builder produced an inconsistent program.
// It means a bug in the synthesis, not a user error.
type ErrInternalInvariant struct {
	What string
}

func (e ErrInternalInvariant) Error() string {
	return fmt.Sprintf("Internal error: %s", e.What)
}

// ErrExport returned when an exported program can not be encoded or replayed
type ErrExport struct {
	What string
}

func (e ErrExport) Error() string {
	return fmt.Sprintf("Program export: %s", e.What)
}

// ErrUnknownMode returned for parameters of an unknown synthesis mode
type ErrUnknownMode struct {
	Params interface{}
}

func (e ErrUnknownMode) Error() string {
	return fmt.Sprintf("Unknown synthesis mode for parameters %T", e.Params)
}
