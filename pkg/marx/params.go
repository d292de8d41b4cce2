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


// Package marx synthesizes pulse programs for a solid state Marx generator
// driven by the AXI IO peripheral: pulse signals on the "a" outputs and one
// shared charge signal on the "b" outputs of each of the 10 stages.
package marx

import (
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

const NumChannels = reg.NumChannels

// Timing is the pulse window of one stage in seconds relative to the start of
// a repetition period. Off marks a stage that must not fire.
type Timing struct {
	Start float64 `json:"start"`
	Stop  float64 `json:"stop"`
	Off   bool    `json:"off,omitempty"`
}

// Pulse returns an enabled timing.
func Pulse(start, stop float64) Timing {
	return Timing{Start: start, Stop: stop}
}

// Disabled returns a timing for a stage that does not fire.
func Disabled() Timing {
	return Timing{Off: true}
}

// SyncParams configures all stages firing together.
// DelayBegin and DelayEnd shift the start and the stop of each active stage;
// entries must not be positive. DelayEnd defaults to DelayBegin.
type SyncParams struct {
	PulseLength float64   `json:"pulseLength"`
	RepRate     float64   `json:"repRate"`
	NumChannels int       `json:"numChannels"`
	DelayBegin  []float64 `json:"delayBegin,omitempty"`
	DelayEnd    []float64 `json:"delayEnd,omitempty"`
}

func NewSyncParams(pulseLength, repRate float64) *SyncParams {
	return &SyncParams{
		PulseLength: pulseLength,
		RepRate:     repRate,
		NumChannels: NumChannels,
	}
}

// DeltaParams configures the delta shaped wave. Change is the step by which
// the window of each following stage grows on both sides.
type DeltaParams struct {
	ShortestLength float64 `json:"shortestLength"`
	RepRate        float64 `json:"repRate"`
	NumChannels    int     `json:"numChannels"`
	Change         float64 `json:"change"`
}

func NewDeltaParams(shortestLength, repRate float64) *DeltaParams {
	return &DeltaParams{
		ShortestLength: shortestLength,
		RepRate:        repRate,
		NumChannels:    NumChannels,
		Change:         shortestLength / 2,
	}
}

// OneParams configures a single firing stage, Channel is 1-based.
type OneParams struct {
	PulseLength float64 `json:"pulseLength"`
	RepRate     float64 `json:"repRate"`
	Channel     int     `json:"channel"`
}

func NewOneParams(pulseLength, repRate float64, channel int) *OneParams {
	return &OneParams{
		PulseLength: pulseLength,
		RepRate:     repRate,
		Channel:     channel,
	}
}

// SequenceParams configures stages firing one after another, TimeBetween
// apart, the last stage ending at the end of the period.
type SequenceParams struct {
	PulseLength float64 `json:"pulseLength"`
	RepRate     float64 `json:"repRate"`
	NumChannels int     `json:"numChannels"`
	TimeBetween float64 `json:"timeBetween"`
}

func NewSequenceParams(pulseLength, repRate float64) *SequenceParams {
	return &SequenceParams{
		PulseLength: pulseLength,
		RepRate:     repRate,
		NumChannels: NumChannels,
		TimeBetween: pulseLength,
	}
}
