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
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

func checkNumChannels(n int) error {
	if n > NumChannels {
		return ErrTooManyChannels{Count: n}
	}
	if n < 1 {
		return ErrWrongChannelCount{Count: n}
	}
	return nil
}

func checkDelays(name string, delays []float64, n int) error {
	if len(delays) != n {
		return ErrDelayLength{Name: name, Length: len(delays), Want: n}
	}
	for i, d := range delays {
		if d > 0 {
			return ErrPositiveDelay{Name: name, Channel: i + 1, Delay: d}
		}
	}
	return nil
}

// fill disables the stages from n on.
func fill(channels []Timing) []Timing {
	for len(channels) < NumChannels {
		channels = append(channels, Disabled())
	}
	return channels
}

// Sync fires stages 1..NumChannels together, ending at the end of the period.
func Sync(p *SyncParams) ([]Timing, error) {
	if err := checkNumChannels(p.NumChannels); err != nil {
		return nil, err
	}
	begin, end := p.DelayBegin, p.DelayEnd
	if begin != nil {
		if err := checkDelays("delay_begin", begin, p.NumChannels); err != nil {
			return nil, err
		}
	}
	if end == nil {
		end = begin
	} else if err := checkDelays("delay_end", end, p.NumChannels); err != nil {
		return nil, err
	}

	channels := make([]Timing, 0, NumChannels)
	for i := 0; i < p.NumChannels; i++ {
		start := p.RepRate - p.PulseLength
		stop := p.RepRate
		if begin != nil {
			start += begin[i]
		}
		if end != nil {
			stop += end[i]
		}
		channels = append(channels, Pulse(start, stop))
	}
	return fill(channels), nil
}

// Delta makes a delta shaped wave: the first stage has the shortest window,
// every following one is Change longer on both sides, and all windows share
// the same center so that the last stage ends at the end of the period.
func Delta(p *DeltaParams) ([]Timing, error) {
	if err := checkNumChannels(p.NumChannels); err != nil {
		return nil, err
	}
	channels := make([]Timing, 0, NumChannels)
	n := p.NumChannels
	for i := 0; i < n; i++ {
		j := float64(n - i)
		start := p.RepRate - p.Change*(j-1) - p.ShortestLength - 2*float64(i)*p.Change
		stop := p.RepRate - p.Change*(j-1)
		channels = append(channels, Pulse(start, stop))
	}
	return fill(channels), nil
}

// One fires a single stage at the end of the period.
func One(p *OneParams) ([]Timing, error) {
	// TODO: channel 10 is rejected here although 10 stages exist, confirm with the hardware group
	if !(0 < p.Channel && p.Channel < NumChannels) {
		return nil, reg.ErrChannelRange{Channel: p.Channel}
	}
	channels := make([]Timing, NumChannels)
	for i := range channels {
		if i+1 == p.Channel {
			channels[i] = Pulse(p.RepRate-p.PulseLength, p.RepRate)
		} else {
			channels[i] = Disabled()
		}
	}
	return channels, nil
}

// Sequence fires stages one after another, the last one ending at the end of
// the period.
func Sequence(p *SequenceParams) ([]Timing, error) {
	if err := checkNumChannels(p.NumChannels); err != nil {
		return nil, err
	}
	if p.TimeBetween < 0 {
		return nil, ErrNegativeTimeBetween{TimeBetween: p.TimeBetween}
	}
	channels := make([]Timing, 0, NumChannels)
	n := p.NumChannels
	for i := 0; i < n; i++ {
		j := float64(n - i)
		start := p.RepRate - p.TimeBetween*(j-1) - p.PulseLength*j
		stop := p.RepRate - p.TimeBetween*(j-1) - p.PulseLength*(j-1)
		channels = append(channels, Pulse(start, stop))
	}
	return fill(channels), nil
}

// Synthesize dispatches on the parameter type and returns the channel timings
// together with the repetition rate in seconds.
func Synthesize(params interface{}) ([]Timing, float64, error) {
	var channels []Timing
	var repRate float64
	var err error
	switch p := params.(type) {
	case *SyncParams:
		channels, err = Sync(p)
		repRate = p.RepRate
	case *DeltaParams:
		channels, err = Delta(p)
		repRate = p.RepRate
	case *OneParams:
		channels, err = One(p)
		repRate = p.RepRate
	case *SequenceParams:
		channels, err = Sequence(p)
		repRate = p.RepRate
	default:
		return nil, 0, ErrUnknownMode{Params: params}
	}
	return channels, repRate, err
}
