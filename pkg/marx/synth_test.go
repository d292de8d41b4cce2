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
	"errors"
	"math"
	"testing"

	"jinr.ru/greenlab/go-marx/pkg/reg"
)

const eps = 1e-15

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestSync(t *testing.T) {
	channels, err := Sync(NewSyncParams(1e-6, 2e-6))
	if err != nil {
		t.Fatal(err)
	}
	if len(channels) != NumChannels {
		t.Fatalf("got %d channels", len(channels))
	}
	for i, c := range channels {
		if c.Off || !closeTo(c.Start, 1e-6) || !closeTo(c.Stop, 2e-6) {
			t.Errorf("channel %d = %+v, want [1us, 2us]", i+1, c)
		}
	}
}

func TestSyncPartialAndDelays(t *testing.T) {
	p := NewSyncParams(1e-6, 2e-6)
	p.NumChannels = 3
	p.DelayBegin = []float64{0, -10e-9, -20e-9}
	channels, err := Sync(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		d := p.DelayBegin[i]
		if !closeTo(channels[i].Start, 1e-6+d) || !closeTo(channels[i].Stop, 2e-6+d) {
			t.Errorf("channel %d = %+v", i+1, channels[i])
		}
	}
	for i := 3; i < NumChannels; i++ {
		if !channels[i].Off {
			t.Errorf("channel %d must be disabled", i+1)
		}
	}

	p.DelayEnd = []float64{0, 0, 0}
	channels, err = Sync(p)
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(channels[2].Stop, 2e-6) {
		t.Errorf("explicit delay end ignored: %+v", channels[2])
	}
}

func TestSyncInvalid(t *testing.T) {
	p := NewSyncParams(1e-6, 2e-6)
	p.NumChannels = 11
	var tooMany ErrTooManyChannels
	if _, err := Sync(p); !errors.As(err, &tooMany) {
		t.Errorf("expected ErrTooManyChannels, got %v", err)
	}

	p = NewSyncParams(1e-6, 2e-6)
	p.DelayBegin = []float64{0, 0}
	var length ErrDelayLength
	if _, err := Sync(p); !errors.As(err, &length) {
		t.Errorf("expected ErrDelayLength, got %v", err)
	}

	p = NewSyncParams(1e-6, 2e-6)
	p.NumChannels = 2
	p.DelayBegin = []float64{0, 0}
	p.DelayEnd = []float64{0, 1e-9}
	var positive ErrPositiveDelay
	if _, err := Sync(p); !errors.As(err, &positive) {
		t.Fatalf("expected ErrPositiveDelay, got %v", err)
	}
	if positive.Channel != 2 || positive.Name != "delay_end" {
		t.Errorf("wrong delay reported: %+v", positive)
	}
}

func TestDelta(t *testing.T) {
	channels, err := Delta(NewDeltaParams(100e-9, 4e-6))
	if err != nil {
		t.Fatal(err)
	}
	first, last := channels[0], channels[NumChannels-1]
	if math.Abs(first.Start-3.45e-6) > 1e-14 || math.Abs(first.Stop-3.55e-6) > 1e-14 {
		t.Errorf("first stage = %+v, want [3.45us, 3.55us]", first)
	}
	if math.Abs(last.Start-3e-6) > 1e-14 || math.Abs(last.Stop-4e-6) > 1e-14 {
		t.Errorf("last stage = %+v, want [3us, 4us]", last)
	}
	for i := 1; i < NumChannels; i++ {
		prev, cur := channels[i-1], channels[i]
		if cur.Start >= prev.Start || cur.Stop <= prev.Stop {
			t.Errorf("stage %d does not enclose stage %d", i+1, i)
		}
	}
}

func TestDeltaPartial(t *testing.T) {
	p := NewDeltaParams(100e-9, 4e-6)
	p.NumChannels = 4
	channels, err := Delta(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 4; i < NumChannels; i++ {
		if !channels[i].Off {
			t.Errorf("channel %d must be disabled", i+1)
		}
	}
}

func TestOne(t *testing.T) {
	channels, err := One(NewOneParams(500e-9, 1e-6, 3))
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range channels {
		if i == 2 {
			if c.Off || !closeTo(c.Start, 500e-9) || !closeTo(c.Stop, 1e-6) {
				t.Errorf("channel 3 = %+v", c)
			}
			continue
		}
		if !c.Off {
			t.Errorf("channel %d must be disabled", i+1)
		}
	}
	for _, ch := range []int{0, 10, 11} {
		var rangeErr reg.ErrChannelRange
		if _, err := One(NewOneParams(500e-9, 1e-6, ch)); !errors.As(err, &rangeErr) {
			t.Errorf("channel %d: expected ErrChannelRange, got %v", ch, err)
		}
	}
}

func TestSequence(t *testing.T) {
	p := NewSequenceParams(100e-9, 2e-6)
	p.NumChannels = 4
	channels, err := Sequence(p)
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]float64{{1.3e-6, 1.4e-6}, {1.5e-6, 1.6e-6}, {1.7e-6, 1.8e-6}, {1.9e-6, 2e-6}}
	for i, w := range want {
		if math.Abs(channels[i].Start-w[0]) > 1e-14 || math.Abs(channels[i].Stop-w[1]) > 1e-14 {
			t.Errorf("channel %d = %+v, want %v", i+1, channels[i], w)
		}
	}

	p.TimeBetween = 0
	channels, err = Sequence(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 4; i++ {
		if math.Abs(channels[i].Start-channels[i-1].Stop) > 1e-14 {
			t.Errorf("back to back stages %d and %d have a gap", i, i+1)
		}
	}

	p.TimeBetween = -1e-9
	var negative ErrNegativeTimeBetween
	if _, err := Sequence(p); !errors.As(err, &negative) {
		t.Errorf("expected ErrNegativeTimeBetween, got %v", err)
	}
}

func TestSynthesize(t *testing.T) {
	for _, params := range []interface{}{
		NewSyncParams(1e-6, 2e-6),
		NewDeltaParams(100e-9, 4e-6),
		NewOneParams(500e-9, 1e-6, 3),
		NewSequenceParams(100e-9, 5e-6),
	} {
		channels, repRate, err := Synthesize(params)
		if err != nil {
			t.Fatalf("%T: %s", params, err)
		}
		if len(channels) != NumChannels || repRate <= 0 {
			t.Errorf("%T: %d channels, rep rate %g", params, len(channels), repRate)
		}
	}
	var unknown ErrUnknownMode
	if _, _, err := Synthesize(SyncParams{}); !errors.As(err, &unknown) {
		t.Errorf("got %v", err)
	}
}
