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
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"os"

	"periph.io/x/conn/v3/physic"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-marx/pkg/log"
)

const (
	DefaultBoardClock = "fclk0"
	// relative tolerance used to compare periods coming from different sources
	periodTolerance = 1e-9
)

// Provider is a source of the clock period.
// Period returns ok == false when the source has nothing to say.
type Provider interface {
	Name() string
	Period() (period float64, ok bool, err error)
}

// FrequencyProvider provides the period from a frequency string, e.g. "125MHz".
type FrequencyProvider struct {
	Source    string
	Frequency string
}

var _ Provider = &FrequencyProvider{}

func (p *FrequencyProvider) Name() string {
	return p.Source
}

func (p *FrequencyProvider) Period() (float64, bool, error) {
	if p.Frequency == "" {
		return 0, false, nil
	}
	period, err := PeriodFromFrequency(p.Frequency)
	if err != nil {
		return 0, false, err
	}
	return period, true, nil
}

// BoardClock is a clock description inside a board metadata file.
type BoardClock struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
}

// Board is the board metadata file shipped next to an overlay bitstream.
type Board struct {
	Name   string        `json:"board"`
	Clocks []*BoardClock `json:"clocks"`
}

// BoardProvider reads the period of a named clock from a board metadata file.
// A missing file means the provider is unavailable.
type BoardProvider struct {
	Path  string
	Clock string
}

var _ Provider = &BoardProvider{}

func (p *BoardProvider) Name() string {
	return "board file " + p.Path
}

func (p *BoardProvider) Period() (float64, bool, error) {
	if p.Path == "" {
		return 0, false, nil
	}
	data, err := ioutil.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("Board file %s not found, skipping", p.Path)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	board := &Board{}
	if err := yaml.Unmarshal(data, board); err != nil {
		return 0, false, fmt.Errorf("board file %s: %w", p.Path, err)
	}
	name := p.Clock
	if name == "" {
		name = DefaultBoardClock
	}
	for _, c := range board.Clocks {
		if c.Name == name {
			period, err := PeriodFromFrequency(c.Frequency)
			if err != nil {
				return 0, false, err
			}
			return period, true, nil
		}
	}
	return 0, false, ErrClockNotFound{Path: p.Path, Name: name}
}

// PeriodFromFrequency parses a frequency like "125MHz" and returns its period in seconds.
func PeriodFromFrequency(s string) (float64, error) {
	var f physic.Frequency
	if err := f.Set(s); err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, ErrInvalidPeriod{Period: 0}
	}
	return float64(physic.Hertz) / float64(f), nil
}

// Resolve builds a clock from all available providers.
// Without any available provider the default period is used.
// Providers that disagree are a fatal configuration error.
func Resolve(providers ...Provider) (*Clock, error) {
	var source string
	var period float64
	for _, p := range providers {
		value, ok, err := p.Period()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if source == "" {
			source, period = p.Name(), value
			continue
		}
		if math.Abs(value-period) > periodTolerance*period {
			return nil, ErrConflictingPeriod{
				Source:      source,
				Period:      period,
				OtherSource: p.Name(),
				OtherPeriod: value,
			}
		}
	}
	if source == "" {
		log.Debug("No clock period source available, using default %g s", DefaultPeriod)
		return NewDefault(), nil
	}
	log.Debug("Clock period %g s from %s", period, source)
	return New(period)
}
