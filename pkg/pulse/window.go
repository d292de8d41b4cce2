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


// Package pulse holds output windows in the cycle domain and the checks
// that decide whether a window is enabled, disabled or invalid.
package pulse

import (
	"fmt"

	"jinr.ru/greenlab/go-marx/pkg/clock"
)

// DisabledOffset is added to the repetition rate to get the register value
// of a disabled output. Anything above the repetition rate never fires.
const DisabledOffset = 2

type State int

const (
	Disabled State = iota
	Enabled
)

func (s State) String() string {
	if s == Enabled {
		return "enabled"
	}
	return "disabled"
}

// Window is the start/stop pair of one output relative to the start of a
// repetition period. A disabled window has no meaningful start and stop.
type Window struct {
	Start   clock.Cycles `json:"start"`
	Stop    clock.Cycles `json:"stop"`
	Enabled bool         `json:"enabled"`
}

// On returns an enabled window.
func On(start, stop clock.Cycles) Window {
	return Window{Start: start, Stop: stop, Enabled: true}
}

// Off returns a disabled window.
func Off() Window {
	return Window{}
}

// Registers returns the values to write to the start and stop registers.
// Disabled windows are encoded as repRate + DisabledOffset in both.
func (w Window) Registers(repRate clock.Cycles) (uint32, uint32) {
	if !w.Enabled {
		sentinel := uint32(repRate + DisabledOffset)
		return sentinel, sentinel
	}
	return uint32(w.Start), uint32(w.Stop)
}

func (w Window) String() string {
	if !w.Enabled {
		return "off"
	}
	return fmt.Sprintf("[%d, %d]", w.Start, w.Stop)
}
