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
	"fmt"

	"jinr.ru/greenlab/go-marx/pkg/clock"
)

// ErrInvalidRepRate returned when there is neither an explicit nor a latched repetition rate
type ErrInvalidRepRate struct {
	RepRate clock.Cycles
}

func (e ErrInvalidRepRate) Error() string {
	return fmt.Sprintf("Invalid rep rate: %d cycles", e.RepRate)
}

// ErrStartExceedsPeriod returned when an enabled window starts after the end of the period
type ErrStartExceedsPeriod struct {
	Start   clock.Cycles
	RepRate clock.Cycles
}

func (e ErrStartExceedsPeriod) Error() string {
	return fmt.Sprintf("Start %d is larger than rep rate %d", e.Start, e.RepRate)
}

// ErrStopExceedsPeriod returned when an enabled window stops after the end of the period
type ErrStopExceedsPeriod struct {
	Stop    clock.Cycles
	RepRate clock.Cycles
}

func (e ErrStopExceedsPeriod) Error() string {
	return fmt.Sprintf("Stop %d is larger than rep rate %d", e.Stop, e.RepRate)
}

// ErrStopBeforeStart returned when stop comes before start
type ErrStopBeforeStart struct {
	Start clock.Cycles
	Stop  clock.Cycles
}

func (e ErrStopBeforeStart) Error() string {
	return fmt.Sprintf("Stop %d should be larger than start %d", e.Stop, e.Start)
}

// ErrZeroWidthWindow returned when start and stop are equal
type ErrZeroWidthWindow struct {
	At clock.Cycles
}

func (e ErrZeroWidthWindow) Error() string {
	return fmt.Sprintf("Stop should not be equal to start: both are %d", e.At)
}

// ErrUnexpectedlyDisabled returned when a window tagged enabled carries sentinel values
type ErrUnexpectedlyDisabled struct {
	Window Window
}

func (e ErrUnexpectedlyDisabled) Error() string {
	return fmt.Sprintf("Window [%d, %d] is tagged enabled but lies outside of the period", e.Window.Start, e.Window.Stop)
}
