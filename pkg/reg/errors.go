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


package reg

import (
	"fmt"
)

// ErrRegisterRange returned when a register index is outside of the register file
type ErrRegisterRange struct {
	Index int
	Addr  uint32
}

func (e ErrRegisterRange) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("Address 0x%x is not aligned to a register", e.Addr)
	}
	return fmt.Sprintf("Register %d is not available, maximum reg number is %d", e.Index, RegMaxIndex)
}

// ErrChannelRange returned when a channel number is outside of 1..NumChannels
type ErrChannelRange struct {
	Channel int
}

func (e ErrChannelRange) Error() string {
	return fmt.Sprintf("Incorrect channel number %d, must be 1..%d", e.Channel, NumChannels)
}

// ErrOutputName returned when an output name can not be parsed
type ErrOutputName struct {
	Name string
}

func (e ErrOutputName) Error() string {
	return fmt.Sprintf("Wrong output name %q, must be like 1a or 10b", e.Name)
}

// ErrIoInit returned when an io init string is malformed
type ErrIoInit struct {
	Value string
	What  string
}

func (e ErrIoInit) Error() string {
	return fmt.Sprintf("Wrong io init %q: %s", e.Value, e.What)
}
