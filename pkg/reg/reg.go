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


// Package reg maps the logical registers of the AXI IO peripheral to
// register indices and bus addresses.
package reg

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// 0..39 are start/stop pairs of 10 channels x 2 outputs
	RegIoInit  = 40
	RegRepRate = 41
	// RegMaxIndex is the highest register number of the peripheral
	RegMaxIndex = 41

	AddrOffset = 4

	NumChannels = 10
	NumOutputs  = 2 * NumChannels
)

// SubOutput selects one of the two outputs of a channel.
type SubOutput int

const (
	// A is the pulse output
	A SubOutput = iota
	// B is the charge output
	B
)

func (s SubOutput) String() string {
	if s == B {
		return "b"
	}
	return "a"
}

// Field selects the start or the stop register of an output.
type Field int

const (
	Start Field = iota
	Stop
)

// Write is a single register write: register index and the value to put there.
type Write struct {
	Index int    `json:"index"`
	Value uint32 `json:"value"`
}

// Address is the bus address of the register.
func (w Write) Address() (uint32, error) {
	return Address(w.Index)
}

// Hex returns address and value as hexadecimal strings.
func (w Write) Hex() (string, string) {
	return fmt.Sprintf("0x%02x", w.Index), fmt.Sprintf("0x%08x", w.Value)
}

// ChannelReg returns the register index of a start or stop field
// of a channel output, channel is 1-based.
func ChannelReg(channel int, sub SubOutput, field Field) (int, error) {
	if channel < 1 || channel > NumChannels {
		return 0, ErrChannelRange{Channel: channel}
	}
	index := 4 * (channel - 1)
	if sub == B {
		index += 2
	}
	if field == Stop {
		index++
	}
	return index, nil
}

// Address converts a register index to the bus address.
func Address(index int) (uint32, error) {
	if index < 0 || index > RegMaxIndex {
		return 0, ErrRegisterRange{Index: index}
	}
	return uint32(index * AddrOffset), nil
}

// Index converts a bus address back to a register index.
func Index(addr uint32) (int, error) {
	if addr%AddrOffset != 0 {
		return 0, ErrRegisterRange{Index: -1, Addr: addr}
	}
	index := int(addr / AddrOffset)
	if index > RegMaxIndex {
		return 0, ErrRegisterRange{Index: index, Addr: addr}
	}
	return index, nil
}

// OutputName returns the name of an output, e.g. "3a".
func OutputName(channel int, sub SubOutput) string {
	return fmt.Sprintf("%d%s", channel, sub)
}

// ParseOutput parses output names like "1a" or "10b".
func ParseOutput(name string) (int, SubOutput, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return 0, A, ErrOutputName{Name: name}
	}
	var sub SubOutput
	switch name[len(name)-1] {
	case 'a':
		sub = A
	case 'b':
		sub = B
	default:
		return 0, A, ErrOutputName{Name: name}
	}
	channel, err := strconv.Atoi(name[:len(name)-1])
	if err != nil {
		return 0, A, ErrOutputName{Name: name}
	}
	if channel < 1 || channel > NumChannels {
		return 0, A, ErrChannelRange{Channel: channel}
	}
	return channel, sub, nil
}
