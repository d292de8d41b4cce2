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
	"strconv"
)

// IoInit is the content of the io init register: one bit per output giving
// its idle level. Output 0 (1a) is the most significant of NumOutputs bits,
// outputs 0..9 are the pulse outputs 1a..10a, 10..19 the charge outputs 1b..10b.
type IoInit uint32

// IoInitAll returns a mask with every output idle at the same level.
func IoInitAll(high bool) IoInit {
	if high {
		return IoInit(1<<NumOutputs - 1)
	}
	return 0
}

// ParseIoInit parses a string of NumOutputs characters '0' and '1'.
func ParseIoInit(s string) (IoInit, error) {
	if len(s) != NumOutputs {
		return 0, ErrIoInit{Value: s, What: fmt.Sprintf("string length has to be %d, it is now %d", NumOutputs, len(s))}
	}
	v, err := strconv.ParseUint(s, 2, NumOutputs)
	if err != nil {
		return 0, ErrIoInit{Value: s, What: "string should consist of only 1 and 0"}
	}
	return IoInit(v), nil
}

func bit(output int) IoInit {
	return 1 << (NumOutputs - 1 - output)
}

// OutputIndex returns the io init position of a channel output.
func OutputIndex(channel int, sub SubOutput) int {
	if sub == B {
		return NumChannels + channel - 1
	}
	return channel - 1
}

// IdleHigh reports the idle level of an output.
func (m IoInit) IdleHigh(output int) bool {
	return m&bit(output) != 0
}

// SetIdle sets the idle level of an output.
func (m *IoInit) SetIdle(output int, high bool) {
	if high {
		*m |= bit(output)
	} else {
		*m &^= bit(output)
	}
}

// ChargeIdleHigh reports whether all charge outputs idle high.
func (m IoInit) ChargeIdleHigh() bool {
	for i := NumChannels; i < NumOutputs; i++ {
		if !m.IdleHigh(i) {
			return false
		}
	}
	return true
}

func (m IoInit) String() string {
	return fmt.Sprintf("%0*b", NumOutputs, uint32(m))
}
