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


package device

import (
	"fmt"

	"jinr.ru/greenlab/go-marx/pkg/clock"
)

// ErrOutput wraps a validation error of a single output
type ErrOutput struct {
	Output string
	Err    error
}

func (e ErrOutput) Error() string {
	return fmt.Sprintf("Output %s: %s", e.Output, e.Err)
}

func (e ErrOutput) Unwrap() error {
	return e.Err
}

// ErrRegisterValue returned when a value does not fit a 32 bit register
type ErrRegisterValue struct {
	Output string
	Value  clock.Cycles
}

func (e ErrRegisterValue) Error() string {
	return fmt.Sprintf("Value %d of output %s does not fit a register", e.Value, e.Output)
}
