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


package mmio

import "fmt"

const (
	DefaultPath = "/dev/mem"
	DefaultBase = 0x43c00000
	DefaultSize = 0x10000
)

type ErrMapping struct {
	Path string
	What string
}

func (e ErrMapping) Error() string {
	return fmt.Sprintf("Register mapping %s: %s", e.Path, e.What)
}
