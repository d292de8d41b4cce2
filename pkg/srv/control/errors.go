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


package control

import (
	"fmt"
)

// ErrUnknownDevice returned when a device is not configured
type ErrUnknownDevice struct {
	Name string
}

func (e ErrUnknownDevice) Error() string {
	return fmt.Sprintf("Unknown device: %s", e.Name)
}

// ErrUnknownOperation returned when an API request names an unsupported operation
type ErrUnknownOperation struct {
	What string
}

func (e ErrUnknownOperation) Error() string {
	return fmt.Sprintf("Unknown operation: %s", e.What)
}
