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


//go:build !linux

package mmio

import (
	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
)

type Mapping struct{}

func Open(path string, base int64, size int) (*Mapping, error) {
	return nil, ErrMapping{Path: path, What: "memory mapped registers are only supported on linux"}
}

func (m *Mapping) WriteReg(addr uint32, value uint32) error {
	return ErrMapping{What: "unsupported"}
}

func (m *Mapping) WriteBatch(ops []deviceifc.Op) error {
	return ErrMapping{What: "unsupported"}
}

func (m *Mapping) ReadReg(addr uint32) (uint32, error) {
	return 0, ErrMapping{What: "unsupported"}
}

func (m *Mapping) Close() error {
	return nil
}
