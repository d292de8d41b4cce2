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


// Package mem implements an in-memory register backend.
// It is used for dry runs and in tests.
package mem

import (
	"fmt"
	"sync"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

// ErrInjected is returned by a Recorder configured to fail.
type ErrInjected struct {
	Addr  uint32
	Count int
}

func (e ErrInjected) Error() string {
	return fmt.Sprintf("Write #%d to 0x%02x failed", e.Count, e.Addr)
}

// Recorder keeps the register file in memory and logs every write.
type Recorder struct {
	mu     sync.Mutex
	regs   map[uint32]uint32
	writes []deviceifc.Op
	// FailAt makes the n-th write (1-based) fail, 0 never fails
	FailAt int
	count  int
}

var (
	_ deviceifc.BatchWriter = &Recorder{}
	_ deviceifc.RegReader   = &Recorder{}
)

func NewRecorder() *Recorder {
	return &Recorder{
		regs: map[uint32]uint32{},
	}
}

func (r *Recorder) WriteReg(addr uint32, value uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(addr, value)
}

func (r *Recorder) write(addr uint32, value uint32) error {
	if _, err := reg.Index(addr); err != nil {
		return err
	}
	r.count++
	if r.FailAt > 0 && r.count == r.FailAt {
		return ErrInjected{Addr: addr, Count: r.count}
	}
	r.regs[addr] = value
	r.writes = append(r.writes, deviceifc.Op{Addr: addr, Value: value})
	return nil
}

// WriteBatch applies writes in order and stops at the first failure.
func (r *Recorder) WriteBatch(ops []deviceifc.Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		if err := r.write(op.Addr, op.Value); err != nil {
			return err
		}
	}
	return nil
}

// ReadReg returns the last value written to addr, 0 if never written.
func (r *Recorder) ReadReg(addr uint32) (uint32, error) {
	if _, err := reg.Index(addr); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs[addr], nil
}

// Writes returns a copy of the successful writes in issue order.
func (r *Recorder) Writes() []deviceifc.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]deviceifc.Op, len(r.writes))
	copy(out, r.writes)
	return out
}

// Reset forgets the write log, register values are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.count = 0
}
