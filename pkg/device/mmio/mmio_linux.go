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


//go:build linux

// Package mmio writes registers of the AXI IO peripheral through a memory
// mapping of its register window, usually /dev/mem on the Zynq PS.
package mmio

import (
	"os"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

type Mapping struct {
	mu   sync.Mutex
	path string
	mem  []byte
}

var (
	_ deviceifc.BatchWriter = &Mapping{}
	_ deviceifc.RegReader   = &Mapping{}
)

// Open maps size bytes of path starting at base.
// base must be page aligned.
func Open(path string, base int64, size int) (*Mapping, error) {
	if size < (reg.RegMaxIndex+1)*reg.AddrOffset {
		return nil, ErrMapping{Path: path, What: "window smaller than the register file"}
	}
	if base%int64(os.Getpagesize()) != 0 {
		return nil, ErrMapping{Path: path, What: "base address is not page aligned"}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	// the mapping stays valid after the file is closed
	defer f.Close()
	mem, err := unix.Mmap(int(f.Fd()), base, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	log.Debug("Mapped %d bytes of %s at 0x%x", size, path, base)
	return &Mapping{path: path, mem: mem}, nil
}

func (m *Mapping) word(addr uint32) (*uint32, error) {
	if _, err := reg.Index(addr); err != nil {
		return nil, err
	}
	if m.mem == nil {
		return nil, ErrMapping{Path: m.path, What: "closed"}
	}
	return (*uint32)(unsafe.Pointer(&m.mem[addr])), nil
}

func (m *Mapping) WriteReg(addr uint32, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(addr)
	if err != nil {
		return err
	}
	atomic.StoreUint32(w, value)
	return nil
}

func (m *Mapping) WriteBatch(ops []deviceifc.Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range ops {
		w, err := m.word(op.Addr)
		if err != nil {
			return err
		}
		atomic.StoreUint32(w, op.Value)
	}
	return nil
}

func (m *Mapping) ReadReg(addr uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(addr)
	if err != nil {
		return 0, err
	}
	return atomic.LoadUint32(w), nil
}

func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	return err
}
