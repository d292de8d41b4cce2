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

package mmio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

// A regular file stands in for /dev/mem.
func openTemp(t *testing.T, size int) *Mapping {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(path, make([]byte, size), 0600); err != nil {
		t.Fatal(err)
	}
	m, err := Open(path, 0, size)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMapping(t *testing.T) {
	m := openTemp(t, os.Getpagesize())
	if err := m.WriteBatch([]deviceifc.Op{{Addr: 0xa0, Value: 0x3ff}, {Addr: 0xa4, Value: 250}}); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteReg(0, 125); err != nil {
		t.Fatal(err)
	}
	for addr, want := range map[uint32]uint32{0: 125, 0xa0: 0x3ff, 0xa4: 250, 4: 0} {
		if v, err := m.ReadReg(addr); err != nil || v != want {
			t.Errorf("0x%02x = %d, %v, want %d", addr, v, err, want)
		}
	}
	var rangeErr reg.ErrRegisterRange
	if err := m.WriteReg(0xa8, 1); !errors.As(err, &rangeErr) {
		t.Errorf("got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	var mapErr ErrMapping
	if err := m.WriteReg(0, 1); !errors.As(err, &mapErr) {
		t.Errorf("write after close: got %v", err)
	}
}

func TestOpenChecks(t *testing.T) {
	var mapErr ErrMapping
	if _, err := Open("/nonexistent", 0, 16); !errors.As(err, &mapErr) {
		t.Errorf("small window: got %v", err)
	}
	if _, err := Open("/nonexistent", 1, DefaultSize); !errors.As(err, &mapErr) {
		t.Errorf("unaligned base: got %v", err)
	}
}
