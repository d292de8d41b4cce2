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


package mem

import (
	"errors"
	"testing"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	if err := r.WriteBatch([]deviceifc.Op{{Addr: 0xa0, Value: 1}, {Addr: 0xa4, Value: 2}}); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteReg(0xa0, 3); err != nil {
		t.Fatal(err)
	}
	v, err := r.ReadReg(0xa0)
	if err != nil || v != 3 {
		t.Fatalf("ReadReg = %d, %v", v, err)
	}
	if n := len(r.Writes()); n != 3 {
		t.Fatalf("%d writes recorded, want 3", n)
	}
}

func TestRecorderRejectsBadAddress(t *testing.T) {
	r := NewRecorder()
	var rangeErr reg.ErrRegisterRange
	if err := r.WriteReg(42*reg.AddrOffset, 0); !errors.As(err, &rangeErr) {
		t.Fatalf("got %v", err)
	}
	if err := r.WriteReg(3, 0); !errors.As(err, &rangeErr) {
		t.Fatalf("got %v", err)
	}
}

func TestRecorderFailAt(t *testing.T) {
	r := NewRecorder()
	r.FailAt = 2
	err := r.WriteBatch([]deviceifc.Op{{Addr: 0, Value: 1}, {Addr: 4, Value: 2}, {Addr: 8, Value: 3}})
	var injected ErrInjected
	if !errors.As(err, &injected) || injected.Addr != 4 {
		t.Fatalf("got %v", err)
	}
	if n := len(r.Writes()); n != 1 {
		t.Fatalf("%d writes recorded, want 1", n)
	}
}
