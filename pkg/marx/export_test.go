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


package marx

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

func buildSync(t *testing.T) *Program {
	t.Helper()
	channels, err := Sync(NewSyncParams(1e-6, 2e-6))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewBuilder(clock.NewDefault()).Build(channels, 150e-9, 2e-6)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExport(t *testing.T) {
	p := buildSync(t)
	for _, f := range []Format{FormatYAML, FormatCBOR} {
		data, err := Encode(p, f)
		if err != nil {
			t.Fatalf("%s: %s", f, err)
		}
		e, err := Decode(data, f)
		if err != nil {
			t.Fatalf("%s: %s", f, err)
		}
		if !reflect.DeepEqual(e.Writes, p.Writes()) {
			t.Errorf("%s: writes differ after decoding", f)
		}
		if e.IoInit != p.IoInit.String() || e.RepRate != 250 {
			t.Errorf("%s: header = %s %d", f, e.IoInit, e.RepRate)
		}
	}
}

func TestExportCheck(t *testing.T) {
	e := buildSync(t).Export()
	e.Writes[1].Value = 251
	var exportErr ErrExport
	if err := e.Check(); !errors.As(err, &exportErr) {
		t.Errorf("expected ErrExport for mismatching rep rate, got %v", err)
	}

	e = buildSync(t).Export()
	e.Writes = append(e.Writes, reg.Write{Index: 42})
	var rangeErr reg.ErrRegisterRange
	if err := e.Check(); !errors.As(err, &rangeErr) {
		t.Errorf("expected ErrRegisterRange, got %v", err)
	}

	e = buildSync(t).Export()
	e.IoInit = "00000000000000000000"
	if err := e.Check(); !errors.As(err, &exportErr) {
		t.Errorf("expected ErrExport for charge init, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	if FormatFromPath("prog.CBOR") != FormatCBOR || FormatFromPath("prog.yaml") != FormatYAML {
		t.Error("wrong format from path")
	}
	if f, err := ParseFormat("yml"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yml) = %s, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestPrint(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := buildSync(t).Print(buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"Channel_1a", "Channel_10a", "Charge", "00000000001111111111"} {
		if !bytes.Contains([]byte(out), []byte(s)) {
			t.Errorf("summary lacks %q:\n%s", s, out)
		}
	}
}
