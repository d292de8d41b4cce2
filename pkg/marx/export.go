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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-marx/pkg/reg"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Export is the replayable form of a program: the ordered register writes
// plus enough context to check them before replay.
type Export struct {
	ClockPeriod float64     `json:"clockPeriod" cbor:"1,keyasint"`
	IoInit      string      `json:"ioInit" cbor:"2,keyasint"`
	RepRate     uint32      `json:"repRate" cbor:"3,keyasint"`
	Writes      []reg.Write `json:"writes" cbor:"4,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", ErrExport{What: fmt.Sprintf("unknown format %q, must be one of yaml, cbor", s)}
}

// FormatFromPath guesses the format from a file extension, YAML by default.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".cbor" {
		return FormatCBOR
	}
	return FormatYAML
}

// Export returns the replayable form of the program.
func (p *Program) Export() *Export {
	return &Export{
		ClockPeriod: p.ClockPeriod,
		IoInit:      p.IoInit.String(),
		RepRate:     uint32(p.RepRate),
		Writes:      p.Writes(),
	}
}

// Encode serializes the replayable form of the program.
func Encode(p *Program, f Format) ([]byte, error) {
	e := p.Export()
	switch f {
	case FormatCBOR:
		return encMode.Marshal(e)
	case FormatYAML:
		return yaml.Marshal(e)
	}
	return nil, ErrExport{What: fmt.Sprintf("unknown format %q", f)}
}

// Decode parses and checks an exported program.
func Decode(data []byte, f Format) (*Export, error) {
	e := &Export{}
	var err error
	switch f {
	case FormatCBOR:
		err = cbor.Unmarshal(data, e)
	case FormatYAML:
		err = yaml.Unmarshal(data, e)
	default:
		return nil, ErrExport{What: fmt.Sprintf("unknown format %q", f)}
	}
	if err != nil {
		return nil, err
	}
	if err := e.Check(); err != nil {
		return nil, err
	}
	return e, nil
}

// Check verifies that the writes address existing registers and agree with
// the io init and repetition rate the export declares.
func (e *Export) Check() error {
	ioInit, err := reg.ParseIoInit(e.IoInit)
	if err != nil {
		return err
	}
	if !ioInit.ChargeIdleHigh() {
		return ErrExport{What: "charge outputs must idle high: " + e.IoInit}
	}
	var seenIoInit, seenRepRate bool
	for _, w := range e.Writes {
		if _, err := reg.Address(w.Index); err != nil {
			return err
		}
		switch w.Index {
		case reg.RegIoInit:
			if w.Value != uint32(ioInit) {
				return ErrExport{What: fmt.Sprintf("io init write 0x%x does not match %s", w.Value, e.IoInit)}
			}
			seenIoInit = true
		case reg.RegRepRate:
			if w.Value != e.RepRate {
				return ErrExport{What: fmt.Sprintf("rep rate write %d does not match %d", w.Value, e.RepRate)}
			}
			seenRepRate = true
		}
	}
	if !seenIoInit || !seenRepRate {
		return ErrExport{What: "io init and rep rate writes are required"}
	}
	return nil
}
