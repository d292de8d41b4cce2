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


package ifc

import (
	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/marx"
	"jinr.ru/greenlab/go-marx/pkg/pulse"
)

// RegWriter is the register write primitive of the AXI IO peripheral.
// addr is the bus address of the register, i.e. index * reg.AddrOffset.
type RegWriter interface {
	WriteReg(addr uint32, value uint32) error
}

// RegReader is implemented by backends that can read registers back.
type RegReader interface {
	ReadReg(addr uint32) (uint32, error)
}

// Op is one register write of a batch.
type Op struct {
	Addr  uint32
	Value uint32
}

// BatchWriter is implemented by backends that can issue many writes at once.
// Writes of a batch are applied in order.
type BatchWriter interface {
	RegWriter
	WriteBatch(ops []Op) error
}

// Device is the controlling object of one peripheral.
type Device interface {
	GetName() string
	Clock() *clock.Clock
	RepRate() clock.Cycles

	WriteReg(index int, value uint32) error
	SetRepRateSeconds(seconds float64) error
	SetIoInit(initial string) error
	CheckOutputCycles(start, stop, repRate clock.Cycles) (pulse.State, error)
	SetOutputCycles(output string, start, stop clock.Cycles) error
	SetOutputSeconds(output string, start, stop float64) error

	LoopLight(seconds float64, reverse bool) error
	ProgressBar(seconds float64, reverse bool) error

	Build(channels []marx.Timing, deadTime, repRate float64) (*marx.Program, error)
	Apply(p *marx.Program) error
	Replay(e *marx.Export) error
	MarxSync(p *marx.SyncParams, deadTime float64) (*marx.Program, error)
	MarxDelta(p *marx.DeltaParams, deadTime float64) (*marx.Program, error)
	MarxOne(p *marx.OneParams, deadTime float64) (*marx.Program, error)
	MarxSequence(p *marx.SequenceParams, deadTime float64) (*marx.Program, error)
}
