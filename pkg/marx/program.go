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
	"io"
	"text/tabwriter"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/pulse"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

// Program is a validated set of register values for one Marx waveform.
// Channels are the pulse ("a") outputs, Charge is applied to every "b" output.
type Program struct {
	ClockPeriod float64                   `json:"clockPeriod"`
	RepRate     clock.Cycles              `json:"repRate"`
	DeadTime    clock.Cycles              `json:"deadTime"`
	IoInit      reg.IoInit                `json:"ioInit"`
	Channels    [NumChannels]pulse.Window `json:"channels"`
	Charge      pulse.Window              `json:"charge"`
}

// Writes returns the register writes of the program in the order they must
// be issued: io init, repetition rate, then for each channel in ascending
// order the pulse start/stop and the charge start/stop.
func (p *Program) Writes() []reg.Write {
	writes := make([]reg.Write, 0, 2+4*NumChannels)
	writes = append(writes,
		reg.Write{Index: reg.RegIoInit, Value: uint32(p.IoInit)},
		reg.Write{Index: reg.RegRepRate, Value: uint32(p.RepRate)},
	)
	chargeStart, chargeStop := p.Charge.Registers(p.RepRate)
	for i, w := range p.Channels {
		start, stop := w.Registers(p.RepRate)
		writes = append(writes,
			channelWrite(i+1, reg.A, reg.Start, start),
			channelWrite(i+1, reg.A, reg.Stop, stop),
			channelWrite(i+1, reg.B, reg.Start, chargeStart),
			channelWrite(i+1, reg.B, reg.Stop, chargeStop),
		)
	}
	return writes
}

func channelWrite(channel int, sub reg.SubOutput, field reg.Field, value uint32) reg.Write {
	// channel is always within 1..NumChannels here
	index, _ := reg.ChannelReg(channel, sub, field)
	return reg.Write{Index: index, Value: value}
}

// Row is a line of the program summary table.
type Row struct {
	Name  string `json:"name"`
	Start uint32 `json:"start"`
	Stop  uint32 `json:"stop"`
}

// Table summarizes the start and stop cycles of every pulse output and of the charge.
func (p *Program) Table() []Row {
	rows := make([]Row, 0, NumChannels+1)
	for i, w := range p.Channels {
		start, stop := w.Registers(p.RepRate)
		rows = append(rows, Row{Name: fmt.Sprintf("Channel_%s", reg.OutputName(i+1, reg.A)), Start: start, Stop: stop})
	}
	start, stop := p.Charge.Registers(p.RepRate)
	rows = append(rows, Row{Name: "Charge", Start: start, Stop: stop})
	return rows
}

// Print writes the summary table.
func (p *Program) Print(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "rep rate\t%d\tcycles\n", p.RepRate)
	fmt.Fprintf(w, "dead time\t%d\tcycles\n", p.DeadTime)
	fmt.Fprintf(w, "io init\t%s\t\n", p.IoInit)
	for _, row := range p.Table() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", row.Name, row.Start, row.Stop)
	}
	return w.Flush()
}
