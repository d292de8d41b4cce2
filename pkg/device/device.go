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


package device

import (
	"strings"
	"sync"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/marx"
	"jinr.ru/greenlab/go-marx/pkg/pulse"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

// Device drives one AXI IO peripheral.
// The peripheral has a single repetition rate context, so every operation
// holds the device lock from validation to the last register write.
type Device struct {
	Name    string
	mu      sync.Mutex
	builder *marx.Builder
	writer  deviceifc.RegWriter
	// last programmed repetition rate, 0 if none
	repRate clock.Cycles
}

var _ deviceifc.Device = &Device{}

// NewDevice ...
func NewDevice(name string, c *clock.Clock, writer deviceifc.RegWriter) *Device {
	return &Device{
		Name:    name,
		builder: marx.NewBuilder(c),
		writer:  writer,
	}
}

func (d *Device) GetName() string {
	return d.Name
}

func (d *Device) Clock() *clock.Clock {
	return d.builder.Clock()
}

// RepRate returns the last programmed repetition rate.
func (d *Device) RepRate() clock.Cycles {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.repRate
}

// Restore sets the latched repetition rate without touching the hardware,
// e.g. from the register mirror after a restart.
func (d *Device) Restore(repRate clock.Cycles) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.repRate = repRate
}

func (d *Device) validator() pulse.Validator {
	return pulse.Validator{RepRate: d.repRate}
}

// WriteReg writes a register by register number.
func (d *Device) WriteReg(index int, value uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(index, value)
}

func (d *Device) writeReg(index int, value uint32) error {
	addr, err := reg.Address(index)
	if err != nil {
		return err
	}
	log.Debug("Writing register %d (0x%02x): 0x%08x", index, addr, value)
	return d.writer.WriteReg(addr, value)
}

func (d *Device) writeAll(writes []reg.Write) error {
	ops := make([]deviceifc.Op, 0, len(writes))
	for _, w := range writes {
		addr, err := w.Address()
		if err != nil {
			return err
		}
		ops = append(ops, deviceifc.Op{Addr: addr, Value: w.Value})
	}
	if log.Enabled(log.DebugLevel) {
		for _, op := range ops {
			log.Debug("Device %s: 0x%02x <- 0x%08x", d.Name, op.Addr, op.Value)
		}
	}
	if batch, ok := d.writer.(deviceifc.BatchWriter); ok {
		return batch.WriteBatch(ops)
	}
	for _, op := range ops {
		if err := d.writer.WriteReg(op.Addr, op.Value); err != nil {
			return err
		}
	}
	return nil
}

// SetRepRateSeconds sets the repetition rate in seconds.
func (d *Device) SetRepRateSeconds(seconds float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cycles, err := d.Clock().SecondsToCycles(seconds)
	if err != nil {
		return err
	}
	return d.setRepRateCycles(cycles)
}

// SetRepRateCycles sets the repetition rate as number of cycles.
func (d *Device) SetRepRateCycles(cycles clock.Cycles) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setRepRateCycles(cycles)
}

func (d *Device) setRepRateCycles(cycles clock.Cycles) error {
	if cycles <= 0 {
		return pulse.ErrInvalidRepRate{RepRate: cycles}
	}
	if !cycles.Fits() {
		return clock.ErrOverflow{Seconds: d.Clock().CyclesToSeconds(cycles), MaxSeconds: d.Clock().MaxSeconds()}
	}
	if err := d.writeReg(reg.RegRepRate, uint32(cycles)); err != nil {
		return err
	}
	d.repRate = cycles
	return nil
}

// SetIoInit sets the idle level of all outputs from a string of 1 and 0,
// the first character is output 1a.
func (d *Device) SetIoInit(initial string) error {
	mask, err := reg.ParseIoInit(initial)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(reg.RegIoInit, uint32(mask))
}

// CheckOutputCycles checks a start/stop pair against repRate, or against the
// last programmed repetition rate if repRate <= 0.
func (d *Device) CheckOutputCycles(start, stop, repRate clock.Cycles) (pulse.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validator().Check(start, stop, repRate)
}

// SetOutputCycles sets start and stop of an output ("1a", "2b", ...) in cycles.
func (d *Device) SetOutputCycles(output string, start, stop clock.Cycles) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setOutputCycles(output, start, stop)
}

func (d *Device) setOutputCycles(output string, start, stop clock.Cycles) error {
	channel, sub, err := reg.ParseOutput(output)
	if err != nil {
		return err
	}
	state, err := d.validator().Check(start, stop, 0)
	if err != nil {
		return ErrOutput{Output: output, Err: err}
	}
	if state == pulse.Disabled {
		log.Info("output %s is disabled", output)
	}
	for _, v := range []clock.Cycles{start, stop} {
		if !v.Fits() {
			return ErrRegisterValue{Output: output, Value: v}
		}
	}
	startReg, _ := reg.ChannelReg(channel, sub, reg.Start)
	stopReg, _ := reg.ChannelReg(channel, sub, reg.Stop)
	if err := d.writeReg(startReg, uint32(start)); err != nil {
		return err
	}
	return d.writeReg(stopReg, uint32(stop))
}

// SetOutputSeconds sets start and stop of an output in seconds.
func (d *Device) SetOutputSeconds(output string, start, stop float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setOutputSeconds(output, start, stop)
}

func (d *Device) setOutputSeconds(output string, start, stop float64) error {
	startCycles, err := d.Clock().SecondsToCycles(start)
	if err != nil {
		return ErrOutput{Output: output, Err: err}
	}
	stopCycles, err := d.Clock().SecondsToCycles(stop)
	if err != nil {
		return ErrOutput{Output: output, Err: err}
	}
	return d.setOutputCycles(output, startCycles, stopCycles)
}

// LoopLight lights the channels one after another, each for a tenth of the period.
// reverse changes polarity.
func (d *Device) LoopLight(seconds float64, reverse bool) error {
	return d.pattern(seconds, reverse, func(i int, step float64) (float64, float64) {
		return float64(i) * step, float64(i+1) * step
	})
}

// ProgressBar lights channel i from i tenths of the period until the end of it.
// reverse changes polarity.
func (d *Device) ProgressBar(seconds float64, reverse bool) error {
	return d.pattern(seconds, reverse, func(i int, step float64) (float64, float64) {
		return float64(i) * step, seconds
	})
}

func (d *Device) pattern(seconds float64, reverse bool, window func(i int, step float64) (float64, float64)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	level := "1"
	if reverse {
		level = "0"
	}
	mask, err := reg.ParseIoInit(strings.Repeat(level, reg.NumOutputs))
	if err != nil {
		return err
	}
	if err := d.writeReg(reg.RegIoInit, uint32(mask)); err != nil {
		return err
	}
	cycles, err := d.Clock().SecondsToCycles(seconds)
	if err != nil {
		return err
	}
	if err := d.setRepRateCycles(cycles); err != nil {
		return err
	}
	step := seconds / reg.NumChannels
	for i := 0; i < reg.NumChannels; i++ {
		start, stop := window(i, step)
		for _, sub := range []reg.SubOutput{reg.A, reg.B} {
			if err := d.setOutputSeconds(reg.OutputName(i+1, sub), start, stop); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build validates channel windows and assembles a program without writing it.
func (d *Device) Build(channels []marx.Timing, deadTime, repRate float64) (*marx.Program, error) {
	return d.builder.Build(channels, deadTime, repRate)
}

// Apply writes a program and latches its repetition rate.
func (d *Device) Apply(p *marx.Program) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !p.IoInit.ChargeIdleHigh() {
		return marx.ErrInternalInvariant{What: "charge init not correct: " + p.IoInit.String()}
	}
	if err := d.writeAll(p.Writes()); err != nil {
		return err
	}
	d.repRate = p.RepRate
	log.Info("Apply finished: device %s rep rate %d cycles", d.Name, p.RepRate)
	return nil
}

// Replay writes an exported program.
func (d *Device) Replay(e *marx.Export) error {
	if err := e.Check(); err != nil {
		return err
	}
	if e.ClockPeriod != d.Clock().Period() {
		log.Warning("Replaying program made for clock period %g s on clock period %g s",
			e.ClockPeriod, d.Clock().Period())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeAll(e.Writes); err != nil {
		return err
	}
	d.repRate = clock.Cycles(e.RepRate)
	return nil
}

func (d *Device) apply(channels []marx.Timing, err error, deadTime, repRate float64) (*marx.Program, error) {
	if err != nil {
		return nil, err
	}
	p, err := d.builder.Build(channels, deadTime, repRate)
	if err != nil {
		return nil, err
	}
	if err := d.Apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarxSync programs all stages firing together, pulses on "a" and charge on "b".
func (d *Device) MarxSync(p *marx.SyncParams, deadTime float64) (*marx.Program, error) {
	channels, err := marx.Sync(p)
	return d.apply(channels, err, deadTime, p.RepRate)
}

// MarxDelta programs a delta shaped wave.
func (d *Device) MarxDelta(p *marx.DeltaParams, deadTime float64) (*marx.Program, error) {
	channels, err := marx.Delta(p)
	return d.apply(channels, err, deadTime, p.RepRate)
}

// MarxOne programs a single firing stage.
func (d *Device) MarxOne(p *marx.OneParams, deadTime float64) (*marx.Program, error) {
	channels, err := marx.One(p)
	return d.apply(channels, err, deadTime, p.RepRate)
}

// MarxSequence programs stages firing one after another.
func (d *Device) MarxSequence(p *marx.SequenceParams, deadTime float64) (*marx.Program, error) {
	channels, err := marx.Sequence(p)
	return d.apply(channels, err, deadTime, p.RepRate)
}
