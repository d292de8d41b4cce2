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


package reg

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
	devicepkg "jinr.ru/greenlab/go-marx/pkg/device"
)

const (
	DeviceOptionName  = "device"
	IndexOptionName   = "index"
	ValueOptionName   = "value"
	StartOptionName   = "start"
	StopOptionName    = "stop"
	CyclesOptionName  = "cycles"
	RepRateOptionName = "rep-rate"
)

// NewCommand creates the reg command group writing registers of a local device
func NewCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Write single registers of a local device",
	}
	cmd.PersistentFlags().StringVar(&device, DeviceOptionName, "", "Device name. Default the first configured device")
	cmd.AddCommand(NewWriteCommand(cfg, &device))
	cmd.AddCommand(NewIoInitCommand(cfg, &device))
	cmd.AddCommand(NewRepRateCommand(cfg, &device))
	cmd.AddCommand(NewOutputCommand(cfg, &device))
	cmd.AddCommand(NewCheckCommand(cfg))
	return cmd
}

func NewWriteCommand(cfg *config.Config, device *string) *cobra.Command {
	var index int
	var value string
	cmd := &cobra.Command{
		Use:     "write",
		Short:   "Write raw value to register",
		Example: "go-marx reg write --index 41 --value 0xfa",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(value, 0, 32)
			if err != nil {
				return err
			}
			d, err := command.OpenLocalDevice(cfg, *device)
			if err != nil {
				return err
			}
			defer d.Close()
			return d.WriteReg(index, uint32(v))
		},
	}
	cmd.Flags().IntVar(&index, IndexOptionName, 0, "Register index")
	cmd.MarkFlagRequired(IndexOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Register value, decimal or 0x prefixed hexadecimal")
	cmd.MarkFlagRequired(ValueOptionName)
	return cmd
}

func NewIoInitCommand(cfg *config.Config, device *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "io-init <bits>",
		Short:   "Write initial output levels, 20 characters of 0 and 1, output 1a first",
		Example: "go-marx reg io-init 00000000001111111111",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := command.OpenLocalDevice(cfg, *device)
			if err != nil {
				return err
			}
			defer d.Close()
			return d.SetIoInit(args[0])
		},
	}
	return cmd
}

func NewRepRateCommand(cfg *config.Config, device *string) *cobra.Command {
	var cycles bool
	cmd := &cobra.Command{
		Use:   "rep-rate [period]",
		Short: "Show or set the repetition period",
		Long: `Without arguments print the latched repetition period. With a period
like 2us set it, with --cycles the argument is a number of clock cycles.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := command.OpenLocalDevice(cfg, *device)
			if err != nil {
				return err
			}
			defer d.Close()
			if len(args) == 1 {
				if err := setRepRate(d.Device, args[0], cycles); err != nil {
					return err
				}
			}
			r := d.RepRate()
			fmt.Fprintf(cmd.OutOrStdout(), "Repetition rate: %d cycles, %g s\n", r, d.Clock().CyclesToSeconds(r))
			return nil
		},
	}
	cmd.Flags().BoolVar(&cycles, CyclesOptionName, false, "Period is given in clock cycles")
	return cmd
}

func setRepRate(d *devicepkg.Device, arg string, cycles bool) error {
	if cycles {
		n, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return err
		}
		return d.SetRepRateCycles(clock.Cycles(n))
	}
	period, err := time.ParseDuration(arg)
	if err != nil {
		return err
	}
	return d.SetRepRateSeconds(period.Seconds())
}

func NewOutputCommand(cfg *config.Config, device *string) *cobra.Command {
	var start, stop time.Duration
	var startCycles, stopCycles int64
	var cycles bool
	cmd := &cobra.Command{
		Use:     "output <name>",
		Short:   "Write the window of one output against the latched repetition rate",
		Example: `go-marx reg output 3a --start 100ns --stop 200ns
go-marx reg output 10b --cycles --start-cycles 10 --stop-cycles 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := command.OpenLocalDevice(cfg, *device)
			if err != nil {
				return err
			}
			defer d.Close()
			if cycles {
				return d.SetOutputCycles(args[0], clock.Cycles(startCycles), clock.Cycles(stopCycles))
			}
			return d.SetOutputSeconds(args[0], start.Seconds(), stop.Seconds())
		},
	}
	cmd.Flags().DurationVar(&start, StartOptionName, 0, "Window start")
	cmd.Flags().DurationVar(&stop, StopOptionName, 0, "Window stop")
	cmd.Flags().BoolVar(&cycles, CyclesOptionName, false, "Use --start-cycles and --stop-cycles")
	cmd.Flags().Int64Var(&startCycles, StartOptionName+"-"+CyclesOptionName, 0, "Window start in cycles")
	cmd.Flags().Int64Var(&stopCycles, StopOptionName+"-"+CyclesOptionName, 0, "Window stop in cycles")
	return cmd
}

// NewCheckCommand validates a window in cycles without touching any device
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	var start, stop, repRate int64
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Classify a window in cycles against a repetition rate",
		Example: "go-marx reg check --start 10 --stop 20 --rep-rate 250",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.GetClock()
			if err != nil {
				return err
			}
			state, err := devicepkg.NewDevice("check", c, nil).CheckOutputCycles(
				clock.Cycles(start), clock.Cycles(stop), clock.Cycles(repRate))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Window is %s\n", state)
			return nil
		},
	}
	cmd.Flags().Int64Var(&start, StartOptionName, 0, "Window start in cycles")
	cmd.Flags().Int64Var(&stop, StopOptionName, 0, "Window stop in cycles")
	cmd.Flags().Int64Var(&repRate, RepRateOptionName, 0, "Repetition rate in cycles")
	cmd.MarkFlagRequired(RepRateOptionName)
	return cmd
}
