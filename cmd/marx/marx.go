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
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/marx"
)

const (
	DeviceOptionName   = "device"
	DeadTimeOptionName = "dead-time"
	DryRunOptionName   = "dry-run"
	OutOptionName      = "out"
	FormatOptionName   = "format"
)

// NewCommand creates the marx command group working on a local device
func NewCommand(cfg *config.Config) *cobra.Command {
	var device, out, format string
	var deadTime time.Duration
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "marx",
		Short: "Synthesize, validate and write a Marx waveform",
		Long: `Synthesize the pulse windows of all stages, validate them against the clock
and the repetition rate and write them to the device. Nothing is written
when validation fails.`,
	}
	run := func(cmd *cobra.Command, mode string, params interface{}) error {
		dead := cfg.DeadTime
		if deadTime > 0 {
			dead = deadTime.Seconds()
		}
		channels, repRate, err := marx.Synthesize(params)
		if err != nil {
			return err
		}

		var program *marx.Program
		if dryRun {
			c, err := cfg.GetClock()
			if err != nil {
				return err
			}
			if program, err = marx.NewBuilder(c).Build(channels, dead, repRate); err != nil {
				return err
			}
		} else {
			d, err := command.OpenLocalDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			if program, err = d.Build(channels, dead, repRate); err != nil {
				return err
			}
			if err := d.Apply(program); err != nil {
				return err
			}
			log.Info("Mode %s written to device %s", mode, d.GetName())
		}

		if err := program.Print(cmd.OutOrStdout()); err != nil {
			return err
		}
		if out == "" {
			return nil
		}
		return command.WriteExport(program, out, format)
	}
	for _, c := range NewModeCommands(run) {
		cmd.AddCommand(c)
	}
	cmd.PersistentFlags().StringVar(&device, DeviceOptionName, "", "Device name. Default the first configured device")
	cmd.PersistentFlags().DurationVar(&deadTime, DeadTimeOptionName, 0, "Dead time between pulse and charge. Default from config")
	cmd.PersistentFlags().BoolVar(&dryRun, DryRunOptionName, false, "Validate and print only, do not touch the device")
	cmd.PersistentFlags().StringVar(&out, OutOptionName, "", "Export the program to a file for later replay")
	cmd.PersistentFlags().StringVar(&format, FormatOptionName, "", "Export format: yaml or cbor. Default from the file extension")
	return cmd
}
