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


package pattern

import (
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
)

const (
	DeviceOptionName  = "device"
	PeriodOptionName  = "period"
	ReverseOptionName = "reverse"
)

// NewCommand creates test pattern commands for a local device
func NewCommand(cfg *config.Config) *cobra.Command {
	var device string
	var period time.Duration
	var reverse bool
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Run a visual test pattern over all outputs",
	}
	run := func(f func(d *command.LocalDevice) error) error {
		d, err := command.OpenLocalDevice(cfg, device)
		if err != nil {
			return err
		}
		defer d.Close()
		return f(d)
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "loop-light",
		Short:   "Light outputs one at a time in turn",
		Example: "go-marx pattern loop-light --period 1s",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(d *command.LocalDevice) error {
				return d.LoopLight(period.Seconds(), reverse)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "progress-bar",
		Short:   "Light outputs cumulatively like a progress bar",
		Example: "go-marx pattern progress-bar --period 1s --reverse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(d *command.LocalDevice) error {
				return d.ProgressBar(period.Seconds(), reverse)
			})
		},
	})
	cmd.PersistentFlags().StringVar(&device, DeviceOptionName, "", "Device name. Default the first configured device")
	cmd.PersistentFlags().DurationVar(&period, PeriodOptionName, time.Second, "Pattern period")
	cmd.PersistentFlags().BoolVar(&reverse, ReverseOptionName, false, "Invert the initial output levels")
	return cmd
}
