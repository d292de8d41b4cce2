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


package control

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	cmdmarx "jinr.ru/greenlab/go-marx/cmd/marx"
	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/srv/control"
)

const (
	DeadTimeOptionName = "dead-time"
	DryRunOptionName   = "dry-run"
	PeriodOptionName   = "period"
	ReverseOptionName  = "reverse"
	FormatOptionName   = "format"
)

func printSummary(cmd *cobra.Command, s *control.ProgramSummary) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "rep rate\t%d\tcycles\n", s.RepRate)
	fmt.Fprintf(w, "dead time\t%d\tcycles\n", s.DeadTime)
	fmt.Fprintf(w, "io init\t%s\t\n", s.IoInit)
	for _, row := range s.Table {
		fmt.Fprintf(w, "%s\t%d\t%d\n", row.Name, row.Start, row.Stop)
	}
	fmt.Fprintf(w, "applied\t%t\t\n", s.Applied)
	return w.Flush()
}

// NewMarxCommand sends synthesis parameters to the control server
func NewMarxCommand(cfg *config.Config) *cobra.Command {
	var device string
	var deadTime time.Duration
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "marx",
		Short: "Synthesize and write a Marx waveform through the control server",
	}
	run := func(cmd *cobra.Command, mode string, params interface{}) error {
		summary, err := command.NewApiClient(cfg).Marx(device, mode, params, deadTime.Seconds(), dryRun)
		if err != nil {
			return err
		}
		return printSummary(cmd, summary)
	}
	for _, c := range cmdmarx.NewModeCommands(run) {
		cmd.AddCommand(c)
	}
	cmd.PersistentFlags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkPersistentFlagRequired(DeviceOptionName)
	cmd.PersistentFlags().DurationVar(&deadTime, DeadTimeOptionName, 0, "Dead time between pulse and charge. Default from server config")
	cmd.PersistentFlags().BoolVar(&dryRun, DryRunOptionName, false, "Validate only, do not touch the device")
	return cmd
}

func NewRepRateCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "rep-rate [period]",
		Short: "Show or set the repetition period, e.g. 2us",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			var r *control.RepRate
			var err error
			if len(args) == 1 {
				period, perr := time.ParseDuration(args[0])
				if perr != nil {
					return perr
				}
				r, err = apiClient.SetRepRate(device, period.Seconds())
			} else {
				r, err = apiClient.RepRate(device)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Repetition rate: %d cycles, %g s\n", r.Cycles, r.Seconds)
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkFlagRequired(DeviceOptionName)
	return cmd
}

func NewIoInitCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "io-init <bits>",
		Short: "Write initial output levels, output 1a first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).SetIoInit(device, args[0])
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkFlagRequired(DeviceOptionName)
	return cmd
}

func NewPatternCommand(cfg *config.Config) *cobra.Command {
	var device string
	var period time.Duration
	var reverse bool
	cmd := &cobra.Command{
		Use:       "pattern <loop_light|progress_bar>",
		Short:     "Run a test pattern",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"loop_light", "progress_bar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).Pattern(device, args[0], period.Seconds(), reverse)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkFlagRequired(DeviceOptionName)
	cmd.Flags().DurationVar(&period, PeriodOptionName, time.Second, "Pattern period")
	cmd.Flags().BoolVar(&reverse, ReverseOptionName, false, "Invert the initial output levels")
	return cmd
}

func NewReplayCommand(cfg *config.Config) *cobra.Command {
	var device, format string
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Send an exported program to the control server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := command.ReadExport(args[0], format)
			if err != nil {
				return err
			}
			return command.NewApiClient(cfg).Replay(device, e)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkFlagRequired(DeviceOptionName)
	cmd.Flags().StringVar(&format, FormatOptionName, "", "File format: yaml or cbor. Default from the file extension")
	return cmd
}
