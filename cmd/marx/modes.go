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

	"jinr.ru/greenlab/go-marx/pkg/marx"
)

const (
	PulseLengthOptionName    = "pulse-length"
	RepRateOptionName        = "rep-rate"
	NumChannelsOptionName    = "num-channels"
	DelayBeginOptionName     = "delay-begin"
	DelayEndOptionName       = "delay-end"
	ShortestLengthOptionName = "shortest-length"
	ChangeOptionName         = "change"
	ChannelOptionName        = "channel"
	TimeBetweenOptionName    = "time-between"
)

// RunFunc runs a synthesis mode with parameters filled from flags.
// mode is one of sync, delta, one, sequence.
type RunFunc func(cmd *cobra.Command, mode string, params interface{}) error

func seconds(durations []time.Duration) []float64 {
	if len(durations) == 0 {
		return nil
	}
	s := make([]float64, len(durations))
	for i, d := range durations {
		s[i] = d.Seconds()
	}
	return s
}

// NewModeCommands returns a command per synthesis mode.
func NewModeCommands(run RunFunc) []*cobra.Command {
	return []*cobra.Command{
		newSyncCommand(run),
		newDeltaCommand(run),
		newOneCommand(run),
		newSequenceCommand(run),
	}
}

func newSyncCommand(run RunFunc) *cobra.Command {
	var pulseLength, repRate time.Duration
	var numChannels int
	var delayBegin, delayEnd []time.Duration
	cmd := &cobra.Command{
		Use:     "sync",
		Short:   "All stages fire together at the end of the period",
		Example: "go-marx marx sync --pulse-length 1us --rep-rate 2us",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := marx.NewSyncParams(pulseLength.Seconds(), repRate.Seconds())
			p.NumChannels = numChannels
			p.DelayBegin = seconds(delayBegin)
			p.DelayEnd = seconds(delayEnd)
			return run(cmd, "sync", p)
		},
	}
	cmd.Flags().DurationVar(&pulseLength, PulseLengthOptionName, 0, "Pulse length, e.g. 1us")
	cmd.MarkFlagRequired(PulseLengthOptionName)
	cmd.Flags().DurationVar(&repRate, RepRateOptionName, 0, "Repetition period, e.g. 2us")
	cmd.MarkFlagRequired(RepRateOptionName)
	cmd.Flags().IntVar(&numChannels, NumChannelsOptionName, marx.NumChannels, "Number of active stages")
	cmd.Flags().DurationSliceVar(&delayBegin, DelayBeginOptionName, nil, "Per stage start shifts, not positive, e.g. -8ns,0s,...")
	cmd.Flags().DurationSliceVar(&delayEnd, DelayEndOptionName, nil, "Per stage stop shifts, not positive. Defaults to the start shifts")
	return cmd
}

func newDeltaCommand(run RunFunc) *cobra.Command {
	var shortest, repRate, change time.Duration
	var numChannels int
	cmd := &cobra.Command{
		Use:     "delta",
		Short:   "Windows grow from stage to stage around a common center",
		Example: "go-marx marx delta --shortest-length 100ns --rep-rate 4us",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := marx.NewDeltaParams(shortest.Seconds(), repRate.Seconds())
			p.NumChannels = numChannels
			if cmd.Flags().Changed(ChangeOptionName) {
				p.Change = change.Seconds()
			}
			return run(cmd, "delta", p)
		},
	}
	cmd.Flags().DurationVar(&shortest, ShortestLengthOptionName, 0, "Window of the first stage")
	cmd.MarkFlagRequired(ShortestLengthOptionName)
	cmd.Flags().DurationVar(&repRate, RepRateOptionName, 0, "Repetition period")
	cmd.MarkFlagRequired(RepRateOptionName)
	cmd.Flags().IntVar(&numChannels, NumChannelsOptionName, marx.NumChannels, "Number of active stages")
	cmd.Flags().DurationVar(&change, ChangeOptionName, 0, "Growth on each side per stage. Default half of the shortest length")
	return cmd
}

func newOneCommand(run RunFunc) *cobra.Command {
	var pulseLength, repRate time.Duration
	var channel int
	cmd := &cobra.Command{
		Use:     "one",
		Short:   "A single stage fires at the end of the period",
		Example: "go-marx marx one --pulse-length 500ns --rep-rate 1us --channel 3",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "one", marx.NewOneParams(pulseLength.Seconds(), repRate.Seconds(), channel))
		},
	}
	cmd.Flags().DurationVar(&pulseLength, PulseLengthOptionName, 0, "Pulse length")
	cmd.MarkFlagRequired(PulseLengthOptionName)
	cmd.Flags().DurationVar(&repRate, RepRateOptionName, 0, "Repetition period")
	cmd.MarkFlagRequired(RepRateOptionName)
	cmd.Flags().IntVar(&channel, ChannelOptionName, 1, "Firing stage, 1..9")
	return cmd
}

func newSequenceCommand(run RunFunc) *cobra.Command {
	var pulseLength, repRate, timeBetween time.Duration
	var numChannels int
	cmd := &cobra.Command{
		Use:     "sequence",
		Short:   "Stages fire one after another, the last one at the end of the period",
		Example: "go-marx marx sequence --pulse-length 100ns --rep-rate 5us",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := marx.NewSequenceParams(pulseLength.Seconds(), repRate.Seconds())
			p.NumChannels = numChannels
			if cmd.Flags().Changed(TimeBetweenOptionName) {
				p.TimeBetween = timeBetween.Seconds()
			}
			return run(cmd, "sequence", p)
		},
	}
	cmd.Flags().DurationVar(&pulseLength, PulseLengthOptionName, 0, "Pulse length")
	cmd.MarkFlagRequired(PulseLengthOptionName)
	cmd.Flags().DurationVar(&repRate, RepRateOptionName, 0, "Repetition period")
	cmd.MarkFlagRequired(RepRateOptionName)
	cmd.Flags().IntVar(&numChannels, NumChannelsOptionName, marx.NumChannels, "Number of active stages")
	cmd.Flags().DurationVar(&timeBetween, TimeBetweenOptionName, 0, "Gap between stages. Default the pulse length")
	return cmd
}
