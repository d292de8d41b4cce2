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
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/cmd/control/reg"
	"jinr.ru/greenlab/go-marx/pkg/config"
)

const (
	DeviceOptionName = "device"
)

// NewCommand creates the control command group: the server and its clients
func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Control server and commands talking to it",
	}
	cmd.AddCommand(NewStartCommand(cfg))
	cmd.AddCommand(NewDevicesCommand(cfg))
	cmd.AddCommand(reg.NewCommand(cfg))
	cmd.AddCommand(NewRepRateCommand(cfg))
	cmd.AddCommand(NewIoInitCommand(cfg))
	cmd.AddCommand(NewMarxCommand(cfg))
	cmd.AddCommand(NewPatternCommand(cfg))
	cmd.AddCommand(NewReplayCommand(cfg))
	return cmd
}
