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


package agent

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/device/udp"
)

const (
	DeviceOptionName = "device"
	ListenOptionName = "listen"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var device, listen string
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Serve register writes over UDP for a remote host",
		Long: `Run on the board next to the FPGA. Write frames received from hosts using
a udp backend are applied to the configured backend of the device,
usually mmio, and acknowledged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.StartAgent(cfg, device, listen)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device whose backend receives the writes")
	cmd.Flags().StringVar(&listen, ListenOptionName, fmt.Sprintf(":%d", udp.DefaultPort), "UDP address to listen on")
	return cmd
}
