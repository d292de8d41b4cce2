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

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
)

const (
	IPOptionName   = "ip"
	PortOptionName = "port"
)

func NewStartCommand(cfg *config.Config) *cobra.Command {
	var ip string
	var port int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start control server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ip != "" {
				cfg.IP = ip
			}
			if port != 0 {
				cfg.ApiPort = port
			}
			return command.StartControlServer(cfg)
		},
	}
	cmd.Flags().StringVar(&ip, IPOptionName, "", fmt.Sprintf("IP to bind. E.g. %s", config.DefaultIP))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Port to bind. E.g. %d", config.DefaultApiPort))

	return cmd
}

func NewDevicesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices of the control server",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := command.NewApiClient(cfg).Devices()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	return cmd
}
