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

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
)

func NewReadCommand(cfg *config.Config) *cobra.Command {
	var device string
	var index int
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the last written value of registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if cmd.Flags().Changed(IndexOptionName) {
				reg, err := apiClient.RegRead(device, index)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Register state: %d (%s) = %s\n", reg.Index, reg.Addr, reg.Value)
				return nil
			}
			regs, err := apiClient.RegReadAll(device)
			if err != nil {
				return err
			}
			for _, reg := range regs {
				fmt.Fprintf(cmd.OutOrStdout(), "Register state: %d (%s) = %s\n", reg.Index, reg.Addr, reg.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkFlagRequired(DeviceOptionName)
	cmd.Flags().IntVar(&index, IndexOptionName, 0, "Register index, all registers if omitted")

	return cmd
}
