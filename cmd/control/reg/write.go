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
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
)

func NewWriteCommand(cfg *config.Config) *cobra.Command {
	var device, value string
	var index int
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write value to register",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			err := apiClient.RegWrite(device, index, value)
			if err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name")
	cmd.MarkFlagRequired(DeviceOptionName)
	cmd.Flags().IntVar(&index, IndexOptionName, 0, "Register index")
	cmd.MarkFlagRequired(IndexOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Register value (hexadecimal with 0x prefix or decimal)")
	cmd.MarkFlagRequired(ValueOptionName)

	return cmd
}
