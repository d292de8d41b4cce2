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


package replay

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/pkg/command"
	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/log"
)

const (
	DeviceOptionName = "device"
	FormatOptionName = "format"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var device, format string
	cmd := &cobra.Command{
		Use:     "replay <file>",
		Short:   "Write a previously exported program to a local device",
		Example: "go-marx replay program.yaml --device marx0",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := command.ReadExport(args[0], format)
			if err != nil {
				return err
			}
			d, err := command.OpenLocalDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.Replay(e); err != nil {
				return err
			}
			log.Info("Replayed %d writes from %s", len(e.Writes), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, "", "Device name. Default the first configured device")
	cmd.Flags().StringVar(&format, FormatOptionName, "", "File format: yaml or cbor. Default from the file extension")
	return cmd
}
