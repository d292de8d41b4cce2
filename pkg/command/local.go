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


package command

import (
	"context"
	"io"

	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/device"
	"jinr.ru/greenlab/go-marx/pkg/srv/control"
)

// LocalDevice is a configured device opened directly by the CLI without a
// control server. Writes go through the same register mirror the server uses.
type LocalDevice struct {
	*device.Device
	state  *control.RegState
	closer io.Closer
}

// OpenLocalDevice opens a device by name, empty name means the first configured device.
func OpenLocalDevice(cfg *config.Config, name string) (*LocalDevice, error) {
	if len(cfg.Devices) == 0 {
		return nil, config.ErrInvalidConfig{What: "no devices configured"}
	}
	deviceCfg := cfg.Devices[0]
	if name != "" {
		var err error
		if deviceCfg, err = cfg.GetDeviceByName(name); err != nil {
			return nil, err
		}
	}
	c, err := cfg.GetClock()
	if err != nil {
		return nil, err
	}
	state, err := control.NewRegState(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	d, closer, err := state.OpenDevice(deviceCfg, c)
	if err != nil {
		state.Close()
		return nil, err
	}
	return &LocalDevice{Device: d, state: state, closer: closer}, nil
}

func (d *LocalDevice) Close() {
	d.closer.Close()
	d.state.Close()
}
