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


package device

import (
	"io"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/config"
	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/device/mem"
	"jinr.ru/greenlab/go-marx/pkg/device/mmio"
	"jinr.ru/greenlab/go-marx/pkg/device/udp"
	"jinr.ru/greenlab/go-marx/pkg/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBackend returns the register writer configured for a device.
// The closer releases the mapping or the socket.
func OpenBackend(cfg *config.BackendConfig) (deviceifc.RegWriter, io.Closer, error) {
	switch cfg.Type {
	case config.BackendDryRun:
		return mem.NewRecorder(), nopCloser{}, nil
	case config.BackendMMIO:
		path, base, size := cfg.Path, cfg.Base, cfg.Size
		if path == "" {
			path = mmio.DefaultPath
		}
		if base == 0 {
			base = mmio.DefaultBase
		}
		if size == 0 {
			size = mmio.DefaultSize
		}
		m, err := mmio.Open(path, base, size)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	case config.BackendUDP:
		c, err := udp.Dial(cfg.Address, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	}
	return nil, nil, config.ErrInvalidConfig{What: "unknown backend " + cfg.Type}
}

// Open creates a device from its config entry.
func Open(cfg *config.DeviceConfig, c *clock.Clock) (*Device, io.Closer, error) {
	writer, closer, err := OpenBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("Opened device %s with %s backend", cfg.Name, cfg.Backend.Type)
	return NewDevice(cfg.Name, c, writer), closer, nil
}
