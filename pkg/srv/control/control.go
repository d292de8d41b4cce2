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
	"context"
	"io"
	"net/http"
	"sync"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/config"
	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/reg"
	"jinr.ru/greenlab/go-marx/pkg/srv/control/ifc"
)

type ControlServer struct {
	context.Context
	*config.Config
	state   *RegState
	api     ifc.ApiServer
	devices map[string]deviceifc.Device
	closers []io.Closer
}

var _ ifc.ControlServer = &ControlServer{}

// NewControlServer opens the register mirror and the backends of all
// configured devices. The latched repetition rate of every device is
// restored from the mirror.
func NewControlServer(ctx context.Context, cfg *config.Config) (*ControlServer, error) {
	c, err := cfg.GetClock()
	if err != nil {
		return nil, err
	}
	log.Info("Clock period %g s", c.Period())

	regState, err := NewRegState(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &ControlServer{
		Context: ctx,
		Config:  cfg,
		state:   regState,
		devices: map[string]deviceifc.Device{},
	}

	for _, deviceCfg := range cfg.Devices {
		if err := s.addDevice(deviceCfg, c); err != nil {
			s.Close()
			return nil, err
		}
	}

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

func (s *ControlServer) addDevice(cfg *config.DeviceConfig, c *clock.Clock) error {
	d, closer, err := s.state.OpenDevice(cfg, c)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, closer)
	s.devices[cfg.Name] = d
	log.Info("Device %s added with %s backend", cfg.Name, cfg.Backend.Type)
	return nil
}

// Close releases the backends and the register mirror.
func (s *ControlServer) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Error("Error while closing backend: %s", err)
		}
	}
	s.state.Close()
}

func (s *ControlServer) Run() error {
	defer s.Close()

	errChan := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		errChan <- s.api.Run()
	}()

	var err error
	select {
	case <-s.Context.Done():
		err = s.Context.Err()
	case err = <-errChan:
	}
	// the api server stops with the context
	wg.Wait()
	return err
}

// Handler returns the HTTP handler of the API.
func (s *ControlServer) Handler() http.Handler {
	return s.api.Handler()
}

func (s *ControlServer) GetDeviceByName(deviceName string) (deviceifc.Device, error) {
	d, ok := s.devices[deviceName]
	if !ok {
		return nil, ErrUnknownDevice{Name: deviceName}
	}
	return d, nil
}

func (s *ControlServer) GetAllDevices() map[string]deviceifc.Device {
	return s.devices
}

func (s *ControlServer) DeadTime() float64 {
	return s.Config.DeadTime
}

func (s *ControlServer) RegRead(deviceName string, index int) (uint32, bool, error) {
	return s.state.GetReg(deviceName, index)
}

func (s *ControlServer) RegReadAll(deviceName string) ([]reg.Write, error) {
	return s.state.GetRegAll(deviceName)
}
