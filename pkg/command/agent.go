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
	"os"
	"os/signal"
	"syscall"

	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/device"
	"jinr.ru/greenlab/go-marx/pkg/device/udp"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/srv/control"
)

// StartAgent serves register write frames on listen and applies them to the
// backend of the named device until interrupted. Applied writes are mirrored
// to the register database so local reads see them.
func StartAgent(cfg *config.Config, deviceName, listen string) error {
	deviceCfg, err := cfg.GetDeviceByName(deviceName)
	if err != nil {
		return err
	}
	if deviceCfg.Backend.Type == config.BackendUDP {
		return config.ErrInvalidConfig{What: "agent can not forward to a udp backend, device " + deviceName}
	}
	writer, closer, err := device.OpenBackend(deviceCfg.Backend)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := control.NewRegState(ctx, cfg)
	if err != nil {
		return err
	}
	defer state.Close()

	agent, err := udp.NewAgent(listen, state.Mirror(deviceCfg.Name, writer))
	if err != nil {
		return err
	}
	log.Info("Agent forwards to device %s backend %s", deviceCfg.Name, deviceCfg.Backend.Type)
	err = agent.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
