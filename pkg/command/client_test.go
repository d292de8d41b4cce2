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
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/marx"
	"jinr.ru/greenlab/go-marx/pkg/srv/control"
)

func newTestClient(t *testing.T) *ApiClient {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig(filepath.Join(dir, "config"))
	cfg.DBPath = filepath.Join(dir, "regs.db")
	cfg.Clock = &config.ClockConfig{Frequency: "125MHz"}
	s, err := control.NewControlServer(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return &ApiClient{ApiPrefix: ts.URL + "/api"}
}

func TestClientMarx(t *testing.T) {
	c := newTestClient(t)

	names, err := c.Devices()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != config.DefaultDeviceName {
		t.Fatalf("devices = %v", names)
	}
	device := names[0]

	summary, err := c.Marx(device, "delta", marx.NewDeltaParams(100e-9, 4e-6), 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.RepRate != 500 || !summary.Applied {
		t.Errorf("summary = %+v", summary)
	}
	repRate, err := c.RepRate(device)
	if err != nil {
		t.Fatal(err)
	}
	if repRate.Cycles != 500 {
		t.Errorf("rep rate = %+v", repRate)
	}
	reg, err := c.RegRead(device, 40)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Value != "0x000003ff" {
		t.Errorf("io init register = %s", reg.Value)
	}
}

func TestClientRegisters(t *testing.T) {
	c := newTestClient(t)
	device := config.DefaultDeviceName

	if err := c.RegWrite(device, 41, "0x7d"); err != nil {
		t.Fatal(err)
	}
	regs, err := c.RegReadAll(device)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 1 || regs[0].Index != 41 || regs[0].Value != "0x0000007d" {
		t.Errorf("registers = %+v", regs)
	}
	if err := c.SetIoInit(device, "11111111111111111111"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetRepRate(device, 1e-6); err != nil {
		t.Fatal(err)
	}
	state, err := c.SetOutput(device, &control.OutputSetup{Output: "1a", Start: 100e-9, Stop: 200e-9})
	if err != nil {
		t.Fatal(err)
	}
	if state != "enabled" {
		t.Errorf("state = %s", state)
	}
	if err := c.Pattern(device, "loop_light", 1e-6, true); err != nil {
		t.Fatal(err)
	}
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)
	var apiErr ErrApi
	if _, err := c.Marx("nope", "sync", marx.NewSyncParams(1e-6, 2e-6), 0, false); !errors.As(err, &apiErr) {
		t.Errorf("got %v", err)
	}
	if err := c.RegWrite(config.DefaultDeviceName, 50, "1"); !errors.As(err, &apiErr) {
		t.Errorf("got %v", err)
	}
	if _, err := c.RegRead(config.DefaultDeviceName, 3); !errors.As(err, &apiErr) {
		t.Errorf("never written register: got %v", err)
	}
}
