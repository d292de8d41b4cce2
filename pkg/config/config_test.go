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


package config

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"jinr.ru/greenlab/go-marx/pkg/clock"
)

func TestPersistLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config")
	cfg := NewConfig(path)
	cfg.Devices = append(cfg.Devices, &DeviceConfig{
		Name:    "remote",
		Backend: &BackendConfig{Type: BackendUDP, Address: "10.0.0.2:33310", Timeout: 2 * time.Second},
	})
	if err := cfg.Persist(false); err != nil {
		t.Fatal(err)
	}
	var exists ErrConfigFileExists
	if err := cfg.Persist(false); !errors.As(err, &exists) {
		t.Errorf("got %v", err)
	}

	loaded := NewConfig(path)
	loaded.Devices = nil
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}
	d, err := loaded.GetDeviceByName("remote")
	if err != nil {
		t.Fatal(err)
	}
	if d.Backend.Address != "10.0.0.2:33310" || d.Backend.Timeout != 2*time.Second {
		t.Errorf("backend = %+v", d.Backend)
	}
	var notFound ErrDeviceNotFound
	if _, err := loaded.GetDeviceByName("nope"); !errors.As(err, &notFound) {
		t.Errorf("got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), "config"))
	if err := cfg.Load(); err != nil {
		t.Fatal(err)
	}
	if cfg.ApiPort != DefaultApiPort {
		t.Errorf("api port = %d", cfg.ApiPort)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	data := "devices:\n- name: a\n  backend:\n    type: serial\n"
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	var invalid ErrInvalidConfig
	if err := NewConfig(path).Load(); !errors.As(err, &invalid) {
		t.Errorf("got %v", err)
	}
}

func TestGetClock(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig(filepath.Join(dir, "config"))
	cfg.Clock = &ClockConfig{BoardFile: filepath.Join(dir, "missing.yaml")}
	c, err := cfg.GetClock()
	if err != nil {
		t.Fatal(err)
	}
	if c.Period() != clock.DefaultPeriod {
		t.Errorf("period = %g", c.Period())
	}

	board := filepath.Join(dir, "board.yaml")
	if err := ioutil.WriteFile(board, []byte("board: marx\nclocks:\n- name: fclk0\n  frequency: 100MHz\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.Clock = &ClockConfig{Frequency: "125MHz", BoardFile: board}
	var conflict clock.ErrConflictingPeriod
	if _, err := cfg.GetClock(); !errors.As(err, &conflict) {
		t.Errorf("got %v", err)
	}
}
