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
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-marx/pkg/clock"
)

// ClockConfig tells where the peripheral clock frequency comes from.
// All sources that are set must agree.
type ClockConfig struct {
	Frequency  string `yaml:"frequency,omitempty"`
	BoardFile  string `yaml:"boardFile,omitempty"`
	BoardClock string `yaml:"boardClock,omitempty"`
}

type BackendConfig struct {
	Type string `yaml:"type"`
	// mmio
	Path string `yaml:"path,omitempty"`
	Base int64  `yaml:"base,omitempty"`
	Size int    `yaml:"size,omitempty"`
	// udp
	Address string        `yaml:"address,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type DeviceConfig struct {
	Name    string         `yaml:"name"`
	Backend *BackendConfig `yaml:"backend"`
}

type Config struct {
	LogLevel string          `yaml:"logLevel"`
	IP       string          `yaml:"ip"`
	ApiPort  int             `yaml:"apiPort"`
	DBPath   string          `yaml:"dbPath"`
	DeadTime float64         `yaml:"deadTime"`
	Clock    *ClockConfig    `yaml:"clock"`
	Devices  []*DeviceConfig `yaml:"devices"`
	filepath string
}

func (c *Config) FilePath() string {
	return c.filepath
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the defaults. A missing file is not an error.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config %s: %w", c.filepath, err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	seen := map[string]bool{}
	for _, d := range c.Devices {
		if d.Name == "" {
			return ErrInvalidConfig{What: "device without name"}
		}
		if seen[d.Name] {
			return ErrInvalidConfig{What: "duplicate device " + d.Name}
		}
		seen[d.Name] = true
		if d.Backend == nil {
			return ErrInvalidConfig{What: "device " + d.Name + " has no backend"}
		}
		switch d.Backend.Type {
		case BackendDryRun, BackendMMIO, BackendUDP:
		default:
			return ErrInvalidConfig{What: "device " + d.Name + " has unknown backend " + d.Backend.Type}
		}
	}
	return nil
}

func (c *Config) GetDeviceByName(name string) (*DeviceConfig, error) {
	for _, d := range c.Devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, ErrDeviceNotFound{Name: name}
}

// ClockProviders returns the configured clock period sources.
func (c *Config) ClockProviders() []clock.Provider {
	if c.Clock == nil {
		return nil
	}
	return []clock.Provider{
		&clock.FrequencyProvider{Source: "config " + c.filepath, Frequency: c.Clock.Frequency},
		&clock.BoardProvider{Path: c.Clock.BoardFile, Clock: c.Clock.BoardClock},
	}
}

func (c *Config) GetClock() (*clock.Clock, error) {
	return clock.Resolve(c.ClockProviders()...)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), DefaultDBFile)
}

func NewDefaultConfig() *Config {
	return NewConfig(DefaultConfigPath())
}

func NewConfig(path string) *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		IP:       DefaultIP,
		ApiPort:  DefaultApiPort,
		DBPath:   DefaultDBPath(),
		DeadTime: DefaultDeadTime,
		Clock: &ClockConfig{
			BoardFile: DefaultBoardFile,
		},
		Devices: []*DeviceConfig{
			{
				Name:    DefaultDeviceName,
				Backend: &BackendConfig{
					Type: BackendDryRun,
				},
			},
		},
		filepath: path,
	}
}
