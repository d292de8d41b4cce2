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
	"errors"
	"path/filepath"
	"testing"

	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/marx"
)

func TestLocalDeviceKeepsRepRate(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewConfig(filepath.Join(dir, "config"))
	cfg.DBPath = filepath.Join(dir, "regs.db")

	d, err := OpenLocalDevice(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.MarxSync(marx.NewSyncParams(1e-6, 2e-6), 150e-9); err != nil {
		t.Fatal(err)
	}
	d.Close()

	d, err = OpenLocalDevice(cfg, config.DefaultDeviceName)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if d.RepRate() != 250 {
		t.Errorf("rep rate = %d, want 250", d.RepRate())
	}
	// relies on the restored rep rate
	if err := d.SetOutputCycles("1a", 10, 20); err != nil {
		t.Fatal(err)
	}

	var notFound config.ErrDeviceNotFound
	if _, err := OpenLocalDevice(cfg, "nope"); !errors.As(err, &notFound) {
		t.Errorf("got %v", err)
	}
}
