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


package cmd

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand(out)
	cmd.SetErr(ioutil.Discard)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLocalCommands(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config")
	data := fmt.Sprintf("dbPath: %s\n", filepath.Join(dir, "regs.db"))
	if err := ioutil.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	program := filepath.Join(dir, "program.yaml")

	out, err := execute(t, configPath, "marx", "sync", "--pulse-length", "1us", "--rep-rate", "2us",
		"--dry-run", "--out", program)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Charge") || !strings.Contains(out, "250") {
		t.Errorf("unexpected table:\n%s", out)
	}

	out, err = execute(t, configPath, "reg", "rep-rate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Repetition rate: 0 cycles") {
		t.Errorf("dry run touched the device: %s", out)
	}

	if _, err := execute(t, configPath, "replay", program); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, configPath, "reg", "rep-rate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Repetition rate: 250 cycles") {
		t.Errorf("replay did not latch rep rate: %s", out)
	}

	if _, err := execute(t, configPath, "reg", "output", "2b", "--start", "100ns", "--stop", "200ns"); err != nil {
		t.Fatal(err)
	}

	out, err = execute(t, configPath, "reg", "check", "--start", "10", "--stop", "20", "--rep-rate", "250")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "enabled") {
		t.Errorf("got %s", out)
	}
	if _, err := execute(t, configPath, "reg", "check", "--start", "20", "--stop", "10", "--rep-rate", "250"); err == nil {
		t.Error("start after stop accepted")
	}

	if _, err := execute(t, configPath, "marx", "one", "--pulse-length", "1us", "--rep-rate", "1us", "--dry-run"); err == nil {
		t.Error("insufficient charge time accepted")
	}
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, filepath.Join(t.TempDir(), "config"), "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "marx0") {
		t.Errorf("default device missing:\n%s", out)
	}
}
