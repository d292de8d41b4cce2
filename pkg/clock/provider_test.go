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


package clock

import (
	"errors"
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"
)

const boardYAML = `
board: Pynq-Z2
clocks:
  - name: fclk0
    frequency: 125MHz
  - name: fclk1
    frequency: 100MHz
`

func writeBoard(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := ioutil.WriteFile(path, []byte(boardYAML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*b
}

func TestResolveDefault(t *testing.T) {
	c, err := Resolve(&FrequencyProvider{Source: "config"}, &BoardProvider{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Period() != DefaultPeriod {
		t.Errorf("period = %g, want default %g", c.Period(), DefaultPeriod)
	}
}

func TestResolveBoard(t *testing.T) {
	path := writeBoard(t)
	c, err := Resolve(&BoardProvider{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if !near(c.Period(), 8e-9) {
		t.Errorf("fclk0 period = %g, want 8ns", c.Period())
	}
	c, err = Resolve(&BoardProvider{Path: path, Clock: "fclk1"})
	if err != nil {
		t.Fatal(err)
	}
	if !near(c.Period(), 10e-9) {
		t.Errorf("fclk1 period = %g, want 10ns", c.Period())
	}
	_, err = Resolve(&BoardProvider{Path: path, Clock: "fclk3"})
	var notFound ErrClockNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrClockNotFound, got %v", err)
	}
}

func TestResolveAgreeing(t *testing.T) {
	c, err := Resolve(&FrequencyProvider{Source: "config", Frequency: "125MHz"}, &BoardProvider{Path: writeBoard(t)})
	if err != nil {
		t.Fatal(err)
	}
	if !near(c.Period(), 8e-9) {
		t.Errorf("period = %g, want 8ns", c.Period())
	}
}

func TestResolveConflict(t *testing.T) {
	_, err := Resolve(&FrequencyProvider{Source: "config", Frequency: "100MHz"}, &BoardProvider{Path: writeBoard(t)})
	var conflict ErrConflictingPeriod
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflictingPeriod, got %v", err)
	}
	if conflict.Source != "config" {
		t.Errorf("first source = %s, want config", conflict.Source)
	}
}

func TestPeriodFromFrequencyInvalid(t *testing.T) {
	if _, err := PeriodFromFrequency("fast"); err == nil {
		t.Error("expected parse error")
	}
}
