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


package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	defer Init(os.Stderr, "info")

	buf := &bytes.Buffer{}
	Init(buf, "warning")
	Info("hidden %d", 1)
	Warning("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message printed at warning level: %q", out)
	}
	if !strings.Contains(out, WarningPrefix+"shown 2") {
		t.Errorf("warning message missing: %q", out)
	}
	if !strings.HasPrefix(out, LogPrefix) {
		t.Errorf("missing log prefix: %q", out)
	}
	if Enabled(InfoLevel) {
		t.Error("info level must be disabled")
	}
}

func TestSetLevelWrong(t *testing.T) {
	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := SetLevel("DEBUG"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	SetLevel("info")
}
