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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/marx"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig(filepath.Join(dir, "config"))
	cfg.DBPath = filepath.Join(dir, "regs.db")
	cfg.Clock = &config.ClockConfig{Frequency: "125MHz"}
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*ControlServer, *httptest.Server) {
	t.Helper()
	s, err := NewControlServer(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestMarxSyncApi(t *testing.T) {
	s, ts := newTestServer(t, newTestConfig(t))
	defer s.Close()

	summary := &ProgramSummary{}
	resp := post(t, ts.URL+"/api/marx/sync/marx0?dead_time=150e-9", marx.NewSyncParams(1e-6, 2e-6))
	decode(t, resp, summary)
	if summary.RepRate != 250 || summary.IoInit != "00000000001111111111" || !summary.Applied {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.Writes) != 2+4*marx.NumChannels {
		t.Errorf("%d writes", len(summary.Writes))
	}

	repRate := &RepRate{}
	decode(t, get(t, ts.URL+"/api/rep_rate/marx0"), repRate)
	if repRate.Cycles != 250 {
		t.Errorf("rep rate = %+v", repRate)
	}

	regHex := &RegHex{}
	decode(t, get(t, ts.URL+"/api/reg/r/marx0/41"), regHex)
	if regHex.Value != "0x000000fa" {
		t.Errorf("register 41 = %+v", regHex)
	}
	var all []*RegHex
	decode(t, get(t, ts.URL+"/api/reg/r/marx0"), &all)
	if len(all) != 42 {
		t.Errorf("%d registers mirrored", len(all))
	}
}

func TestMarxDryRunApi(t *testing.T) {
	s, ts := newTestServer(t, newTestConfig(t))
	defer s.Close()

	summary := &ProgramSummary{}
	body := map[string]interface{}{"pulseLength": 100e-9, "repRate": 5e-6}
	decode(t, post(t, ts.URL+"/api/marx/sequence/marx0?dry_run=true", body), summary)
	if summary.Applied {
		t.Error("dry run applied")
	}
	if got := s.devices["marx0"].RepRate(); got != 0 {
		t.Errorf("dry run latched rep rate %d", got)
	}
	if resp := get(t, ts.URL+"/api/reg/r/marx0/41"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %s", resp.Status)
	}
}

func TestApiErrors(t *testing.T) {
	s, ts := newTestServer(t, newTestConfig(t))
	defer s.Close()

	for name, tc := range map[string]struct {
		resp *http.Response
		code int
	}{
		"channel 10":      {post(t, ts.URL+"/api/marx/one/marx0", marx.NewOneParams(500e-9, 1e-6, 10)), http.StatusBadRequest},
		"dead time":       {post(t, ts.URL+"/api/marx/sync/marx0?dead_time=1e-9", marx.NewSyncParams(1e-6, 2e-6)), http.StatusBadRequest},
		"unknown device":  {post(t, ts.URL+"/api/marx/sync/nope", marx.NewSyncParams(1e-6, 2e-6)), http.StatusNotFound},
		"unknown mode":    {post(t, ts.URL+"/api/marx/saw/marx0", marx.NewSyncParams(1e-6, 2e-6)), http.StatusNotFound},
		"register range":  {post(t, ts.URL+"/api/reg/w/marx0", &RegHex{Index: 42, Value: "0x1"}), http.StatusBadRequest},
		"io init":         {post(t, ts.URL+"/api/io_init/marx0", &IoInitSetup{Value: "12"}), http.StatusBadRequest},
		"no rep rate":     {post(t, ts.URL+"/api/output/marx0", &OutputSetup{Output: "1a", Start: 1, Stop: 2, Cycles: true}), http.StatusBadRequest},
		"pattern period":  {post(t, ts.URL+"/api/pattern/loop_light/marx0", &PatternSetup{}), http.StatusBadRequest},
		"negative period": {post(t, ts.URL+"/api/rep_rate/marx0", &RepRate{Seconds: -1}), http.StatusBadRequest},
	} {
		if tc.resp.StatusCode != tc.code {
			t.Errorf("%s: status %s, want %d", name, tc.resp.Status, tc.code)
		}
	}
}

func TestOutputAndPatternApi(t *testing.T) {
	s, ts := newTestServer(t, newTestConfig(t))
	defer s.Close()

	decode(t, post(t, ts.URL+"/api/rep_rate/marx0", &RepRate{Seconds: 1e-6}), &RepRate{})
	state := &OutputState{}
	decode(t, post(t, ts.URL+"/api/output/marx0", &OutputSetup{Output: "2a", Start: 200, Stop: 300, Cycles: true}), state)
	if state.State != "disabled" {
		t.Errorf("state = %s", state.State)
	}
	if resp := post(t, ts.URL+"/api/pattern/progress_bar/marx0", &PatternSetup{Seconds: 1e-6}); resp.StatusCode != http.StatusOK {
		t.Errorf("status %s", resp.Status)
	}
	if resp := post(t, ts.URL+"/api/io_init/marx0", &IoInitSetup{Value: "00000000001111111111"}); resp.StatusCode != http.StatusOK {
		t.Errorf("status %s", resp.Status)
	}
}

func TestReplayApi(t *testing.T) {
	s, ts := newTestServer(t, newTestConfig(t))
	defer s.Close()

	d := s.devices["marx0"]
	channels, err := marx.Sync(marx.NewSyncParams(1e-6, 2e-6))
	if err != nil {
		t.Fatal(err)
	}
	p, err := d.Build(channels, 150e-9, 2e-6)
	if err != nil {
		t.Fatal(err)
	}
	if resp := post(t, ts.URL+"/api/replay/marx0", p.Export()); resp.StatusCode != http.StatusOK {
		t.Fatalf("status %s", resp.Status)
	}
	if d.RepRate() != 250 {
		t.Errorf("rep rate = %d", d.RepRate())
	}
}

func TestRestoreRepRate(t *testing.T) {
	cfg := newTestConfig(t)
	s, ts := newTestServer(t, cfg)
	decode(t, post(t, ts.URL+"/api/marx/sync/marx0", marx.NewSyncParams(1e-6, 2e-6)), &ProgramSummary{})
	s.Close()

	restarted, err := NewControlServer(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer restarted.Close()
	d, err := restarted.GetDeviceByName("marx0")
	if err != nil {
		t.Fatal(err)
	}
	if d.RepRate() != 250 {
		t.Errorf("restored rep rate = %d, want 250", d.RepRate())
	}
}

func TestDocs(t *testing.T) {
	s, ts := newTestServer(t, newTestConfig(t))
	defer s.Close()

	for _, path := range []string{"/swagger.json", "/docs"} {
		if resp := get(t, ts.URL+path); resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %s", path, resp.Status)
		}
	}
}
