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
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/marx"
	"jinr.ru/greenlab/go-marx/pkg/srv/control"
)

// ErrApi returned when the control server answers with an error
type ErrApi struct {
	Status  string
	Message string
}

func (e ErrApi) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

type ApiClient struct {
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.IP, cfg.ApiPort),
	}
}

func check(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		return ErrApi{Status: r.Response().Status, Message: strings.TrimSpace(r.String())}
	}
	return nil
}

func (c *ApiClient) regReadUrl(device string) string {
	return fmt.Sprintf("%s/reg/r/%s", c.ApiPrefix, device)
}

func (c *ApiClient) regWriteUrl(device string) string {
	return fmt.Sprintf("%s/reg/w/%s", c.ApiPrefix, device)
}

func (c *ApiClient) marxUrl(mode, device string) string {
	return fmt.Sprintf("%s/marx/%s/%s", c.ApiPrefix, mode, device)
}

// Devices lists the devices of the control server
func (c *ApiClient) Devices() ([]string, error) {
	r, err := req.Get(fmt.Sprintf("%s/devices", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	var names []string
	err = r.ToJSON(&names)
	return names, err
}

// RegRead sends request to get the last written value of a register
func (c *ApiClient) RegRead(device string, index int) (*control.RegHex, error) {
	r, err := req.Get(fmt.Sprintf("%s/%d", c.regReadUrl(device), index))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	reg := &control.RegHex{}
	err = r.ToJSON(reg)
	return reg, err
}

// RegReadAll sends request to get all written registers of a device
func (c *ApiClient) RegReadAll(device string) ([]*control.RegHex, error) {
	r, err := req.Get(c.regReadUrl(device))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	var regs []*control.RegHex
	err = r.ToJSON(&regs)
	return regs, err
}

// RegWrite sends request to write a value (hexadecimal or decimal) to a register
func (c *ApiClient) RegWrite(device string, index int, value string) error {
	reg := &control.RegHex{
		Index: index,
		Value: value,
	}
	r, err := req.Post(c.regWriteUrl(device), req.BodyJSON(reg))
	if err != nil {
		return err
	}
	return check(r)
}

// RepRate returns the last programmed repetition rate
func (c *ApiClient) RepRate(device string) (*control.RepRate, error) {
	r, err := req.Get(fmt.Sprintf("%s/rep_rate/%s", c.ApiPrefix, device))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	repRate := &control.RepRate{}
	err = r.ToJSON(repRate)
	return repRate, err
}

// SetRepRate programs the repetition rate in seconds
func (c *ApiClient) SetRepRate(device string, seconds float64) (*control.RepRate, error) {
	r, err := req.Post(fmt.Sprintf("%s/rep_rate/%s", c.ApiPrefix, device), req.BodyJSON(&control.RepRate{Seconds: seconds}))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	repRate := &control.RepRate{}
	err = r.ToJSON(repRate)
	return repRate, err
}

// SetIoInit sets idle levels of all outputs
func (c *ApiClient) SetIoInit(device, value string) error {
	r, err := req.Post(fmt.Sprintf("%s/io_init/%s", c.ApiPrefix, device), req.BodyJSON(&control.IoInitSetup{Value: value}))
	if err != nil {
		return err
	}
	return check(r)
}

// SetOutput sets the window of one output and returns its state
func (c *ApiClient) SetOutput(device string, setup *control.OutputSetup) (string, error) {
	r, err := req.Post(fmt.Sprintf("%s/output/%s", c.ApiPrefix, device), req.BodyJSON(setup))
	if err != nil {
		return "", err
	}
	if err := check(r); err != nil {
		return "", err
	}
	state := &control.OutputState{}
	err = r.ToJSON(state)
	return state.State, err
}

// Pattern runs a test pattern, name is loop_light or progress_bar
func (c *ApiClient) Pattern(device, name string, seconds float64, reverse bool) error {
	r, err := req.Post(fmt.Sprintf("%s/pattern/%s/%s", c.ApiPrefix, name, device),
		req.BodyJSON(&control.PatternSetup{Seconds: seconds, Reverse: reverse}))
	if err != nil {
		return err
	}
	return check(r)
}

// Marx sends the parameters of a mode, deadTime <= 0 means the server default
func (c *ApiClient) Marx(device, mode string, params interface{}, deadTime float64, dryRun bool) (*control.ProgramSummary, error) {
	query := req.QueryParam{"dry_run": strconv.FormatBool(dryRun)}
	if deadTime > 0 {
		query["dead_time"] = strconv.FormatFloat(deadTime, 'g', -1, 64)
	}
	r, err := req.Post(c.marxUrl(mode, device), req.BodyJSON(params), query)
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	summary := &control.ProgramSummary{}
	err = r.ToJSON(summary)
	return summary, err
}

// Replay sends an exported program
func (c *ApiClient) Replay(device string, export *marx.Export) error {
	r, err := req.Post(fmt.Sprintf("%s/replay/%s", c.ApiPrefix, device), req.BodyJSON(export))
	if err != nil {
		return err
	}
	return check(r)
}
