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


// go-marx API
//
// # RESTful APIs to program Marx generator pulse timing
//
// Schemes: http
// Host: localhost:8010
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package control

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/config"
	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/marx"
	"jinr.ru/greenlab/go-marx/pkg/pulse"
	"jinr.ru/greenlab/go-marx/pkg/reg"
	"jinr.ru/greenlab/go-marx/pkg/srv/control/ifc"
)

//go:embed swagger.json
var swaggerJSON []byte

// RegHex is a register with bus address and value in hexadecimal.
type RegHex struct {
	Index int    `json:"index"`
	Addr  string `json:"addr,omitempty"`
	Value string `json:"value"`
}

type RepRate struct {
	Cycles  uint32  `json:"cycles,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
}

type IoInitSetup struct {
	Value string `json:"value"`
}

type OutputSetup struct {
	Output string  `json:"output"`
	Start  float64 `json:"start"`
	Stop   float64 `json:"stop"`
	// Start and Stop are cycles, not seconds
	Cycles bool `json:"cycles,omitempty"`
}

type OutputState struct {
	State string `json:"state"`
}

type PatternSetup struct {
	Seconds float64 `json:"seconds"`
	Reverse bool    `json:"reverse,omitempty"`
}

// ProgramSummary is returned by the marx endpoints.
type ProgramSummary struct {
	RepRate  clock.Cycles `json:"repRate"`
	DeadTime clock.Cycles `json:"deadTime"`
	IoInit   string       `json:"ioInit"`
	Table    []marx.Row   `json:"table"`
	Writes   []*RegHex    `json:"writes"`
	Applied  bool         `json:"applied"`
}

func NewProgramSummary(p *marx.Program, applied bool) *ProgramSummary {
	summary := &ProgramSummary{
		RepRate:  p.RepRate,
		DeadTime: p.DeadTime,
		IoInit:   p.IoInit.String(),
		Table:    p.Table(),
		Applied:  applied,
	}
	for _, w := range p.Writes() {
		summary.Writes = append(summary.Writes, regHex(w))
	}
	return summary
}

func regHex(w reg.Write) *RegHex {
	addr, value := w.Hex()
	return &RegHex{Index: w.Index, Addr: addr, Value: value}
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl ifc.ControlServer
	doc  *loads.Document
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl ifc.ControlServer) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.IP, cfg.ApiPort)

	doc, err := loads.Analyzed(json.RawMessage(swaggerJSON), "")
	if err != nil {
		return nil, err
	}

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
		doc:     doc,
	}
	s.configureRouter()
	return s, nil
}

// Handler returns the router wrapped with access logging and panic recovery.
func (s *ApiServer) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{}))
	return handlers.LoggingHandler(log.Writer(), recovery(s.Router))
}

type panicLogger struct{}

func (panicLogger) Println(v ...interface{}) {
	log.Error("API handler panic: %s", fmt.Sprint(v...))
}

// Run serves the API until the context is done.
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.IP, s.Config.ApiPort)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    fmt.Sprintf("%s:%d", s.Config.IP, s.Config.ApiPort),
	}
	go func() {
		<-s.Context.Done()
		httpServer.Close()
	}()
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/devices", s.handleDevices()).Methods("GET")
	subRouter.HandleFunc("/reg/r/{device}/{index:[0-9]+}", s.handleRegRead()).Methods("GET")
	subRouter.HandleFunc("/reg/r/{device}", s.handleRegReadAll()).Methods("GET")
	subRouter.HandleFunc("/reg/w/{device}", s.handleRegWrite()).Methods("POST")
	subRouter.HandleFunc("/rep_rate/{device}", s.handleRepRateGet()).Methods("GET")
	subRouter.HandleFunc("/rep_rate/{device}", s.handleRepRateSet()).Methods("POST")
	subRouter.HandleFunc("/io_init/{device}", s.handleIoInit()).Methods("POST")
	subRouter.HandleFunc("/output/{device}", s.handleOutput()).Methods("POST")
	subRouter.HandleFunc("/pattern/{name:loop_light|progress_bar}/{device}", s.handlePattern()).Methods("POST")
	subRouter.HandleFunc("/marx/{mode:sync|delta|one|sequence}/{device}", s.handleMarx()).Methods("POST")
	subRouter.HandleFunc("/replay/{device}", s.handleReplay()).Methods("POST")

	s.Router.HandleFunc("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(s.doc.Raw())
	}).Methods("GET")
	s.Router.PathPrefix("/docs").Handler(middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  "/swagger.json",
		Title:    s.doc.Spec().Info.Title,
	}, http.NotFoundHandler()))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

// device looks the device up and answers 404 if it does not exist.
func (s *ApiServer) device(w http.ResponseWriter, r *http.Request) (deviceifc.Device, bool) {
	name := mux.Vars(r)["device"]
	d, err := s.ctrl.GetDeviceByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return d, true
}

func (s *ApiServer) handleDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := []string{}
		for name := range s.ctrl.GetAllDevices() {
			names = append(names, name)
		}
		sort.Strings(names)
		writeJSON(w, names)
	}
}

func (s *ApiServer) handleRegRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reg read request: device: %s, index: %s", vars["device"], vars["index"])

		index, err := strconv.Atoi(vars["index"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := reg.Address(index); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value, ok, err := s.ctrl.RegRead(vars["device"], index)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if !ok {
			http.Error(w, fmt.Sprintf("Register %d was never written", index), http.StatusNotFound)
			return
		}
		writeJSON(w, regHex(reg.Write{Index: index, Value: value}))
	}
}

func (s *ApiServer) handleRegReadAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reg read all request: device: %s", vars["device"])

		regs, err := s.ctrl.RegReadAll(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		regsHex := []*RegHex{}
		for _, write := range regs {
			regsHex = append(regsHex, regHex(write))
		}
		writeJSON(w, regsHex)
	}
}

func (s *ApiServer) handleRegWrite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regHex := &RegHex{}
		if err := json.NewDecoder(r.Body).Decode(regHex); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling reg write request: device: %s index: %d value: %s",
			mux.Vars(r)["device"], regHex.Index, regHex.Value)

		value, err := strconv.ParseUint(regHex.Value, 0, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := reg.Address(regHex.Index); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		if err := device.WriteReg(regHex.Index, uint32(value)); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleRepRateGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		cycles := device.RepRate()
		writeJSON(w, &RepRate{Cycles: uint32(cycles), Seconds: device.Clock().CyclesToSeconds(cycles)})
	}
}

func (s *ApiServer) handleRepRateSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setup := &RepRate{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		cycles, err := device.Clock().SecondsToCycles(setup.Seconds)
		if err == nil && cycles <= 0 {
			err = pulse.ErrInvalidRepRate{RepRate: cycles}
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := device.SetRepRateSeconds(setup.Seconds); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		cycles = device.RepRate()
		writeJSON(w, &RepRate{Cycles: uint32(cycles), Seconds: device.Clock().CyclesToSeconds(cycles)})
	}
}

func (s *ApiServer) handleIoInit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setup := &IoInitSetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := reg.ParseIoInit(setup.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		if err := device.SetIoInit(setup.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleOutput() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setup := &OutputSetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		if _, _, err := reg.ParseOutput(setup.Output); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start, stop := clock.Cycles(setup.Start), clock.Cycles(setup.Stop)
		if !setup.Cycles {
			var err error
			if start, err = device.Clock().SecondsToCycles(setup.Start); err == nil {
				stop, err = device.Clock().SecondsToCycles(setup.Stop)
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		state, err := device.CheckOutputCycles(start, stop, 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := device.SetOutputCycles(setup.Output, start, stop); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, &OutputState{State: state.String()})
	}
}

func (s *ApiServer) handlePattern() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setup := &PatternSetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if setup.Seconds <= 0 {
			http.Error(w, "Pattern period must be positive", http.StatusBadRequest)
			return
		}
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		var err error
		switch mux.Vars(r)["name"] {
		case "loop_light":
			err = device.LoopLight(setup.Seconds, setup.Reverse)
		case "progress_bar":
			err = device.ProgressBar(setup.Seconds, setup.Reverse)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

// decodeMarx decodes the parameters of a mode. Omitted fields take the
// defaults of the mode.
func decodeMarx(mode string, body []byte) (interface{}, error) {
	var params interface{}
	switch mode {
	case "sync":
		params = marx.NewSyncParams(0, 0)
	case "delta":
		params = marx.NewDeltaParams(0, 0)
	case "one":
		params = marx.NewOneParams(0, 0, 0)
	case "sequence":
		params = marx.NewSequenceParams(0, 0)
	default:
		return nil, ErrUnknownOperation{What: mode}
	}
	if err := json.Unmarshal(body, params); err != nil {
		return nil, err
	}
	// defaults that depend on other fields
	explicit := &struct {
		Change      *float64 `json:"change"`
		TimeBetween *float64 `json:"timeBetween"`
	}{}
	if err := json.Unmarshal(body, explicit); err != nil {
		return nil, err
	}
	switch p := params.(type) {
	case *marx.DeltaParams:
		if explicit.Change == nil {
			p.Change = p.ShortestLength / 2
		}
	case *marx.SequenceParams:
		if explicit.TimeBetween == nil {
			p.TimeBetween = p.PulseLength
		}
	}
	return params, nil
}

func (s *ApiServer) handleMarx() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling marx request: device: %s mode: %s", vars["device"], vars["mode"])

		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		deadTime := s.ctrl.DeadTime()
		if v := r.URL.Query().Get("dead_time"); v != "" {
			var err error
			if deadTime, err = strconv.ParseFloat(v, 64); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

		device, ok := s.device(w, r)
		if !ok {
			return
		}
		params, err := decodeMarx(vars["mode"], body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		channels, repRate, err := marx.Synthesize(params)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		program, err := device.Build(channels, deadTime, repRate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !dryRun {
			if err := device.Apply(program); err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
		}
		writeJSON(w, NewProgramSummary(program, !dryRun))
	}
}

func (s *ApiServer) handleReplay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		export := &marx.Export{}
		if err := json.NewDecoder(r.Body).Decode(export); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := export.Check(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		device, ok := s.device(w, r)
		if !ok {
			return
		}
		if err := device.Replay(export); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}
