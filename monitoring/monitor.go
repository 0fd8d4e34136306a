// Package monitoring serves a running facility over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/monitoring/web"
	"github.com/sarchlab/casetta/sim"
	"github.com/sarchlab/casetta/state"
)

// Facility is what the monitor reads.
type Facility interface {
	State() facility.State
	Current() sim.TickResult
	Schema() state.Schema
	Modules() []sim.Module
	Module(name string) (sim.Module, bool)
}

// Controller pauses and resumes an episode.
type Controller interface {
	Pause()
	Continue()
	IsPaused() bool
	Progress() (done, total int)
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	facility   Facility
	controller Controller
	gatherer   prometheus.Gatherer
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterFacility registers the facility to be monitored.
func (m *Monitor) RegisterFacility(f Facility) {
	m.facility = f
}

// RegisterController registers the runner that drives the facility.
func (m *Monitor) RegisterController(c Controller) {
	m.controller = c
}

// RegisterGatherer exposes the metrics of g at /metrics.
func (m *Monitor) RegisterGatherer(g prometheus.Gatherer) {
	m.gatherer = g
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router that serves the monitoring API and pages.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause).Methods(http.MethodPost)
	r.HandleFunc("/api/continue", m.resume).Methods(http.MethodPost)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/modules", m.listModules)
	r.HandleFunc("/api/module/{name}", m.moduleDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/snapshot", m.snapshot)
	r.HandleFunc("/api/schema", m.schema)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	if m.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	}

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() (int, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return 0, err
	}

	port := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", port)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panic(err)
		}
	}()

	return port, nil
}

// Shutdown stops the web server.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	if !m.controllerOr503(w) {
		return
	}

	m.controller.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) resume(w http.ResponseWriter, _ *http.Request) {
	if !m.controllerOr503(w) {
		return
	}

	m.controller.Continue()
	w.WriteHeader(http.StatusOK)
}

type nowRsp struct {
	Episode string `json:"episode"`
	Tick    int    `json:"tick"`
	State   string `json:"state"`
	Paused  bool   `json:"paused"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	if !m.facilityOr503(w) {
		return
	}

	current := m.facility.Current()

	rsp := nowRsp{
		Episode: current.EpisodeID,
		Tick:    current.Tick,
		State:   m.facility.State().String(),
	}

	if m.controller != nil {
		rsp.Paused = m.controller.IsPaused()
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listModules(w http.ResponseWriter, _ *http.Request) {
	if !m.facilityOr503(w) {
		return
	}

	names := []string{}
	for _, mod := range m.facility.Modules() {
		names = append(names, mod.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) moduleDetails(w http.ResponseWriter, r *http.Request) {
	module := m.findModuleOr404(w, mux.Vars(r)["name"])
	if module == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(module)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type fieldReq struct {
	ModuleName string `json:"module_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	module := m.findModuleOr404(w, req.ModuleName)
	if module == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(module)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type snapshotRsp struct {
	Episode string             `json:"episode"`
	Tick    int                `json:"tick"`
	Fields  map[string]float64 `json:"fields"`
	Action  map[string]float64 `json:"action,omitempty"`
}

// snapshot serves the latest snapshot. The prefix query parameter keeps only
// the fields whose names start with it.
func (m *Monitor) snapshot(w http.ResponseWriter, r *http.Request) {
	if !m.facilityOr503(w) {
		return
	}

	current := m.facility.Current()
	prefix := r.URL.Query().Get("prefix")

	fields := make(map[string]float64)
	for k, v := range current.Snapshot.ToMap() {
		if strings.HasPrefix(k, prefix) {
			fields[k] = finite(v)
		}
	}

	writeJSON(w, snapshotRsp{
		Episode: current.EpisodeID,
		Tick:    current.Tick,
		Fields:  fields,
		Action:  current.Action,
	})
}

type fieldSpecRsp struct {
	Name string   `json:"name"`
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
}

type schemaRsp struct {
	Observation []fieldSpecRsp `json:"observation"`
	Action      []fieldSpecRsp `json:"action"`
}

// schema serves the observation and action schemas. Infinite bounds are
// encoded as null.
func (m *Monitor) schema(w http.ResponseWriter, _ *http.Request) {
	if !m.facilityOr503(w) {
		return
	}

	s := m.facility.Schema()

	writeJSON(w, schemaRsp{
		Observation: toFieldSpecRsp(s.Observation),
		Action:      toFieldSpecRsp(s.Action),
	})
}

func toFieldSpecRsp(fields []sim.FieldSpec) []fieldSpecRsp {
	out := make([]fieldSpecRsp, len(fields))
	for i, f := range fields {
		out[i] = fieldSpecRsp{
			Name: f.Name,
			Low:  bound(f.Low),
			High: bound(f.High),
		}
	}

	return out
}

func bound(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}

	return &v
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}

	return v
}

func (m *Monitor) findModuleOr404(
	w http.ResponseWriter,
	name string,
) sim.Module {
	if !m.facilityOr503(w) {
		return nil
	}

	module, ok := m.facility.Module(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Module not found"))
		dieOnErr(err)

		return nil
	}

	return module
}

func (m *Monitor) facilityOr503(w http.ResponseWriter) bool {
	if m.facility == nil {
		http.Error(w, "no facility registered", http.StatusServiceUnavailable)
		return false
	}

	return true
}

func (m *Monitor) controllerOr503(w http.ResponseWriter) bool {
	if m.controller == nil {
		http.Error(w, "no runner registered", http.StatusServiceUnavailable)
		return false
	}

	return true
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars)+1)
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	if m.controller != nil {
		done, total := m.controller.Progress()
		bars = append(bars, progressRsp{
			ID:       "episode",
			Name:     "Episode",
			Total:    uint64(total),
			Finished: uint64(done),
		})
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memorySize, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

// collectProfile samples the CPU for the number of seconds in the seconds
// query parameter, one by default.
func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second

	if s := r.URL.Query().Get("seconds"); s != "" {
		seconds, err := strconv.ParseFloat(s, 64)
		if err != nil || seconds <= 0 {
			http.Error(w, "invalid seconds", http.StatusBadRequest)
			return
		}

		duration = time.Duration(seconds * float64(time.Second))
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(duration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
