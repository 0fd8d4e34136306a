package datarecording

import (
	"os"
	"sort"
	"strings"
	"time"
)

// ExecInfoTable is the table that stores the run metadata.
const ExecInfoTable = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is a single property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how a run was launched.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
	now      func() time.Time
}

// NewExecRecorder creates the exec_info table on the given recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &ExecRecorder{
		recorder: recorder,
		now:      time.Now,
	}
}

// Start captures the start time, the command line, and the working
// directory. Extra properties are stored in key order.
func (e *ExecRecorder) Start(extra map[string]string) {
	e.add("Start Time", e.now().Format(timeLayout))
	e.add("Command", strings.Join(os.Args, " "))

	if cwd, err := os.Getwd(); err == nil {
		e.add("Working Directory", cwd)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		e.add(k, extra[k])
	}
}

// End writes all captured properties and the end time, then flushes.
func (e *ExecRecorder) End() {
	e.add("End Time", e.now().Format(timeLayout))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}

func (e *ExecRecorder) add(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}
