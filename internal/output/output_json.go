package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/tkjaer/eping/internal/shared"
)

// Record is one line of the JSON-lines stream.
type Record struct {
	Type    string               `json:"type"` // "run_start", "probe" or "summary"
	Info    *shared.OutputInfo   `json:"info,omitempty"`
	Probe   *shared.ProbeOutcome `json:"probe,omitempty"`
	Summary *shared.Report       `json:"summary,omitempty"`
}

// JSONOutput writes one JSON record per run event to a file or stdout
type JSONOutput struct {
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	toStdout bool
}

func NewJSONOutput(filename string) (*JSONOutput, error) {
	if filename == "" {
		// Output to stdout
		return &JSONOutput{
			file:     os.Stdout,
			enc:      json.NewEncoder(os.Stdout),
			toStdout: true,
		}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

func (j *JSONOutput) RunStart(info shared.OutputInfo) {
	j.encode(Record{Type: "run_start", Info: &info})
}

func (j *JSONOutput) ProbeCompleted(o shared.ProbeOutcome) {
	j.encode(Record{Type: "probe", Probe: &o})
}

func (j *JSONOutput) Complete(r shared.Report) {
	j.encode(Record{Type: "summary", Summary: &r})
}

func (j *JSONOutput) encode(rec Record) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(rec)
}

func (j *JSONOutput) Close() error {
	if j.toStdout {
		return nil
	}
	return j.file.Close()
}
