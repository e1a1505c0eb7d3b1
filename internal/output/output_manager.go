package output

import "github.com/tkjaer/eping/internal/shared"

// Output interface for different output types
type Output interface {
	RunStart(info shared.OutputInfo)
	ProbeCompleted(o shared.ProbeOutcome)
	Complete(r shared.Report)
	Close() error
}

// OutputManager manages multiple outputs
type OutputManager struct {
	outputs []Output
}

func (om *OutputManager) Register(o Output) {
	om.outputs = append(om.outputs, o)
}

func (om *OutputManager) RunStart(info shared.OutputInfo) {
	for _, o := range om.outputs {
		o.RunStart(info)
	}
}

func (om *OutputManager) ProbeCompleted(outcome shared.ProbeOutcome) {
	for _, o := range om.outputs {
		o.ProbeCompleted(outcome)
	}
}

func (om *OutputManager) Complete(r shared.Report) {
	for _, o := range om.outputs {
		o.Complete(r)
	}
}

func (om *OutputManager) Close() {
	for _, o := range om.outputs {
		o.Close()
	}
}
