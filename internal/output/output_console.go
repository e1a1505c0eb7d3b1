package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tkjaer/eping/internal/shared"
)

// ConsoleOutput writes the fixed per-probe lines and the final summary
// block. Probe lines appear in completion order; each line is written
// under the lock so concurrent probes never interleave mid-line.
type ConsoleOutput struct {
	mu          sync.Mutex
	w           io.Writer
	destination string
}

// NewConsoleOutput creates a console output writing to w, or to stdout
// when w is nil. The destination is echoed in the PING/PONG lines
// exactly as it was given on the command line.
func NewConsoleOutput(w io.Writer, destination string) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w, destination: destination}
}

func (c *ConsoleOutput) RunStart(info shared.OutputInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "PING %s\n", c.destination)
}

func (c *ConsoleOutput) ProbeCompleted(o shared.ProbeOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch o.State {
	case shared.StateReplied:
		fmt.Fprintf(c.w, "PONG %s: seq=%d time=%d ms\n", c.destination, o.ReplySeq, o.RTT)
	case shared.StateChecksumInvalid:
		fmt.Fprintf(c.w, "WARNING: checksum verification failure for echo reply seqno=%d\n", o.ReplySeq)
	case shared.StateTimedOut:
		// timeouts only show up in the summary
	}
}

func (c *ConsoleOutput) Complete(r shared.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "--- %s ping statistics ---\n", c.destination)
	fmt.Fprintf(c.w, "%d transmitted, %d received, %d%% loss, time %d ms\n",
		r.Transmitted, r.Received, r.LossPct, r.TotalTimeMs)
	fmt.Fprintf(c.w, "rtt min/avg/max = %d/%d/%d ms\n", r.RTTMin, r.RTTAvg, r.RTTMax)
}

func (c *ConsoleOutput) Close() error {
	return nil
}
