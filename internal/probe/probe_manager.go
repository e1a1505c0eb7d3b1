package probe

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/tkjaer/eping/internal/config"
	"github.com/tkjaer/eping/internal/message"
	"github.com/tkjaer/eping/internal/output"
	"github.com/tkjaer/eping/internal/shared"
	"github.com/tkjaer/eping/pkg/resolve"
	"github.com/tkjaer/eping/pkg/route"
)

type outputConfig struct {
	jsonOutput bool
	jsonFile   string
}

// ProbeManager dispatches probes on a fixed-period schedule and owns
// the outcome log they feed.
type ProbeManager struct {
	// Coordination
	wg          sync.WaitGroup
	outcomeChan chan shared.ProbeOutcome

	// Shared resources
	om       *output.OutputManager
	resolver *resolve.Resolver

	// Probe Configuration
	probeConfig  ProbeConfig
	outputConfig outputConfig
}

// NewProbeManager creates and initializes a probe manager
func NewProbeManager(a config.Args) (*ProbeManager, error) {
	pm := &ProbeManager{
		outcomeChan: make(chan shared.ProbeOutcome, a.Count),
		resolver:    resolve.New(5 * time.Minute),

		probeConfig: ProbeConfig{
			destination: a.Destination,
			identifier:  message.RunIdentifier(),
			count:       a.Count,
			period:      a.Period,
			timeout:     a.Timeout,
		},

		outputConfig: outputConfig{
			jsonOutput: a.Json,
			jsonFile:   a.JsonFile,
		},
	}

	if err := pm.init(a); err != nil {
		return nil, err
	}

	return pm, nil
}

// init resolves the destination and selects the local source address.
// Any failure here is a configuration error and aborts the run before
// the first probe is dispatched.
func (pm *ProbeManager) init(a config.Args) error {
	dst, err := pm.resolver.Destination(a.Destination)
	if err != nil {
		return err
	}
	pm.probeConfig.destAddr = &net.UDPAddr{
		IP:   dst.AsSlice(),
		Port: int(a.DestinationPort),
	}

	// Source selection failure is not fatal: probes fall back to
	// binding the unspecified address and the kernel picks the source.
	if r, err := route.Get(dst); err == nil {
		pm.probeConfig.source = net.IP(r.Source.AsSlice())
		slog.Debug("Selected source address",
			"source", r.Source,
			"interface", r.Interface.Name,
		)
	} else {
		slog.Debug("Route lookup failed, binding the unspecified address", "error", err)
	}

	sourceIP := ""
	if pm.probeConfig.source != nil {
		sourceIP = pm.probeConfig.source.String()
	}
	pm.probeConfig.info = shared.OutputInfo{
		Destination:     pm.probeConfig.destination,
		DestinationIP:   dst.String(),
		DestinationPort: a.DestinationPort,
		SourceIP:        sourceIP,
		Identifier:      pm.probeConfig.identifier,
		Count:           a.Count,
		PeriodMs:        a.Period.Milliseconds(),
		TimeoutMs:       a.Timeout.Milliseconds(),
	}

	return nil
}

// createOutputs creates and registers the configured output handlers
func (pm *ProbeManager) createOutputs() *output.OutputManager {
	om := &output.OutputManager{}

	// If JSON output is enabled it owns stdout, otherwise the console
	// lines do.
	if pm.outputConfig.jsonOutput {
		if jsonOut, err := output.NewJSONOutput(""); err == nil { // empty string = stdout
			om.Register(jsonOut)
		}
	} else {
		om.Register(output.NewConsoleOutput(nil, pm.probeConfig.destination))
	}

	// If JSON file output is enabled, write to file alongside the console
	if pm.outputConfig.jsonFile != "" {
		if jsonOut, err := output.NewJSONOutput(pm.outputConfig.jsonFile); err == nil {
			om.Register(jsonOut)
		} else {
			slog.Warn("Failed to create JSON file output", "error", err)
		}
	}

	return om
}

// Run dispatches all probes, waits for every one of them to reach a
// terminal state, and emits the final report. Dispatch deadlines are
// absolute offsets from run start, so a slow probe never delays the
// schedule and a probe whose timeout exceeds the period can still be in
// flight when the next one goes out.
func (pm *ProbeManager) Run() error {
	if pm.om == nil {
		pm.om = pm.createOutputs()
	}
	defer pm.om.Close()

	// Resolve the destination PTR in the background for the JSON outputs
	go pm.resolver.RequestPTR(pm.probeConfig.destAddr.IP.String())

	slog.Debug("Starting run",
		"destination", pm.probeConfig.destAddr.String(),
		"count", pm.probeConfig.count,
		"period", pm.probeConfig.period,
		"timeout", pm.probeConfig.timeout,
	)

	start := time.Now()

	for k := uint(0); k < pm.probeConfig.count; k++ {
		// The first probe goes out immediately, probe k at start+k*period.
		if k > 0 {
			if d := time.Until(start.Add(time.Duration(k) * pm.probeConfig.period)); d > 0 {
				time.Sleep(d)
			}
		}

		p := &Probe{
			seq:    uint16(k + 1),
			config: &pm.probeConfig,
			om:     pm.om,
		}
		pm.wg.Add(1)
		go func() {
			defer pm.wg.Done()
			pm.outcomeChan <- p.Run()
		}()
	}

	// Completion barrier: the summary is never emitted while any probe
	// is still outstanding.
	pm.wg.Wait()
	end := time.Now()
	close(pm.outcomeChan)

	outcomes := make([]shared.ProbeOutcome, 0, pm.probeConfig.count)
	for o := range pm.outcomeChan {
		outcomes = append(outcomes, o)
	}

	pm.om.Complete(pm.buildReport(outcomes, start, end))
	return nil
}
