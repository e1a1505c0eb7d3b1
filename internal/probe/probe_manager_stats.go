package probe

import (
	"math"
	"time"

	"github.com/tkjaer/eping/internal/shared"
)

// buildReport folds the collected probe outcomes into the final run
// report and attaches the reverse DNS name when the lookup has
// completed by now.
func (pm *ProbeManager) buildReport(outcomes []shared.ProbeOutcome, start, end time.Time) shared.Report {
	report := buildReport(outcomes, start, end)
	report.Destination = pm.probeConfig.destination
	if ptr, ok := pm.resolver.GetPTR(pm.probeConfig.destAddr.IP.String()); ok {
		report.DestinationPTR = ptr
	}
	return report
}

// buildReport computes the aggregate statistics over a run: transmit
// and receive counters, rounded loss percentage, wall-clock duration
// in milliseconds, and RTT min/avg/max over the replies that passed
// checksum verification. Timed-out and corrupted probes count as lost.
func buildReport(outcomes []shared.ProbeOutcome, start, end time.Time) shared.Report {
	report := shared.Report{
		TotalTimeMs: end.Sub(start).Round(time.Millisecond).Milliseconds(),
	}

	var rttSum int64
	for _, outcome := range outcomes {
		if outcome.Sent {
			report.Transmitted++
		}
		if !outcome.Replied() {
			continue
		}
		report.Received++
		rttSum += outcome.RTT
		if report.Received == 1 || outcome.RTT < report.RTTMin {
			report.RTTMin = outcome.RTT
		}
		if outcome.RTT > report.RTTMax {
			report.RTTMax = outcome.RTT
		}
	}

	if report.Transmitted > 0 {
		loss := 1 - float64(report.Received)/float64(report.Transmitted)
		report.LossPct = int(math.Round(loss * 100))
	}
	if report.Received > 0 {
		report.RTTAvg = int64(math.Round(float64(rttSum) / float64(report.Received)))
	}

	return report
}
