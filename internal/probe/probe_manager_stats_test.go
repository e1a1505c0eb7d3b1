package probe

import (
	"testing"
	"time"

	"github.com/tkjaer/eping/internal/shared"
)

func TestBuildReport(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		outcomes []shared.ProbeOutcome
		end      time.Time
		want     shared.Report
	}{
		{
			name:     "no outcomes",
			outcomes: nil,
			end:      start,
			want:     shared.Report{},
		},
		{
			name: "all replied",
			outcomes: []shared.ProbeOutcome{
				{Seq: 1, Sent: true, State: shared.StateReplied, RTT: 10},
				{Seq: 2, Sent: true, State: shared.StateReplied, RTT: 30},
				{Seq: 3, Sent: true, State: shared.StateReplied, RTT: 20},
			},
			end: start.Add(2100 * time.Millisecond),
			want: shared.Report{
				Transmitted: 3,
				Received:    3,
				LossPct:     0,
				TotalTimeMs: 2100,
				RTTMin:      10,
				RTTAvg:      20,
				RTTMax:      30,
			},
		},
		{
			name: "one of three lost rounds to 33",
			outcomes: []shared.ProbeOutcome{
				{Seq: 1, Sent: true, State: shared.StateReplied, RTT: 5},
				{Seq: 2, Sent: true, State: shared.StateTimedOut},
				{Seq: 3, Sent: true, State: shared.StateReplied, RTT: 6},
			},
			end: start.Add(3 * time.Second),
			want: shared.Report{
				Transmitted: 3,
				Received:    2,
				LossPct:     33,
				TotalTimeMs: 3000,
				RTTMin:      5,
				RTTAvg:      6,
				RTTMax:      6,
			},
		},
		{
			name: "two of three lost rounds to 67",
			outcomes: []shared.ProbeOutcome{
				{Seq: 1, Sent: true, State: shared.StateTimedOut},
				{Seq: 2, Sent: true, State: shared.StateReplied, RTT: 12},
				{Seq: 3, Sent: true, State: shared.StateTimedOut},
			},
			end: start.Add(3 * time.Second),
			want: shared.Report{
				Transmitted: 3,
				Received:    1,
				LossPct:     67,
				TotalTimeMs: 3000,
				RTTMin:      12,
				RTTAvg:      12,
				RTTMax:      12,
			},
		},
		{
			name: "checksum failures count as lost",
			outcomes: []shared.ProbeOutcome{
				{Seq: 1, Sent: true, State: shared.StateReplied, RTT: 8},
				{Seq: 2, Sent: true, State: shared.StateChecksumInvalid, RTT: 9},
			},
			end: start.Add(1500 * time.Millisecond),
			want: shared.Report{
				Transmitted: 2,
				Received:    1,
				LossPct:     50,
				TotalTimeMs: 1500,
				RTTMin:      8,
				RTTAvg:      8,
				RTTMax:      8,
			},
		},
		{
			name: "all lost leaves rtt stats zero",
			outcomes: []shared.ProbeOutcome{
				{Seq: 1, Sent: true, State: shared.StateTimedOut},
				{Seq: 2, Sent: true, State: shared.StateTimedOut},
			},
			end: start.Add(4 * time.Second),
			want: shared.Report{
				Transmitted: 2,
				Received:    0,
				LossPct:     100,
				TotalTimeMs: 4000,
			},
		},
		{
			name: "sub-millisecond duration rounds",
			outcomes: []shared.ProbeOutcome{
				{Seq: 1, Sent: true, State: shared.StateReplied, RTT: 1},
			},
			end: start.Add(1499 * time.Microsecond),
			want: shared.Report{
				Transmitted: 1,
				Received:    1,
				LossPct:     0,
				TotalTimeMs: 1,
				RTTMin:      1,
				RTTAvg:      1,
				RTTMax:      1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildReport(tt.outcomes, start, tt.end)
			if got != tt.want {
				t.Errorf("buildReport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildReportAvgRounds(t *testing.T) {
	outcomes := []shared.ProbeOutcome{
		{Seq: 1, Sent: true, State: shared.StateReplied, RTT: 1},
		{Seq: 2, Sent: true, State: shared.StateReplied, RTT: 2},
	}
	got := buildReport(outcomes, time.Time{}, time.Time{})
	if got.RTTAvg != 2 {
		t.Errorf("RTTAvg = %d, want 2 (1.5 rounds half away from zero)", got.RTTAvg)
	}
}
