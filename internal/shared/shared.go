package shared

import (
	"time"
)

// ProbeState is the terminal state of a single probe.
type ProbeState string

const (
	StateReplied         ProbeState = "replied"
	StateChecksumInvalid ProbeState = "checksum_invalid"
	StateTimedOut        ProbeState = "timed_out"
)

// ProbeOutcome is the immutable record of one completed probe.
// RTT and ReplySeq are only meaningful when a datagram was received
// (StateReplied or StateChecksumInvalid).
type ProbeOutcome struct {
	Seq      uint16     `json:"seq"`       // request sequence number, 1-based
	Sent     bool       `json:"sent"`      // every dispatched probe counts as transmitted
	State    ProbeState `json:"state"`     // terminal state
	RTT      int64      `json:"rtt_ms"`    // round-trip time in milliseconds, 0 on timeout
	ReplySeq uint16     `json:"reply_seq"` // sequence number read from the reply
	SentTime time.Time  `json:"sent_time"`
	RecvTime time.Time  `json:"recv_time"` // zero on timeout
}

// Replied reports whether the probe received a checksum-valid reply.
func (o ProbeOutcome) Replied() bool {
	return o.State == StateReplied
}

// Received reports whether any datagram came back before the deadline,
// valid or not.
func (o ProbeOutcome) Received() bool {
	return o.State == StateReplied || o.State == StateChecksumInvalid
}

// OutputInfo holds run-level metadata shared with all outputs.
type OutputInfo struct {
	Destination     string `json:"destination"`    // destination as given on the command line
	DestinationIP   string `json:"destination_ip"` // resolved IPv4 address
	DestinationPort uint16 `json:"destination_port"`
	SourceIP        string `json:"source_ip"`
	Identifier      uint16 `json:"identifier"`
	Count           uint   `json:"count"`
	PeriodMs        int64  `json:"period_ms"`
	TimeoutMs       int64  `json:"timeout_ms"`
}

// Report is the aggregate result of a completed run.
type Report struct {
	Destination    string `json:"destination"`
	DestinationPTR string `json:"destination_ptr,omitempty"`
	Transmitted    uint   `json:"transmitted"`
	Received       uint   `json:"received"`
	LossPct        int    `json:"loss_pct"`
	TotalTimeMs    int64  `json:"total_time_ms"`
	RTTMin         int64  `json:"rtt_min_ms"`
	RTTAvg         int64  `json:"rtt_avg_ms"`
	RTTMax         int64  `json:"rtt_max_ms"`
}
