package probe

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/tkjaer/eping/internal/message"
	"github.com/tkjaer/eping/internal/output"
	"github.com/tkjaer/eping/internal/shared"
)

const maxReplySize = 2048

// ProbeConfig holds configuration common to all probes
type ProbeConfig struct {
	destination string // destination as given on the command line
	destAddr    *net.UDPAddr
	source      net.IP // local address probes bind to, nil binds the unspecified address
	identifier  uint16
	count       uint
	period      time.Duration
	timeout     time.Duration
	info        shared.OutputInfo
}

// Probe owns the life cycle of a single echo request: bind a fresh
// local endpoint, transmit, await the reply or the deadline, classify.
type Probe struct {
	seq    uint16
	config *ProbeConfig
	om     *output.OutputManager
}

// Run executes the probe to one of its terminal states and returns the
// outcome. Transport failures other than the deadline are contained
// here: they are logged, recorded as timed out, and never propagated,
// so a malfunctioning probe cannot abort its siblings.
func (p *Probe) Run() shared.ProbeOutcome {
	outcome := p.run()
	p.om.ProbeCompleted(outcome)
	return outcome
}

func (p *Probe) run() shared.ProbeOutcome {
	outcome := shared.ProbeOutcome{
		Seq:      p.seq,
		Sent:     true,
		State:    shared.StateTimedOut,
		SentTime: time.Now(),
	}

	// Every probe binds its own ephemeral endpoint so replies to other
	// outstanding probes cannot cross-talk with this one.
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: p.config.source})
	if err != nil {
		slog.Error("Failed to bind local endpoint", "seq", p.seq, "error", err)
		return outcome
	}
	defer conn.Close()

	if p.seq == 1 {
		p.om.RunStart(p.config.info)
	}

	req, err := message.BuildRequest(p.seq, p.config.identifier, time.Now())
	if err != nil {
		slog.Error("Failed to build request", "seq", p.seq, "error", err)
		return outcome
	}

	start := time.Now()
	outcome.SentTime = start
	if err := conn.SetReadDeadline(start.Add(p.config.timeout)); err != nil {
		slog.Error("Failed to set receive deadline", "seq", p.seq, "error", err)
		return outcome
	}
	if _, err := conn.WriteToUDP(req, p.config.destAddr); err != nil {
		slog.Error("Failed to transmit request", "seq", p.seq, "error", err)
		return outcome
	}

	// Await exactly one inbound datagram or the deadline.
	buf := make([]byte, maxReplySize)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			slog.Error("Receive failed", "seq", p.seq, "error", err)
		}
		return outcome
	}
	end := time.Now()

	outcome.RecvTime = end
	outcome.RTT = end.Sub(start).Milliseconds()

	reply := message.ParseReply(buf[:n])
	outcome.ReplySeq = reply.Seq
	if reply.Valid {
		outcome.State = shared.StateReplied
	} else {
		outcome.State = shared.StateChecksumInvalid
	}
	return outcome
}
