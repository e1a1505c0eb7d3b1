// Package message implements the 14-byte echo request/reply wire format:
// an ICMPv4-style echo header (type, code, checksum, identifier,
// sequence) followed by a 48-bit big-endian millisecond timestamp.
package message

import (
	"encoding/binary"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// Size is the fixed length of a request on the wire.
	Size = 14

	headerLen    = 8
	timestampLen = 6
)

// RunIdentifier returns the identifier embedded in every request of a
// run. It is derived from the process ID, so it is stable for the run
// and unlikely to collide with other local processes.
func RunIdentifier() uint16 {
	return uint16(os.Getpid())
}

// BuildRequest serializes an echo request for the given sequence number
// and run identifier, timestamped with t. The checksum is computed over
// the whole message with the checksum field zeroed and then flipped, so
// the one's-complement sum of the final message is all ones.
func BuildRequest(seq, identifier uint16, t time.Time) ([]byte, error) {
	icmp := layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       identifier,
		Seq:      seq,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true}
	err := gopacket.SerializeLayers(buf, opts, &icmp, gopacket.Payload(EncodeTimestamp(t)))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Checksum computes the one's-complement sum of the message over
// big-endian 16-bit words, folding any carry beyond 16 bits back into
// the low 16 bits until none remains. The message length is assumed to
// be even; a trailing odd byte is not summed.
func Checksum(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(b[i : i+2]))
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return uint16(sum)
}

// Flip returns the one's complement of a folded checksum, the value
// embedded in the wire checksum field.
func Flip(sum uint16) uint16 {
	return 0xffff - sum
}

// ValidateReply reports whether a reply is intact: the one's-complement
// sum over the entire message, checksum field included, must be all
// ones.
func ValidateReply(b []byte) bool {
	return len(b) >= headerLen && len(b)%2 == 0 && Checksum(b) == 0xffff
}

// Reply holds the fields read from an inbound datagram.
type Reply struct {
	Seq   uint16
	Valid bool
}

// ParseReply reads the reply's sequence number and verifies its
// checksum. The sequence number is read from its fixed offset even when
// the checksum does not verify, so a corrupted reply can still be
// reported by sequence. Replies too short to carry a sequence number
// report sequence 0.
func ParseReply(b []byte) Reply {
	r := Reply{Valid: ValidateReply(b)}
	packet := gopacket.NewPacket(b, layers.LayerTypeICMPv4, gopacket.NoCopy)
	if icmp, ok := packet.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		r.Seq = icmp.Seq
	}
	return r
}

// EncodeTimestamp packs a millisecond epoch timestamp into the 48-bit
// big-endian wire field.
func EncodeTimestamp(t time.Time) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(t.UnixMilli()))
	return b[2:]
}

// DecodeTimestamp is the inverse of EncodeTimestamp.
func DecodeTimestamp(b []byte) time.Time {
	if len(b) < timestampLen {
		return time.Time{}
	}
	var full [8]byte
	copy(full[8-timestampLen:], b[:timestampLen])
	return time.UnixMilli(int64(binary.BigEndian.Uint64(full[:])))
}
