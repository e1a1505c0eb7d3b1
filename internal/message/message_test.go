package message

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestBuildRequest_Layout(t *testing.T) {
	ts := time.UnixMilli(0x0123456789ab)
	msg, err := BuildRequest(7, 0xbeef, ts)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	if len(msg) != Size {
		t.Fatalf("BuildRequest() length = %d, want %d", len(msg), Size)
	}
	if msg[0] != 8 {
		t.Errorf("type = %d, want 8", msg[0])
	}
	if msg[1] != 0 {
		t.Errorf("code = %d, want 0", msg[1])
	}
	if id := binary.BigEndian.Uint16(msg[4:6]); id != 0xbeef {
		t.Errorf("identifier = %#04x, want 0xbeef", id)
	}
	if seq := binary.BigEndian.Uint16(msg[6:8]); seq != 7 {
		t.Errorf("sequence = %d, want 7", seq)
	}
	if !bytes.Equal(msg[8:], []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab}) {
		t.Errorf("timestamp bytes = % x, want 01 23 45 67 89 ab", msg[8:])
	}
}

func TestBuildRequest_ChecksumRoundTrip(t *testing.T) {
	// For any request, the embedded checksum must equal the flipped
	// one's-complement sum of the draft with a zeroed checksum field,
	// and the sum over the final message must be all ones.
	tests := []struct {
		seq        uint16
		identifier uint16
	}{
		{1, 0},
		{1, 0x1234},
		{2, 0xffff},
		{500, 42},
		{0xffff, 0xffff},
	}

	for _, tt := range tests {
		msg, err := BuildRequest(tt.seq, tt.identifier, time.Now())
		if err != nil {
			t.Fatalf("BuildRequest(%d, %#04x) error = %v", tt.seq, tt.identifier, err)
		}

		draft := make([]byte, len(msg))
		copy(draft, msg)
		draft[2], draft[3] = 0, 0

		want := Flip(Checksum(draft))
		if got := binary.BigEndian.Uint16(msg[2:4]); got != want {
			t.Errorf("embedded checksum = %#04x, want %#04x", got, want)
		}
		if sum := Checksum(msg); sum != 0xffff {
			t.Errorf("Checksum(final message) = %#04x, want 0xffff", sum)
		}
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint16
	}{
		{"empty", nil, 0},
		{"single word", []byte{0x00, 0x03}, 0x0003},
		{"two words", []byte{0x00, 0x01, 0x00, 0x02}, 0x0003},
		{"single fold", []byte{0xff, 0xff, 0x00, 0x01}, 0x0001},
		{"all ones", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0xffff},
		{"big-endian word order", []byte{0x12, 0x34}, 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.in); got != tt.want {
				t.Errorf("Checksum(% x) = %#04x, want %#04x", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateReply_SingleBitFlips(t *testing.T) {
	msg, err := BuildRequest(3, 0x1234, time.Now())
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if !ValidateReply(msg) {
		t.Fatal("ValidateReply() rejected an intact message")
	}

	// Flipping any single bit anywhere in the message, checksum field
	// included, must be detected.
	for i := range msg {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(msg))
			copy(corrupted, msg)
			corrupted[i] ^= 1 << bit
			if ValidateReply(corrupted) {
				t.Errorf("ValidateReply() accepted message with byte %d bit %d flipped", i, bit)
			}
		}
	}
}

func TestParseReply(t *testing.T) {
	msg, err := BuildRequest(9, 0xcafe, time.Now())
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	r := ParseReply(msg)
	if !r.Valid {
		t.Error("ParseReply() intact message not valid")
	}
	if r.Seq != 9 {
		t.Errorf("ParseReply() seq = %d, want 9", r.Seq)
	}

	// A corrupted reply still reports its sequence number.
	corrupted := make([]byte, len(msg))
	copy(corrupted, msg)
	corrupted[10] ^= 0x01
	r = ParseReply(corrupted)
	if r.Valid {
		t.Error("ParseReply() corrupted message reported valid")
	}
	if r.Seq != 9 {
		t.Errorf("ParseReply() corrupted seq = %d, want 9", r.Seq)
	}

	// Too short to carry a sequence number.
	r = ParseReply([]byte{8, 0})
	if r.Valid {
		t.Error("ParseReply() short message reported valid")
	}
	if r.Seq != 0 {
		t.Errorf("ParseReply() short message seq = %d, want 0", r.Seq)
	}

	// Odd-length replies cannot verify.
	if ValidateReply(append(append([]byte{}, msg...), 0x00)) {
		t.Error("ValidateReply() accepted odd-length message")
	}
}

func TestEncodeDecodeTimestamp(t *testing.T) {
	tests := []time.Time{
		time.UnixMilli(0),
		time.UnixMilli(1),
		time.UnixMilli(0x0123456789ab),
		time.Now().Truncate(time.Millisecond),
	}

	for _, ts := range tests {
		got := DecodeTimestamp(EncodeTimestamp(ts))
		if !got.Equal(ts) {
			t.Errorf("DecodeTimestamp(EncodeTimestamp(%v)) = %v", ts, got)
		}
	}

	if !DecodeTimestamp(nil).IsZero() {
		t.Error("DecodeTimestamp(nil) should be zero")
	}
}
