package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodecRoundTrip(t *testing.T) {
	entries := []struct {
		name   string
		record Record
	}{
		{name: "empty record", record: Record{}},
		{name: "single text", record: Record{TextResponse("Alice")}},
		{name: "empty text", record: Record{TextResponse("")}},
		{name: "unicode text", record: Record{TextResponse("héllo • wörld")}},
		{name: "single choice", record: Record{SingleChoice(2)}},
		{name: "empty multiple", record: Record{MultipleChoice(nil)}},
		{
			name: "full submission",
			record: Record{
				TextResponse("Alice"),
				SingleChoice(1),
				MultipleChoice{0, 2},
			},
		},
	}

	for _, e := range entries {
		t.Run(e.name, func(t *testing.T) {
			decoded, err := DecodeRecord(EncodeRecord(e.record))
			require.NoError(t, err)
			assert.Equal(t, e.record, decoded)
		})
	}
}

// The layout is a persisted format: these exact bytes must keep decoding
// forever.
func TestEncodeRecordLayout(t *testing.T) {
	record := Record{TextResponse("Alice"), SingleChoice(1), MultipleChoice{0, 2}}
	want := []byte{
		0x00, 0x00, 0x00, 0x03, // three entries
		0x00, 0x00, 0x00, 0x00, 0x05, 'A', 'l', 'i', 'c', 'e',
		0x01, 0x00, 0x00, 0x00, 0x01,
		0x02, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
	}
	assert.Equal(t, want, EncodeRecord(record))
}

func TestDecodeRecordCorruption(t *testing.T) {
	valid := EncodeRecord(Record{TextResponse("Alice"), SingleChoice(1)})

	entries := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: []byte{}},
		{name: "truncated header", data: []byte{0x00, 0x00}},
		{name: "count larger than payload", data: []byte{0xff, 0xff, 0xff, 0xff}},
		{name: "truncated entry", data: valid[:len(valid)-2]},
		{name: "trailing bytes", data: append(append([]byte{}, valid...), 0x00)},
		{name: "unknown tag", data: []byte{0x00, 0x00, 0x00, 0x01, 0x07}},
	}

	for _, e := range entries {
		t.Run(e.name, func(t *testing.T) {
			_, err := DecodeRecord(e.data)
			assert.Error(t, err)
		})
	}
}
