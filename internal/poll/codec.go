package poll

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire format of a stored record: a big-endian u32 entry count, then per
// entry a one-byte tag and its payload. Text carries a u32 length plus the
// UTF-8 bytes, SingleChoice a u32 index, MultipleChoice a u32 count plus
// one u32 per picked index. There is no type name and no version stamp;
// the layout must stay stable across releases.
const (
	tagText     = 0
	tagSingle   = 1
	tagMultiple = 2
)

var (
	errTruncated  = errors.New("truncated record")
	errTrailing   = errors.New("trailing bytes after record")
	errUnknownTag = errors.New("unknown response tag")
)

// EncodeRecord serializes a record into its binary form.
func EncodeRecord(record Record) []byte {
	buf := make([]byte, 0, 8+8*len(record))
	buf = appendU32(buf, uint32(len(record)))
	for _, resp := range record {
		switch r := resp.(type) {
		case TextResponse:
			buf = append(buf, tagText)
			buf = appendU32(buf, uint32(len(r)))
			buf = append(buf, r...)
		case SingleChoice:
			buf = append(buf, tagSingle)
			buf = appendU32(buf, uint32(r))
		case MultipleChoice:
			buf = append(buf, tagMultiple)
			buf = appendU32(buf, uint32(len(r)))
			for _, o := range r {
				buf = appendU32(buf, uint32(o))
			}
		}
	}
	return buf
}

// DecodeRecord deserializes a stored record. Truncation, unknown tags and
// trailing bytes are all errors; a store that holds such a value is corrupt.
func DecodeRecord(data []byte) (Record, error) {
	r := reader{data: data}
	count, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if uint64(count) > uint64(len(data)) {
		return nil, fmt.Errorf("decoding record: %w", errTruncated)
	}

	record := make(Record, 0, count)
	for i := uint32(0); i < count; i++ {
		tag, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("decoding record entry %d: %w", i, err)
		}
		switch tag {
		case tagText:
			n, err := r.u32()
			if err != nil {
				return nil, fmt.Errorf("decoding record entry %d: %w", i, err)
			}
			text, err := r.bytes(int(n))
			if err != nil {
				return nil, fmt.Errorf("decoding record entry %d: %w", i, err)
			}
			record = append(record, TextResponse(text))
		case tagSingle:
			o, err := r.u32()
			if err != nil {
				return nil, fmt.Errorf("decoding record entry %d: %w", i, err)
			}
			record = append(record, SingleChoice(o))
		case tagMultiple:
			n, err := r.u32()
			if err != nil {
				return nil, fmt.Errorf("decoding record entry %d: %w", i, err)
			}
			var picked []int
			for j := uint32(0); j < n; j++ {
				o, err := r.u32()
				if err != nil {
					return nil, fmt.Errorf("decoding record entry %d: %w", i, err)
				}
				picked = append(picked, int(o))
			}
			record = append(record, MultipleChoice(picked))
		default:
			return nil, fmt.Errorf("decoding record entry %d: %w (%d)", i, errUnknownTag, tag)
		}
	}
	if !r.done() {
		return nil, fmt.Errorf("decoding record: %w", errTrailing)
	}
	return record, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) u32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, errTruncated
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) byte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, errTruncated
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, errTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) done() bool {
	return r.off == len(r.data)
}
