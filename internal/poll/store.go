package poll

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
)

// KV is the slice of the storage engine the poll engine needs. Keys and
// values are opaque byte strings. Insert overwrites on duplicate key;
// ScanPrefix returns the pairs committed at scan time, in ascending key
// order. A results read concurrent with a vote may or may not see it.
type KV interface {
	Insert(ctx context.Context, key, value []byte) error
	ScanPrefix(ctx context.Context, prefix []byte) ([]KVPair, error)
}

// KVPair is one stored entry, as returned by a prefix scan.
type KVPair struct {
	Key   []byte
	Value []byte
}

// VoteKey locates one voter's record: big-endian post id followed by
// big-endian voter id. Uniqueness of this pair is the sole dedup mechanism;
// a re-vote overwrites the prior record.
func VoteKey(postID, voterID uint32) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint32(k, postID)
	binary.BigEndian.PutUint32(k[4:], voterID)
	return k
}

// VotePrefix covers every record stored for one post.
func VotePrefix(postID uint32) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, postID)
	return k
}

// Store persists poll submissions in an injected key-value namespace.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// RecordVote writes one voter's record. Calling it again with the same
// (postID, voterID) replaces the previous record; retrying after a failure
// is safe since the key is deterministic.
func (s *Store) RecordVote(ctx context.Context, postID, voterID uint32, record Record) error {
	return s.kv.Insert(ctx, VoteKey(postID, voterID), EncodeRecord(record))
}

// Votes replays every record stored for a post, in scan order. A record
// that fails to decode aborts the whole read: a silently shortened result
// would corrupt tallies invisibly.
func (s *Store) Votes(ctx context.Context, postID uint32) ([]Record, error) {
	pairs, err := s.kv.ScanPrefix(ctx, VotePrefix(postID))
	if err != nil {
		return nil, fmt.Errorf("reading poll responses: %w", err)
	}
	records := make([]Record, 0, len(pairs))
	for _, pair := range pairs {
		record, err := DecodeRecord(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("poll response %x: %w", pair.Key, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Voted returns the record a voter already submitted for a post, or nil.
func (s *Store) Voted(ctx context.Context, postID, voterID uint32) (Record, error) {
	pairs, err := s.kv.ScanPrefix(ctx, VotePrefix(postID))
	if err != nil {
		return nil, fmt.Errorf("reading poll responses: %w", err)
	}
	want := VoteKey(postID, voterID)
	for _, pair := range pairs {
		if bytes.Equal(pair.Key, want) {
			record, err := DecodeRecord(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("poll response %x: %w", pair.Key, err)
			}
			return record, nil
		}
	}
	return nil, nil
}

// HasVotes reports whether any record exists for a post. Poll definitions
// are frozen once this turns true.
func (s *Store) HasVotes(ctx context.Context, postID uint32) (bool, error) {
	pairs, err := s.kv.ScanPrefix(ctx, VotePrefix(postID))
	if err != nil {
		return false, fmt.Errorf("reading poll responses: %w", err)
	}
	return len(pairs) > 0, nil
}

// Results scans every stored record for a post and folds them into a tally
// against the given schema. Zero records yield an empty tally, not an error.
func (s *Store) Results(ctx context.Context, schema *Schema, postID uint32) (*Tally, error) {
	records, err := s.Votes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return Aggregate(schema, records), nil
}
