package poll

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoSchema is returned when a submission is decoded without a schema to
// match it against. Field-level problems never produce an error; they
// degrade to per-question defaults.
var ErrNoSchema = errors.New("no poll schema to decode against")

// Response is one answer, positionally aligned to a schema entry. The three
// concrete shapes are TextResponse, SingleChoice and MultipleChoice.
type Response interface {
	isResponse()
	fmt.Stringer
}

// TextResponse is the free-text answer to a TextQuestion.
type TextResponse string

// SingleChoice is the picked option index of an exclusive ChoiceQuestion.
type SingleChoice int

// MultipleChoice is the ascending set of picked option indices of a
// multi-select ChoiceQuestion.
type MultipleChoice []int

func (TextResponse) isResponse()   {}
func (SingleChoice) isResponse()   {}
func (MultipleChoice) isResponse() {}

func (r TextResponse) String() string { return fmt.Sprintf("Text(%q)", string(r)) }
func (r SingleChoice) String() string { return fmt.Sprintf("SingleChoice(%d)", int(r)) }

func (r MultipleChoice) String() string {
	picked := make([]string, len(r))
	for i, o := range r {
		picked[i] = fmt.Sprint(o)
	}
	return fmt.Sprintf("MultipleChoice(%s)", strings.Join(picked, ","))
}

// Record is one voter's full submission: exactly one response per schema
// entry, in schema order.
type Record []Response

func (rec Record) String() string {
	parts := make([]string, len(rec))
	for i, r := range rec {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// DecodeSubmission matches raw URL-encoded form bytes against a schema.
// Field names follow the form renderer: q{i} for text and exclusive-choice
// questions, q{i}_{o} for each option of a multi-select question.
//
// Missing or garbled fields are never an error: a text answer falls back to
// the empty string, an exclusive choice to option 0, a multi-select to the
// empty set. The error channel is reserved for structural mismatches.
func DecodeSubmission(schema *Schema, raw []byte) (Record, error) {
	if schema == nil {
		return nil, ErrNoSchema
	}

	fields := parseForm(raw)
	record := make(Record, 0, len(schema.Entries))
	for i, entry := range schema.Entries {
		switch q := entry.(type) {
		case TextQuestion:
			record = append(record, TextResponse(fields[fmt.Sprintf("q%d", i)]))
		case ChoiceQuestion:
			if q.Multiple {
				var picked []int
				for o := range q.Options {
					if _, ok := fields[fmt.Sprintf("q%d_%d", i, o)]; ok {
						picked = append(picked, o)
					}
				}
				record = append(record, MultipleChoice(picked))
			} else {
				selected := fields[fmt.Sprintf("q%d", i)]
				pos := 0
				for o, label := range q.Options {
					if label == selected {
						pos = o
						break
					}
				}
				record = append(record, SingleChoice(pos))
			}
		}
	}
	return record, nil
}

// parseForm splits raw form bytes into key/value pairs, dropping pairs that
// fail to unescape instead of failing the whole submission.
func parseForm(raw []byte) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(string(raw), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		fields[key] = value
	}
	return fields
}
