package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := ParseSpec(specBlock)
	require.NoError(t, err)
	return schema
}

func TestDecodeSubmission(t *testing.T) {
	schema := testSchema(t)

	entries := []struct {
		name string
		raw  string
		want Record
	}{
		{
			name: "every field present",
			raw:  "q0=Alice&q1=Green&q2_0=on&q2_2=on",
			want: Record{TextResponse("Alice"), SingleChoice(1), MultipleChoice{0, 2}},
		},
		{
			name: "empty submission degrades to defaults",
			raw:  "",
			want: Record{TextResponse(""), SingleChoice(0), MultipleChoice(nil)},
		},
		{
			name: "unrecognized single-choice value falls back to option 0",
			raw:  "q1=Purple",
			want: Record{TextResponse(""), SingleChoice(0), MultipleChoice(nil)},
		},
		{
			name: "checkbox presence counts regardless of value",
			raw:  "q2_1=&q2_2=whatever",
			want: Record{TextResponse(""), SingleChoice(0), MultipleChoice{1, 2}},
		},
		{
			name: "url escapes are decoded",
			raw:  "q0=hello+world%21&q1=Blue",
			want: Record{TextResponse("hello world!"), SingleChoice(2), MultipleChoice(nil)},
		},
		{
			name: "garbled pairs are dropped, not fatal",
			raw:  "q0=%zz&q1=Green",
			want: Record{TextResponse(""), SingleChoice(1), MultipleChoice(nil)},
		},
		{
			name: "unknown fields are ignored",
			raw:  "q9=junk&x=1&q1=Red",
			want: Record{TextResponse(""), SingleChoice(0), MultipleChoice(nil)},
		},
	}

	for _, e := range entries {
		t.Run(e.name, func(t *testing.T) {
			record, err := DecodeSubmission(schema, []byte(e.raw))
			require.NoError(t, err)
			assert.Equal(t, e.want, record)
		})
	}
}

func TestDecodeSubmissionNoSchema(t *testing.T) {
	_, err := DecodeSubmission(nil, []byte("q0=x"))
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestDecodeSubmissionDuplicateLabels(t *testing.T) {
	schema := &Schema{
		Title: "dup",
		Entries: []Question{
			ChoiceQuestion{Question: "pick", Options: []string{"Same", "Same", "Other"}},
		},
	}
	record, err := DecodeSubmission(schema, []byte("q0=Same"))
	require.NoError(t, err)
	// The first matching position wins.
	assert.Equal(t, Record{SingleChoice(0)}, record)
}

// Submitting the renderer's untouched defaults must record option 0 for
// every exclusive choice, the empty set for every multi-select and the
// empty string for every text question.
func TestDecodeSubmissionRendererDefaults(t *testing.T) {
	schema := testSchema(t)

	// A browser posts the pre-filled empty text input and the pre-checked
	// first radio; unchecked checkboxes are absent.
	record, err := DecodeSubmission(schema, []byte("q0=&q1=Red"))
	require.NoError(t, err)
	require.Len(t, record, len(schema.Entries))
	assert.Equal(t, TextResponse(""), record[0])
	assert.Equal(t, SingleChoice(0), record[1])
	assert.Equal(t, MultipleChoice(nil), record[2])
}
