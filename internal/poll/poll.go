// Package poll implements the embedded poll engine: a poll specification is
// written as a fenced TOML block inside a post's markdown, parsed into a
// schema, rendered as a form, and every voter's submission is stored as one
// compact binary record keyed by (post id, voter id).
package poll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Placeholder is the token inside a post's markdown that gets replaced with
// the rendered voting form.
const Placeholder = "__poll_placeholder__"

const (
	openFence  = "```survey"
	closeFence = "```"
)

// Question is one schema entry. The two concrete shapes are TextQuestion
// and ChoiceQuestion; nothing else implements it.
type Question interface {
	isQuestion()
}

// TextQuestion asks for a free-text answer.
type TextQuestion struct {
	Question string
}

// ChoiceQuestion asks the voter to pick from an ordered option list,
// exclusively or not depending on Multiple.
type ChoiceQuestion struct {
	Question string
	Options  []string
	Multiple bool
}

func (TextQuestion) isQuestion()   {}
func (ChoiceQuestion) isQuestion() {}

// Schema is the parsed definition of a poll. It has no identity of its own:
// it is re-derived from the owning post's text every time it is needed.
type Schema struct {
	Title   string
	Entries []Question
}

// ParseError means a specification block was present but not well-formed.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid poll definition: %s", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// The block format mirrors the serialized shape of the schema: entries is a
// list of tables, each holding exactly one of a Text or a Choice table.
// Both top-level fields are required; pointers distinguish an absent field
// from a present-but-empty one.
type tomlSchema struct {
	Title   *string      `toml:"title"`
	Entries *[]tomlEntry `toml:"entries"`
}

type tomlEntry struct {
	Text   *tomlText   `toml:"Text"`
	Choice *tomlChoice `toml:"Choice"`
}

type tomlText struct {
	Question string `toml:"question"`
}

type tomlChoice struct {
	Question string   `toml:"question"`
	Options  []string `toml:"options"`
	Multiple bool     `toml:"multiple"`
}

// EmbeddedBlock extracts the raw text between the first pair of fence
// markers. Later pairs are ignored. An opening marker with no closing
// marker reports no block at all; that leniency is deliberate.
func EmbeddedBlock(content string) (string, bool) {
	_, rest, found := strings.Cut(content, openFence)
	if !found {
		return "", false
	}
	block, _, found := strings.Cut(rest, closeFence)
	if !found {
		return "", false
	}
	return block, true
}

// ParseEmbedded scans a post's text for a poll specification. It returns
// (nil, nil) when the text carries no spec at all, and a ParseError when a
// spec is present but malformed.
func ParseEmbedded(content string) (*Schema, error) {
	block, ok := EmbeddedBlock(content)
	if !ok {
		return nil, nil
	}
	return ParseSpec(block)
}

// ParseSpec deserializes a specification block into a valid schema.
func ParseSpec(src string) (*Schema, error) {
	var raw tomlSchema
	if err := toml.Unmarshal([]byte(src), &raw); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if raw.Title == nil {
		return nil, &ParseError{Cause: errors.New("missing field 'title'")}
	}
	if raw.Entries == nil {
		return nil, &ParseError{Cause: errors.New("missing field 'entries'")}
	}

	schema := &Schema{Title: *raw.Title}
	for i, entry := range *raw.Entries {
		switch {
		case entry.Text != nil && entry.Choice == nil:
			schema.Entries = append(schema.Entries, TextQuestion{
				Question: entry.Text.Question,
			})
		case entry.Choice != nil && entry.Text == nil:
			schema.Entries = append(schema.Entries, ChoiceQuestion{
				Question: entry.Choice.Question,
				Options:  entry.Choice.Options,
				Multiple: entry.Choice.Multiple,
			})
		default:
			return nil, &ParseError{
				Cause: fmt.Errorf("entry %d must hold exactly one of Text or Choice", i),
			}
		}
	}

	if err := schema.validate(); err != nil {
		return nil, &ParseError{Cause: err}
	}
	return schema, nil
}

func (s *Schema) validate() error {
	for i, entry := range s.Entries {
		switch q := entry.(type) {
		case TextQuestion:
			if q.Question == "" {
				return fmt.Errorf("entry %d: question text is empty", i)
			}
		case ChoiceQuestion:
			if q.Question == "" {
				return fmt.Errorf("entry %d: question text is empty", i)
			}
			if len(q.Options) == 0 {
				return fmt.Errorf("entry %d: choice question has no options", i)
			}
		}
	}
	return nil
}
