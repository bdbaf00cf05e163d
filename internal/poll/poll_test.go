package poll

import (
	"errors"
	"testing"
)

const specBlock = `
title = "Test Survey"

[[entries]]
[entries.Text]
question = "What is your name?"

[[entries]]
[entries.Choice]
question = "What is your favorite color?"
options = ["Red", "Green", "Blue"]
multiple = false

[[entries]]
[entries.Choice]
question = "Pick every color you like"
options = ["Red", "Green", "Blue"]
multiple = true
`

func TestParseSpec(t *testing.T) {
	schema, err := ParseSpec(specBlock)
	if err != nil {
		t.Fatalf("ParseSpec() error: %v", err)
	}
	if schema.Title != "Test Survey" {
		t.Errorf("Title = %q, want %q", schema.Title, "Test Survey")
	}
	if len(schema.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(schema.Entries))
	}

	text, ok := schema.Entries[0].(TextQuestion)
	if !ok || text.Question != "What is your name?" {
		t.Errorf("entry 0 = %#v, want a TextQuestion", schema.Entries[0])
	}

	single, ok := schema.Entries[1].(ChoiceQuestion)
	if !ok || single.Multiple {
		t.Fatalf("entry 1 = %#v, want an exclusive ChoiceQuestion", schema.Entries[1])
	}
	if len(single.Options) != 3 || single.Options[1] != "Green" {
		t.Errorf("entry 1 options = %v", single.Options)
	}

	multi, ok := schema.Entries[2].(ChoiceQuestion)
	if !ok || !multi.Multiple {
		t.Errorf("entry 2 = %#v, want a multi-select ChoiceQuestion", schema.Entries[2])
	}
}

func TestParseEmbedded(t *testing.T) {
	entries := []struct {
		name       string
		content    string
		wantSchema bool
		wantErr    bool
	}{
		{
			name:    "no fence at all",
			content: "Just a regular markdown post.\n\nNothing to see here.",
		},
		{
			name:    "opening fence with no closing fence",
			content: "intro\n```survey\ntitle = \"T\"\n",
		},
		{
			name:       "valid block",
			content:    "intro\n```survey\n" + specBlock + "```\noutro " + Placeholder,
			wantSchema: true,
		},
		{
			name:    "malformed toml",
			content: "```survey\ntitle = not quoted\n```",
			wantErr: true,
		},
		{
			name:    "entry with neither shape",
			content: "```survey\ntitle = \"T\"\n[[entries]]\n```",
			wantErr: true,
		},
		{
			name:    "choice without options",
			content: "```survey\ntitle = \"T\"\n[[entries]]\n[entries.Choice]\nquestion = \"q\"\noptions = []\n```",
			wantErr: true,
		},
		{
			name:    "empty question text",
			content: "```survey\ntitle = \"T\"\n[[entries]]\n[entries.Text]\nquestion = \"\"\n```",
			wantErr: true,
		},
		{
			name:    "empty block",
			content: "```survey\n```",
			wantErr: true,
		},
		{
			name:    "missing title",
			content: "```survey\n[[entries]]\n[entries.Text]\nquestion = \"q\"\n```",
			wantErr: true,
		},
		{
			name:    "missing entries",
			content: "```survey\ntitle = \"T\"\n```",
			wantErr: true,
		},
		{
			name:    "unrelated field only",
			content: "```survey\nfoo = 1\n```",
			wantErr: true,
		},
		{
			name:       "only the first pair is honored",
			content:    "```survey\n" + specBlock + "```\n```survey\nboom\n```",
			wantSchema: true,
		},
	}

	for _, e := range entries {
		t.Run(e.name, func(t *testing.T) {
			schema, err := ParseEmbedded(e.content)
			if (err != nil) != e.wantErr {
				t.Fatalf("error = %v, wantErr %t", err, e.wantErr)
			}
			if (schema != nil) != e.wantSchema {
				t.Fatalf("schema = %#v, wantSchema %t", schema, e.wantSchema)
			}
			if e.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("error %v is not a *ParseError", err)
				}
			}
		})
	}
}
