package render

import (
	"strings"
	"testing"

	"gitlab.com/agorahq/agora/internal/poll"
)

func formSchema() *poll.Schema {
	return &poll.Schema{
		Title: "Test Survey",
		Entries: []poll.Question{
			poll.TextQuestion{Question: "What is your name?"},
			poll.ChoiceQuestion{Question: "color?", Options: []string{"Red", "Green", "Blue"}},
			poll.ChoiceQuestion{Question: "colors?", Options: []string{"Red", "Green"}, Multiple: true},
		},
	}
}

func TestPollFormDefaults(t *testing.T) {
	html := PollForm(formSchema(), 1, 7, nil)

	mustContain := []string{
		"<h1>Test Survey</h1>",
		`<form action="/post/1/7/pollvote" method="post">`,
		`<input type="text" id="q0" name="q0" value="">`,
		// With no prior response the first option is pre-selected.
		`<input type="radio" id="q1_0" name="q1" value="Red" checked>`,
		`<input type="radio" id="q1_1" name="q1" value="Green">`,
		`<input type="radio" id="q1_2" name="q1" value="Blue">`,
		// Multi-selects have no default.
		`<input type="checkbox" id="q2_0" name="q2_0">`,
		`<input type="checkbox" id="q2_1" name="q2_1">`,
	}
	for _, want := range mustContain {
		if !strings.Contains(html, want) {
			t.Errorf("form is missing %q\n%s", want, html)
		}
	}
}

func TestPollFormPriorResponse(t *testing.T) {
	prior := poll.Record{
		poll.TextResponse("Alice"),
		poll.SingleChoice(2),
		poll.MultipleChoice{1},
	}
	html := PollForm(formSchema(), 1, 7, prior)

	mustContain := []string{
		`<input type="text" id="q0" name="q0" value="Alice">`,
		`<input type="radio" id="q1_0" name="q1" value="Red">`,
		`<input type="radio" id="q1_2" name="q1" value="Blue" checked>`,
		`<input type="checkbox" id="q2_0" name="q2_0">`,
		`<input type="checkbox" id="q2_1" name="q2_1" checked>`,
	}
	for _, want := range mustContain {
		if !strings.Contains(html, want) {
			t.Errorf("form is missing %q\n%s", want, html)
		}
	}
}

func TestPollFormEscapesUntrustedText(t *testing.T) {
	schema := &poll.Schema{
		Title: `<script>alert("title")</script>`,
		Entries: []poll.Question{
			poll.TextQuestion{Question: `a "quoted" question`},
			poll.ChoiceQuestion{Question: "pick", Options: []string{`<b>bold</b>`}},
		},
	}
	prior := poll.Record{poll.TextResponse(`" onmouseover="x`), poll.SingleChoice(0)}
	html := PollForm(schema, 1, 7, prior)

	forbidden := []string{
		`<script>`,
		`<b>bold</b>`,
		`value="" onmouseover=`,
	}
	for _, bad := range forbidden {
		if strings.Contains(html, bad) {
			t.Errorf("form contains unescaped %q\n%s", bad, html)
		}
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("title was not escaped\n%s", html)
	}
}

func TestReplacePlaceholder(t *testing.T) {
	content := "<p>before</p><p>" + poll.Placeholder + "</p><p>" + poll.Placeholder + "</p>"
	got := ReplacePlaceholder(content, "<form/>")

	if strings.Count(got, "<form/>") != 1 {
		t.Errorf("fragment should replace exactly the first placeholder: %s", got)
	}
	if !strings.Contains(got, poll.Placeholder) {
		t.Errorf("second placeholder should survive: %s", got)
	}

	unchanged := ReplacePlaceholder("no token here", "<form/>")
	if unchanged != "no token here" {
		t.Errorf("content without the token must pass through: %s", unchanged)
	}
}

func TestReplacePlaceholderAfterMarkdown(t *testing.T) {
	// The normal authoring path: the token sits in a markdown paragraph and
	// comes out the other side of the renderer as an emphasis element.
	html := string(Markdown("hello\n\n" + poll.Placeholder + "\n\nbye"))
	if strings.Contains(html, poll.Placeholder) {
		t.Fatalf("renderer no longer mangles the token, simplify ReplacePlaceholder: %s", html)
	}

	got := ReplacePlaceholder(html, "<form>poll</form>")
	if !strings.Contains(got, "<form>poll</form>") {
		t.Errorf("form was not substituted into rendered markdown: %s", got)
	}
	if strings.Contains(got, "poll_placeholder") {
		t.Errorf("placeholder residue left behind: %s", got)
	}

	// Inline use inside a longer paragraph still lands the form.
	inline := string(Markdown("vote here: " + poll.Placeholder + " thanks"))
	got = ReplacePlaceholder(inline, "<form>poll</form>")
	if !strings.Contains(got, "<form>poll</form>") {
		t.Errorf("inline form was not substituted: %s", got)
	}
}
