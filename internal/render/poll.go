package render

import (
	"fmt"
	"html/template"
	"strings"

	"gitlab.com/agorahq/agora/internal/poll"
)

// PollForm builds the HTML fragment for a poll's voting form. With a prior
// record the inputs reproduce that submission; without one, exclusive
// choices default to their first option, so a no-op submission records
// index 0. All interpolated text is escaped.
func PollForm(schema *poll.Schema, boardID, postID uint32, prior poll.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", esc(schema.Title))
	fmt.Fprintf(&b, "<form action=\"/post/%d/%d/pollvote\" method=\"post\">", boardID, postID)
	for i, entry := range schema.Entries {
		switch q := entry.(type) {
		case poll.TextQuestion:
			value := ""
			if i < len(prior) {
				if t, ok := prior[i].(poll.TextResponse); ok {
					value = string(t)
				}
			}
			fmt.Fprintf(&b, "<p><b><label for=\"q%d\">%s</label></b></p>", i, esc(q.Question))
			fmt.Fprintf(&b, "<p><input type=\"text\" id=\"q%d\" name=\"q%d\" value=\"%s\"></p>", i, i, esc(value))
		case poll.ChoiceQuestion:
			fmt.Fprintf(&b, "<p><b>%s</b></p><ul>", esc(q.Question))
			for o, label := range q.Options {
				if q.Multiple {
					checked := ""
					if i < len(prior) {
						if m, ok := prior[i].(poll.MultipleChoice); ok && containsIndex(m, o) {
							checked = " checked"
						}
					}
					fmt.Fprintf(&b, "<li><input type=\"checkbox\" id=\"q%d_%d\" name=\"q%d_%d\"%s>", i, o, i, o, checked)
				} else {
					checked := ""
					if prior == nil {
						if o == 0 {
							checked = " checked"
						}
					} else if i < len(prior) {
						if s, ok := prior[i].(poll.SingleChoice); ok && int(s) == o {
							checked = " checked"
						}
					}
					fmt.Fprintf(&b, "<li><input type=\"radio\" id=\"q%d_%d\" name=\"q%d\" value=\"%s\"%s>", i, o, i, esc(label), checked)
				}
				fmt.Fprintf(&b, "<label for=\"q%d_%d\">&nbsp;%s</label></li>", i, o, esc(label))
			}
			b.WriteString("</ul>")
		}
	}
	b.WriteString("<input class=\"button\" type=\"submit\" value=\"Submit survey\"></form>")
	return b.String()
}

// Markdown emphasis eats the token's underscores: a `__poll_placeholder__`
// paragraph renders as a <strong> element, so the literal token never
// reaches the HTML. Both rendered shapes are matched alongside the literal.
var placeholderForms = []string{
	poll.Placeholder,
	"<p><strong>poll_placeholder</strong></p>",
	"<strong>poll_placeholder</strong>",
}

// ReplacePlaceholder substitutes the rendered form for the first occurrence
// of the placeholder token in a post's HTML.
func ReplacePlaceholder(content, fragment string) string {
	for _, token := range placeholderForms {
		if strings.Contains(content, token) {
			return strings.Replace(content, token, fragment, 1)
		}
	}
	return content
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func containsIndex(picked []int, o int) bool {
	for _, p := range picked {
		if p == o {
			return true
		}
	}
	return false
}
