package poll

import "strings"

// Tally is the aggregate of every stored record for one poll, shaped by the
// currently parsed schema.
type Tally struct {
	Title     string
	Voters    int
	Questions []QuestionTally
}

// QuestionTally aggregates one schema entry: option counts for choice
// questions, collected answers for text questions.
type QuestionTally struct {
	Question string
	Multiple bool
	Options  []OptionCount
	Texts    []string
}

// OptionCount pairs an option label with the number of records picking it.
type OptionCount struct {
	Label string
	Count int
}

// Aggregate folds records into a tally. Records are positionally aligned to
// the schema; entries beyond the schema and option indices beyond the
// option list are skipped. The poll definition is frozen once votes exist,
// so such values only appear if the store was edited by hand.
func Aggregate(schema *Schema, records []Record) *Tally {
	tally := &Tally{Title: schema.Title, Voters: len(records)}
	for _, entry := range schema.Entries {
		switch q := entry.(type) {
		case TextQuestion:
			tally.Questions = append(tally.Questions, QuestionTally{Question: q.Question})
		case ChoiceQuestion:
			counts := make([]OptionCount, len(q.Options))
			for o, label := range q.Options {
				counts[o] = OptionCount{Label: label}
			}
			tally.Questions = append(tally.Questions, QuestionTally{
				Question: q.Question,
				Multiple: q.Multiple,
				Options:  counts,
			})
		}
	}

	for _, record := range records {
		for i, resp := range record {
			if i >= len(tally.Questions) {
				break
			}
			question := &tally.Questions[i]
			switch r := resp.(type) {
			case TextResponse:
				question.Texts = append(question.Texts, string(r))
			case SingleChoice:
				if int(r) < len(question.Options) {
					question.Options[r].Count++
				}
			case MultipleChoice:
				for _, o := range r {
					if o >= 0 && o < len(question.Options) {
						question.Options[o].Count++
					}
				}
			}
		}
	}
	return tally
}

// DumpRecords renders every record on its own line, in the given order.
// The output is deterministic and complete; it is the minimal results view.
func DumpRecords(records []Record) string {
	var b strings.Builder
	for _, record := range records {
		b.WriteString(record.String())
		b.WriteByte('\n')
	}
	return b.String()
}
