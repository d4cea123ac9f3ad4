package agent

import (
	"fmt"
	"strings"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

const systemPrompt = `You answer questions about dataset rows using only the evidence supplied in the user message.

Rules:
1. Base every factual claim on the evidence. Do not use outside facts about specific rows, datasets or values.
2. You may apply common-sense or taxonomic inference (synonyms, category membership, unit names) to connect the question to the evidence. When an inference conflicts with the evidence, the evidence wins.
3. If the evidence is insufficient to answer, even after such inference, reply with exactly: I don't know.
4. Cite the dataset id and primary key of every row that supports a claim, in the form (dataset=<id>, primary_key=<key>).

Be concise.`

// evidence rows as they will appear in the user prompt
func formatRow(ordinal int, row evidence.Row) string {
	return fmt.Sprintf("[%d] dataset=%s primary_key=%s\n%s\n\n", ordinal, row.DatasetID, row.PrimaryKey, row.Content)
}

func promptHeader(scope *string) string {
	if scope != nil {
		return fmt.Sprintf("Evidence (all rows come from dataset %s):\n\n", *scope)
	}

	return "Evidence:\n\n"
}

func promptFooter(question string) string {
	return "Question: " + question
}

// picks rows in rank order until the budget is spent; the first row that
// does not fit ends the selection so lower ranks never displace higher ones
func selectEvidence(rows []evidence.Row, question string, scope *string, budget int) (string, []evidence.Row) {
	var builder strings.Builder

	header := promptHeader(scope)
	footer := promptFooter(question)

	remaining := budget - estimateTokens(systemPrompt) - estimateTokens(header) - estimateTokens(footer)
	included := make([]evidence.Row, 0, len(rows))

	builder.WriteString(header)

	for i, row := range rows {
		block := formatRow(i+1, row)
		cost := estimateTokens(block)

		if cost > remaining {
			break
		}

		builder.WriteString(block)
		included = append(included, row)
		remaining -= cost
	}

	// the strongest row is always sent, cut down to what is left
	if len(included) == 0 && len(rows) > 0 {
		top := rows[0]
		overhead := estimateTokens(formatRow(1, evidence.Row{DatasetID: top.DatasetID, PrimaryKey: top.PrimaryKey}))
		allowed := max(remaining-overhead, minTopRowTokens)

		top.Content = cutRunes(top.Content, allowed*4)

		builder.WriteString(formatRow(1, top))
		included = append(included, rows[0])
	}

	builder.WriteString(footer)

	return builder.String(), included
}
