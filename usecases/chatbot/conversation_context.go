package chatbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/trilytx/trilytx-backend/models"
)

const previewRowCount = 5

// filtersContext renders the contextual filters as "\n- name: value" lines.
func filtersContext(filters models.Filters) string {
	var b strings.Builder
	if filters.Store != "" {
		fmt.Fprintf(&b, "\n- store: %s", filters.Store)
	}
	if filters.Department != "" {
		fmt.Fprintf(&b, "\n- department: %s", filters.Department)
	}
	if filters.Channel != models.ChannelAny {
		fmt.Fprintf(&b, "\n- channel: %s", filters.Channel)
	}
	if filters.HasDateRange() {
		fmt.Fprintf(&b, "\n- date_range: %s → %s", formatDate(filters.DateFrom), formatDate(filters.DateTo))
	}
	return b.String()
}

func formatDate(date *time.Time) string {
	if date == nil {
		return "unspecified"
	}
	return date.Format(time.DateOnly)
}

// conversationContextParts describes the previous turns for the LLM. The list always ends with a
// separator line, even without history.
func conversationContextParts(history []models.Turn) []string {
	parts := make([]string, 0, 4*len(history)+1)
	for _, turn := range history {
		parts = append(parts,
			fmt.Sprintf("Previous user query: '%s'", turn.Question),
			fmt.Sprintf("Assistant's previous answer: '%s'", turn.Summary),
			fmt.Sprintf("Assistant's previous SQL: ```sql\n%s\n```", turn.Sql),
		)
		if !turn.Result.IsEmpty() {
			preview := turn.Result.Head(previewRowCount)
			rows := make([]string, len(preview.Rows))
			for i, row := range preview.Rows {
				rows[i] = preview.RowPreview(row)
			}
			parts = append(parts, "Previous results (structured):\n"+strings.Join(rows, "\n"))
		}
	}
	return append(parts, "---")
}

func baseContext(conversationParts []string, question string, isFollowUp bool, filters string) string {
	var b strings.Builder
	if len(conversationParts) > 0 {
		b.WriteString(strings.Join(conversationParts, "\n"))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "The user's CURRENT question: '%s'\n\n", question)
	b.WriteString("Please generate SQL to answer this question. ")
	if isFollowUp {
		b.WriteString("Consider the preceding conversation history to provide a contextually relevant answer. ")
		b.WriteString("Do not repeat information already provided by previous SQL/answers unless specifically asked. ")
	}
	if filters == "" {
		filters = " None"
	}
	fmt.Fprintf(&b, "[Contextual Filters Applied]%s\n\n", filters)
	return b.String()
}

// attemptContext appends what went wrong in the previous attempts, if anything did.
func attemptContext(base string, dialect string, zeroResultHistory, errorHistory []string) string {
	if len(zeroResultHistory) == 0 && len(errorHistory) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	if len(zeroResultHistory) > 0 {
		b.WriteString("\n\n[NOTE] Previous attempt(s) returned 0 results:\n")
		b.WriteString(strings.Join(zeroResultHistory, "\n"))
		b.WriteString("\n\n")
	}
	if len(errorHistory) > 0 {
		fmt.Fprintf(&b, "[ERROR LOG] Previous attempt(s) returned %s errors:\n", dialect)
		b.WriteString(strings.Join(errorHistory, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString("Please revise the SQL to avoid these issues. ")
	b.WriteString("Do not use columns or aliases not listed in the 'Important columns' sections of the prompts, ")
	b.WriteString("and ensure joins and filters are valid.")
	return b.String()
}

func blockedSummary(question string) string {
	return fmt.Sprintf("**Query blocked for safety**\n\n**Your question:** %s\n\n**Reason:** Unsafe SQL detected.", question)
}

func noResultsSummary(question string, attempts int) string {
	return fmt.Sprintf("### No results found for your question after %d attempts:\n> **%s**\n\n"+
		"Try:\n- Relaxing filters like store, department, channel, or date range\n", attempts, question)
}

func failedSummary(question string, attempts int, errorHistory []string) string {
	return fmt.Sprintf("**Query failed after %d attempts.**\n\n**Your question:** %s\n\n**Error details:**\n%s",
		attempts, question, strings.Join(errorHistory, "\n"))
}

func summaryUnavailable(question string) string {
	return fmt.Sprintf("**Results for:** %s\n\nThe results are shown below, but a written summary could not be generated.", question)
}
