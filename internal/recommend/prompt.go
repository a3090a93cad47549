package recommend

import (
	"strings"
)

const promptHeader = `You are a senior SEO consultant with 20+ years of experience. Below is a technical SEO audit of a website.
Each finding is labelled GOOD, NEEDS WORK, ISSUE or SLOW.

`

const promptInstructions = `

Recommend fixes ONLY for findings labelled ISSUE, NEEDS WORK or SLOW. Do not suggest changes to anything labelled GOOD
and do not invent problems that the audit did not detect.
Give 5-7 specific, actionable recommendations, prioritized by impact (high, medium, low).
For each one name the affected page, the current state, the fix and the expected benefit.
Format the response with clear headings.`

// Prompt wraps an audit brief in the consultant instructions.
func Prompt(brief string) string {
	var b strings.Builder

	b.WriteString(promptHeader)
	b.WriteString(strings.TrimSpace(brief))
	b.WriteString(promptInstructions)

	return b.String()
}
