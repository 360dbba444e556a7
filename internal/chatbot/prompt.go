package chatbot

import (
	"fmt"
	"strings"

	"github.com/abhisek/aquacheck/internal/measurement"
)

const explainSystemPrompt = `You are WaterBot, a friendly assistant inside a drinking-water quality checker.
Answer questions about water-quality measurements in plain language for a non-expert.

Rules:
- Keep answers to 1-3 short sentences. The answer is read aloud.
- Only talk about water quality, treatment and the measurements listed below.
- Never claim that a specific sample is safe; the checker decides that.
- In "parameters", list the measurement names your answer is about, using the names below exactly.`

func explainPrompt(question string) string {
	var b strings.Builder
	b.WriteString("Safe ranges used by the checker:\n")
	for _, f := range measurement.Fields() {
		rg := measurement.RangeOf(f)
		unit := f.Unit()
		if unit != "" {
			unit = " " + unit
		}
		fmt.Fprintf(&b, "- %s: %s%s\n", f, rg, unit)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
