package usecase

import (
	"fmt"
	"strings"
)

const earningCallMacro = "earning call "

// expandPromptMacro fans shorthand inputs out into full analysis prompts.
// "earning call <company>" becomes the five canned earnings-call questions;
// anything else passes through unchanged as a single-element slice.
func expandPromptMacro(input string) []string {
	if !strings.HasPrefix(input, "earning") {
		return []string{input}
	}
	idx := strings.Index(input, earningCallMacro)
	if idx < 0 {
		return []string{input}
	}
	company := strings.TrimSpace(input[idx+len(earningCallMacro):])
	if company == "" {
		return []string{input}
	}

	return []string{
		fmt.Sprintf("Summarize the key points from the earnings call transcript of %s.", company),
		fmt.Sprintf("Extract the financial metrics from the earnings call of %s into a structured list.", company),
		fmt.Sprintf("What risks, challenges, and opportunities are mentioned in the earnings call of %s?", company),
		fmt.Sprintf("Analyze the overall sentiment of the earnings call of %s.", company),
		fmt.Sprintf("What are the main questions asked by analysts in the earnings call transcript of %s?", company),
	}
}
