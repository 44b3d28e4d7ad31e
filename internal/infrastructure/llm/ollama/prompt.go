package ollama

import (
	"fmt"
	"strings"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

func buildAnswerPrompt(question string, history []domain.ConversationTurn, chunks []domain.RetrievedChunk) string {
	var contextBuilder strings.Builder
	for idx, chunk := range chunks {
		contextBuilder.WriteString(fmt.Sprintf(
			"[%d] file=%s score=%.3f\n%s\n\n",
			idx+1,
			chunk.Filename,
			chunk.Score,
			chunk.Text,
		))
	}

	var historyBuilder strings.Builder
	for _, turn := range history {
		label := "User"
		if turn.Role == domain.RoleAI {
			label = "Assistant"
		}
		historyBuilder.WriteString(fmt.Sprintf("%s: %s\n", label, turn.Content))
	}

	var b strings.Builder
	b.WriteString("Answer the user question only from the document context below.\n")
	b.WriteString("If the context is insufficient, say it directly.\n\n")
	if historyBuilder.Len() > 0 {
		b.WriteString("Conversation so far:\n")
		b.WriteString(historyBuilder.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Question:\n%s\n\nContext:\n%s", question, contextBuilder.String())
	return b.String()
}
