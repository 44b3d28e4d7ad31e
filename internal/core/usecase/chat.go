package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkozlov/docbuddy/internal/core/domain"
	"github.com/pkozlov/docbuddy/internal/core/ports"
)

const (
	// NoResultsAnswer is the terminal answer when no sub-query produced
	// anything to synthesize from. No synthesis call is made in that case.
	NoResultsAnswer = "No results were available to synthesize a response."

	// SynthesisFallbackAnswer is returned when the synthesis call itself
	// yields no usable content.
	SynthesisFallbackAnswer = "Unable to synthesize a response."
)

// ChatUseCase runs the full answer pipeline for one question: expand it into
// related queries, answer every query against the session's index, fuse the
// answers into a ranked list, and ask the model for one composite answer.
// Sub-calls run strictly sequentially; every failure short of a global
// zero-results condition is absorbed and the pipeline continues.
type ChatUseCase struct {
	sessions     ports.SessionRepository
	memory       ports.ConversationStore
	generator    ports.AnswerGenerator
	expander     *QueryExpander
	answerer     *RetrievalAnswerer
	fusion       FusionStrategy
	queryTimeout time.Duration
}

func NewChatUseCase(
	sessions ports.SessionRepository,
	memory ports.ConversationStore,
	generator ports.AnswerGenerator,
	expander *QueryExpander,
	answerer *RetrievalAnswerer,
	fusion FusionStrategy,
	queryTimeout time.Duration,
) *ChatUseCase {
	if fusion == nil {
		fusion = OccurrenceFusion{}
	}
	return &ChatUseCase{
		sessions:     sessions,
		memory:       memory,
		generator:    generator,
		expander:     expander,
		answerer:     answerer,
		fusion:       fusion,
		queryTimeout: queryTimeout,
	}
}

// Chat answers a question against a ready session. A prompt macro may fan the
// input out into several questions; each runs the pipeline independently.
func (uc *ChatUseCase) Chat(ctx context.Context, sessionID, question string) ([]domain.ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat", errors.New("question is required"))
	}

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Status != domain.SessionReady {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat",
			fmt.Errorf("session index is not ready (status=%s)", session.Status))
	}

	prompts := expandPromptMacro(question)
	results := make([]domain.ChatResult, 0, len(prompts))
	for _, prompt := range prompts {
		result, err := uc.run(ctx, session, prompt)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (uc *ChatUseCase) run(ctx context.Context, session *domain.Session, question string) (*domain.ChatResult, error) {
	expanded := uc.expander.Expand(ctx, session.Model, question)

	// Original question always first; expansion order preserved after it.
	queries := make([]string, 0, len(expanded)+1)
	queries = append(queries, question)
	queries = append(queries, expanded...)

	collected := make([]domain.RetrievalResult, 0, len(queries))
	var notices []string
	for _, query := range queries {
		result, err := uc.answerSubQuery(ctx, session, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("subquery_failed", "session_id", session.ID, "query", query, "error", err)
			notices = append(notices, "no response received for: "+query)
			continue
		}
		if result == nil {
			notices = append(notices, "no response received for: "+query)
			continue
		}
		collected = append(collected, *result)
	}

	if len(collected) == 0 {
		uc.recordTurn(ctx, session.ID, question, NoResultsAnswer)
		return &domain.ChatResult{Answer: NoResultsAnswer, Notices: notices}, nil
	}

	ranked := uc.fusion.Fuse(collected)

	answer, err := uc.generator.GenerateFromPrompt(ctx, session.Model, buildSynthesisPrompt(question, ranked))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("synthesis_call_failed", "session_id", session.ID, "error", err)
		answer = ""
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = SynthesisFallbackAnswer
	}

	uc.recordTurn(ctx, session.ID, question, answer)

	return &domain.ChatResult{Answer: answer, Results: ranked, Notices: notices}, nil
}

// answerSubQuery applies the per-call timeout. Expiry is indistinguishable
// from a natural empty response: (nil, nil).
func (uc *ChatUseCase) answerSubQuery(ctx context.Context, session *domain.Session, query string) (*domain.RetrievalResult, error) {
	callCtx := ctx
	if uc.queryTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.queryTimeout)
		defer cancel()
	}

	result, err := uc.answerer.Answer(callCtx, session, query)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, nil
	}
	return result, err
}

// recordTurn writes the original question and the final answer into the
// session memory. Every turn is recorded, terminal answers included.
func (uc *ChatUseCase) recordTurn(ctx context.Context, sessionID, question, answer string) {
	now := time.Now().UTC()
	turns := []domain.ConversationTurn{
		{ID: uuid.NewString(), SessionID: sessionID, Role: domain.RoleHuman, Content: question, CreatedAt: now},
		{ID: uuid.NewString(), SessionID: sessionID, Role: domain.RoleAI, Content: answer, CreatedAt: now},
	}
	for _, turn := range turns {
		if err := uc.memory.AppendTurn(ctx, turn); err != nil {
			slog.Warn("conversation_append_failed", "session_id", sessionID, "role", turn.Role, "error", err)
		}
	}
}

func buildSynthesisPrompt(originalQuestion string, ranked []domain.ScoredResult) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Based on the user's original question: '%s', here are the answers to the original "+
			"and related questions, ordered by their relevance (with RRF scores). Please synthesize "+
			"a comprehensive answer focusing on answering the original question using all the "+
			"information provided below:\n\n",
		originalQuestion,
	)
	for i, result := range ranked {
		fmt.Fprintf(&b, "Answer %d (Score: %g): %s\n\n", i+1, result.Score, result.Answer)
	}
	b.WriteString(
		"Given the above answers, especially considering those with higher scores, " +
			"please provide the best possible composite answer to the user's original question.",
	)
	return b.String()
}
