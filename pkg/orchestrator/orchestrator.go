package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeready-toolchain/athena/pkg/conversation"
	"github.com/codeready-toolchain/athena/pkg/llm"
	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/codeready-toolchain/athena/pkg/triage"
)

// defaultMaxIterations bounds the tool-dispatch loop when the LLM never
// produces a Final Answer, mirroring the teacher ReAct controller's
// max-iterations force-conclusion fallback.
const defaultMaxIterations = 15

// defaultIterationTimeout bounds each individual LLM call within the
// loop, independent of the request's overall context.
const defaultIterationTimeout = 60 * time.Second

// terminatePhrase marks the operator-side signal to end a session:
// a final assistant turn whose lowercased text ends with this word (or
// a completion phrase alongside it) stops the loop before the next
// request is even accepted, per spec.md §4.10.
const terminatePhrase = "terminate"

// Orchestrator is Athena's per-request control flow: it appends the
// incoming message to the rolling conversation, classifies it, runs the
// tool-dispatch loop against the configured Dispatcher, and returns the
// assistant's final text.
type Orchestrator struct {
	Conversations *conversation.Store
	Patterns      *triage.PatternStore
	Generator     llm.Generator
	Summarizer    conversation.Summarizer
	Dispatcher    *Dispatcher
	MaxIterations int
	UserID        string
}

// Result is what one call to Run produces.
type Result struct {
	FinalAnswer string
	Priority    models.Priority
	Intent      models.Intent
	Iterations  int
	Terminated  bool
}

// Run executes one full request/response cycle. ctx governs the whole
// call; cancellation is only honored between tool calls — an in-flight
// tool execution runs to its own timeout and its result is discarded if
// ctx is already done by the time Run would use it.
func (o *Orchestrator) Run(ctx context.Context, userMessage string) (Result, error) {
	conv, err := o.Conversations.Current(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load current conversation: %w", err)
	}

	if o.Conversations.MustCompact(conv) {
		conv, err = o.Conversations.Compact(ctx, o.Summarizer)
		if err != nil {
			return Result{}, fmt.Errorf("compact conversation: %w", err)
		}
	} else if o.Conversations.ShouldCompact(conv) {
		slog.Warn("conversation approaching token budget, compaction recommended", "conversation_id", conv.ID)
	}

	if _, err := o.Conversations.AddMessage(ctx, conv.ID, models.RoleUser, userMessage); err != nil {
		return Result{}, fmt.Errorf("append user message: %w", err)
	}

	var triageResult models.PriorityResult
	if o.Patterns != nil {
		triageResult, err = triage.SmartClassify(ctx, o.Patterns, o.UserID, userMessage, nil)
		if err != nil {
			slog.Error("smart classification failed, falling back to keyword-only", "error", err)
			triageResult = triage.Classify(userMessage, nil)
		}
	} else {
		triageResult = triage.Classify(userMessage, nil)
	}
	profile := triage.Behavior(triageResult.Priority)

	messages, err := o.Conversations.Messages(ctx, conv.ID)
	if err != nil {
		return Result{}, fmt.Errorf("load conversation history: %w", err)
	}

	maxIter := o.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	var finalAnswer string
	terminated := false
	iteration := 0

	for ; iteration < maxIter; iteration++ {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		iterCtx, cancel := context.WithTimeout(ctx, defaultIterationTimeout)
		responseText, genErr := o.Generator.Generate(iterCtx, llm.GenerateRequest{
			SystemPrompt: systemPrompt(profile, triageResult),
			UserPrompt:   buildPrompt(messages, iteration),
		})
		cancel()

		if genErr != nil {
			messages = append(messages, models.Message{Role: models.RoleAssistant, Content: fmt.Sprintf("Observation: LLM call failed: %v", genErr)})
			continue
		}

		parsed := ParseResponse(responseText)

		switch {
		case parsed.IsFinalAnswer:
			finalAnswer = parsed.FinalAnswer
			terminated = isTerminating(finalAnswer)
			iteration++
			messages = append(messages, models.Message{Role: models.RoleAssistant, Content: responseText})
			goto done

		case parsed.HasAction:
			observation := o.Dispatcher.Dispatch(ctx, parsed.Action, parsed.ActionInput)
			messages = append(messages, models.Message{Role: models.RoleAssistant, Content: responseText})
			messages = append(messages, models.Message{Role: models.RoleUser, Content: "Observation: " + observation})

		default:
			messages = append(messages, models.Message{Role: models.RoleAssistant, Content: responseText})
			messages = append(messages, models.Message{
				Role:    models.RoleUser,
				Content: "Observation: malformed response — " + parsed.ErrorMessage,
			})
		}
	}

	finalAnswer = forceConclude(ctx, o, messages, profile, triageResult)

done:
	if _, err := o.Conversations.AddMessage(ctx, conv.ID, models.RoleAssistant, finalAnswer); err != nil {
		return Result{}, fmt.Errorf("append final answer: %w", err)
	}

	return Result{
		FinalAnswer: finalAnswer,
		Priority:    triageResult.Priority,
		Intent:      triageResult.Intent,
		Iterations:  iteration,
		Terminated:  terminated,
	}, nil
}

// forceConclude asks the LLM one more time for a Final Answer only, once
// the iteration budget is exhausted, matching the teacher ReAct
// controller's behavior of never returning without some answer.
func forceConclude(ctx context.Context, o *Orchestrator, messages []models.Message, profile models.BehaviorProfile, triageResult models.PriorityResult) string {
	iterCtx, cancel := context.WithTimeout(ctx, defaultIterationTimeout)
	defer cancel()

	prompt := buildPrompt(messages, -1) + "\n\nYou have reached the maximum number of steps. Respond now with only a Final Answer summarizing what you found and what remains undone."
	text, err := o.Generator.Generate(iterCtx, llm.GenerateRequest{
		SystemPrompt: systemPrompt(profile, triageResult),
		UserPrompt:   prompt,
	})
	if err != nil {
		return "Unable to complete this request within the allotted steps, and the concluding summary request also failed."
	}
	parsed := ParseResponse(text)
	if parsed.IsFinalAnswer {
		return parsed.FinalAnswer
	}
	return strings.TrimSpace(text)
}

// isTerminating reports whether a final assistant turn signals the end
// of the session: its lowercased text ends with the terminate phrase,
// alone or as part of a short completion sentence.
func isTerminating(finalAnswer string) bool {
	lower := strings.ToLower(strings.TrimSpace(finalAnswer))
	return strings.HasSuffix(lower, terminatePhrase)
}

func systemPrompt(profile models.BehaviorProfile, triageResult models.PriorityResult) string {
	var b strings.Builder
	b.WriteString("You are Athena, an infrastructure operations assistant. ")
	fmt.Fprintf(&b, "This request was classified %s priority, intent %q. ", triageResult.Priority, triageResult.Intent)
	if profile.UseChainOfThought {
		b.WriteString("Think step by step before acting. ")
	}
	switch profile.ResponseFormat {
	case models.ResponseTerse:
		b.WriteString("Keep your Final Answer terse and action-oriented. ")
	case models.ResponseDetailed:
		b.WriteString("Your Final Answer should be thorough, including explanations. ")
	}
	b.WriteString("\n\nRespond in this exact format:\n")
	b.WriteString("Thought: <reasoning>\n")
	b.WriteString("Action: <tool name>\n")
	b.WriteString("Action Input: <JSON object of arguments>\n")
	b.WriteString("\nOr, once you are done:\n")
	b.WriteString("Thought: <reasoning>\n")
	b.WriteString("Final Answer: <your answer>\n\n")
	b.WriteString("Available tools:\n")
	for _, t := range ToolSchema {
		fmt.Fprintf(&b, "- %s(%s): %s\n", t.Name, strings.Join(t.Parameters, ", "), t.Description)
	}
	return b.String()
}

func buildPrompt(messages []models.Message, iteration int) string {
	var b strings.Builder
	for _, m := range messages {
		label := "User"
		if m.Role == models.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Content)
	}
	return b.String()
}
