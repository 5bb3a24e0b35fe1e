// Package chatbot answers content questions about a room's conversation
// by retrieving relevant transcript lines and prompting an LLM.
package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a meeting assistant. Answer the user's question using only the provided transcript excerpts. Answer in the language of the question. If the excerpts do not contain the answer, say you don't know.`

// Retriever fetches transcript lines relevant to a query. Implemented by
// the semantic service gRPC client.
type Retriever interface {
	Retrieve(ctx context.Context, query, roomID, organizationID string, limit int) ([]string, error)
}

// LLM generates a completion from a system and user prompt. Implemented
// by the OpenAI-compatible chat client.
type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient adapts go-openai to the LLM interface.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates the chat completion client. baseURL may point
// at any OpenAI-compatible endpoint; empty uses the default.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete runs one chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chatbot: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chatbot: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// Processor wires retrieval and generation.
type Processor struct {
	retriever Retriever
	llm       LLM
	maxLines  int
	logger    zerolog.Logger
}

// NewProcessor creates a chatbot processor.
func NewProcessor(retriever Retriever, llm LLM, maxLines int, logger zerolog.Logger) *Processor {
	if maxLines <= 0 {
		maxLines = 10
	}
	return &Processor{
		retriever: retriever,
		llm:       llm,
		maxLines:  maxLines,
		logger:    logger.With().Str("component", "chatbot").Logger(),
	}
}

// Ask retrieves context for the question and generates an answer.
func (p *Processor) Ask(ctx context.Context, question, roomID, organizationID string) (string, error) {
	lines, err := p.retriever.Retrieve(ctx, question, roomID, organizationID, p.maxLines)
	if err != nil {
		p.logger.Warn().Err(err).Str("room_id", roomID).Msg("transcript retrieval failed")
		lines = nil
	}

	var prompt strings.Builder
	if len(lines) > 0 {
		prompt.WriteString("Transcript excerpts:\n")
		for _, line := range lines {
			prompt.WriteString("- ")
			prompt.WriteString(line)
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	} else {
		prompt.WriteString("No transcript excerpts are available for this room.\n\n")
	}
	prompt.WriteString("Question: ")
	prompt.WriteString(question)

	answer, err := p.llm.Complete(ctx, systemPrompt, prompt.String())
	if err != nil {
		return "", err
	}

	p.logger.Debug().
		Str("room_id", roomID).
		Int("context_lines", len(lines)).
		Int("answer_len", len(answer)).
		Msg("chatbot answered")
	return answer, nil
}
