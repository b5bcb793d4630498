package openai

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type IChatGPT interface {
	SummarizeFeedback(ctx context.Context, answers map[string]interface{}, transcript []string) (string, error)
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT() IChatGPT {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")

	if model == "" {
		model = openai.GPT4 // or GPT3Dot5Turbo for cheaper option
	}

	return &chatGPTService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *chatGPTService) SummarizeFeedback(
	ctx context.Context,
	answers map[string]interface{},
	transcript []string,
) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: `You summarize phone survey feedback for vehicle service center managers.

Rules:
- Reply with 2-3 sentences of plain English
- Mention every rating below 4 and every "no" answer
- Flag anything in the comments that needs follow up
- Do not repeat the questions verbatim`,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: buildSummaryInput(answers, transcript),
		},
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.3,
			MaxTokens:   150,
		},
	)

	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from ChatGPT")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildSummaryInput(answers map[string]interface{}, transcript []string) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("Answers:\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("- %s: %v\n", k, answers[k]))
	}
	sb.WriteString("\nTranscript:\n")
	for _, line := range transcript {
		sb.WriteString(line + "\n")
	}

	return sb.String()
}
