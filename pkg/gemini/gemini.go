package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type IGemini interface {
	SummarizeFeedback(ctx context.Context, answers map[string]interface{}, transcript []string) (string, error)
	Close()
}

type geminiClient struct {
	apiKey    string
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {

	apiKey := os.Getenv("GEMINI_API_KEY")

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) SummarizeFeedback(ctx context.Context, answers map[string]interface{}, transcript []string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)

	res, err := model.GenerateContent(ctx, genai.Text(buildSummaryPrompt(answers, transcript)))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	response := res.Candidates[0].Content.Parts[0]
	text, ok := response.(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return strings.TrimSpace(string(text)), nil
}

func buildSummaryPrompt(answers map[string]interface{}, transcript []string) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("You are reviewing a recorded phone survey from a TVS service center.\n")
	sb.WriteString("Write a 2-3 sentence summary of the customer feedback for the service manager.\n")
	sb.WriteString("Point out low ratings and anything that needs follow up.\n\nAnswers:\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("- %s: %v\n", k, answers[k]))
	}
	sb.WriteString("\nTranscript:\n")
	for _, line := range transcript {
		sb.WriteString(line + "\n")
	}

	return sb.String()
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
