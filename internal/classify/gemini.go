package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Suggester proposes a category for a merchant the rule table cannot place.
type Suggester interface {
	Suggest(merchant string) (string, error)
}

// GeminiSuggester asks a Gemini model to pick one category from the known
// set. It is consulted only for unmatched merchants and only when enabled,
// so the common path stays offline.
type GeminiSuggester struct {
	model   *genai.GenerativeModel
	timeout time.Duration
	log     logging.Logger
}

// NewGeminiSuggester connects to the Gemini API. The caller owns enablement
// and key sourcing.
func NewGeminiSuggester(ctx context.Context, apiKey, modelName string, timeout time.Duration, log logging.Logger) (*GeminiSuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if log == nil {
		log = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiSuggester{
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
		log:     log,
	}, nil
}

func (g *GeminiSuggester) Suggest(merchant string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Classify this credit card merchant into exactly one of these categories: %s.\n"+
			"Merchant: %q\n"+
			"Answer with the category name only.",
		strings.Join(models.Categories, ", "), merchant)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf("gemini returned empty answer")
	}

	g.log.Debug("Gemini category suggestion",
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
		logging.Field{Key: logging.FieldCategory, Value: answer})
	return answer, nil
}
