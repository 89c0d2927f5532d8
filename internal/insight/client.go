package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/provider/resilience"
)

// Predefined errors for insight operations.
var (
	// ErrProviderUnavailable is returned when the AI provider cannot be
	// reached or the circuit is open.
	ErrProviderUnavailable = errors.New("insight provider unavailable")

	// ErrEmptyCompletion is returned when the provider replies without
	// any usable content.
	ErrEmptyCompletion = errors.New("insight provider returned empty completion")
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 512
)

// ClientConfig holds configuration for the insight client.
type ClientConfig struct {
	// BaseURL is the completion API root, e.g. "https://api.openai.com".
	BaseURL string

	// APIKey authenticates with the provider.
	APIKey string

	// Model overrides the default completion model.
	Model string

	// HTTP is the resilient transport. A default one is created when nil.
	HTTP *resilience.Client

	Logger zerolog.Logger
}

// Client calls the AI completion provider.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *resilience.Client
	logger  zerolog.Logger
}

// NewClient creates a new insight client.
func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:    "insight",
			Timeout: 30 * time.Second,
		})
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		http:    httpClient,
		logger:  cfg.Logger,
	}
}

// Chat sends a conversation to the provider and returns the reply text.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, defaultMaxTokens)
}

// AnalyzeJournal asks the provider for a structured reflection on a
// journal entry. The entry content is sent verbatim; the system prompt
// pins the output to a JSON object matching Reflection.
func (c *Client) AnalyzeJournal(ctx context.Context, content string, mood *float64) (*Reflection, error) {
	userPrompt := content
	if mood != nil {
		userPrompt = fmt.Sprintf("Umore dichiarato: %.0f/100.\n\n%s", *mood, content)
	}

	raw, err := c.complete(ctx, []Message{
		{Role: "system", Content: reflectionPrompt},
		{Role: "user", Content: userPrompt},
	}, defaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var reflection Reflection
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reflection); err != nil {
		c.logger.Warn().Err(err).Msg("reflection response was not valid JSON, using as summary")
		reflection = Reflection{Summary: strings.TrimSpace(raw)}
	}
	if reflection.Summary == "" {
		return nil, ErrEmptyCompletion
	}
	return &reflection, nil
}

const reflectionPrompt = `Sei un coach del benessere empatico. Analizza il diario ` +
	`dell'utente e rispondi SOLO con un oggetto JSON con i campi: ` +
	`"summary" (2 frasi in italiano), "themes" (massimo 3 parole chiave), ` +
	`"suggestion" (1 consiglio pratico in italiano).`

func (c *Client) complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrMaxRetriesExceeded) {
			return "", fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight provider returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("insight provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON strips markdown code fences some models wrap around JSON.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
