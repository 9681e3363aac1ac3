package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/models"
)

const defaultSystemPrompt = "You are a chess coach. Focus on chess-specific concepts: openings, tactics, strategy, " +
	"time management, endgames. Keep responses under 150 words with 3 clear points."

// ErrNoCredentials is returned when the narrator is used without an API key.
var ErrNoCredentials = errors.New("narrator: no API key configured")

// PromptConfig controls how the LLM is asked for a summary.
type PromptConfig struct {
	Model       string
	System      string
	Temperature float64
	MaxTokens   int64
}

func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		Model:       "claude-3-5-haiku-latest",
		System:      defaultSystemPrompt,
		Temperature: 0.4,
		MaxTokens:   300,
	}
}

type AnthropicConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
	Prompt  PromptConfig
}

// AnthropicNarrator asks an Anthropic model for a coaching summary.
type AnthropicNarrator struct {
	client *anthropic.Client
	prompt PromptConfig
}

// NewAnthropic returns a narrator, or nil when no API key is configured so
// callers fall straight back to the heuristic.
func NewAnthropic(cfg AnthropicConfig) *AnthropicNarrator {
	if cfg.APIKey == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	def := DefaultPromptConfig()
	if cfg.Prompt.Model == "" {
		cfg.Prompt.Model = def.Model
	}
	if cfg.Prompt.System == "" {
		cfg.Prompt.System = def.System
	}
	if cfg.Prompt.MaxTokens <= 0 {
		cfg.Prompt.MaxTokens = def.MaxTokens
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicNarrator{client: &client, prompt: cfg.Prompt}
}

func (n *AnthropicNarrator) Summarize(ctx context.Context, res models.AggregationResult) (string, error) {
	if n == nil || n.client == nil {
		return "", ErrNoCredentials
	}
	log := logger.FromContext(ctx).WithPrefix("narrator").WithField("model", n.prompt.Model)

	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(n.prompt.Model),
		MaxTokens:   n.prompt.MaxTokens,
		Temperature: anthropic.Float(n.prompt.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: n.prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(res))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	log.Debug("llm narration received: %d chars", b.Len())
	return strings.TrimSpace(b.String()), nil
}

// BuildPrompt renders the aggregation as the user message sent to the model.
func BuildPrompt(res models.AggregationResult) string {
	days := res.WindowDays
	if days <= 0 {
		days = defaultWindowDays
	}

	breakdown := make([]string, 0, len(res.Buckets))
	for _, bkt := range res.Buckets {
		breakdown = append(breakdown, fmt.Sprintf("%s: %dW-%dD-%dL (%s)", bkt.Key, bkt.Wins, bkt.Draws, bkt.Losses, Percent(bkt.WinRate)))
	}

	var b strings.Builder
	b.WriteString("You are an expert chess coach analyzing a player's recent performance. Be specific about chess concepts.\n\n")
	fmt.Fprintf(&b, "Data (Last %d Days):\n", days)
	fmt.Fprintf(&b, "Total: %d games (%dW-%dD-%dL, %s win rate)\n", res.Total, res.Wins, res.Draws, res.Losses, Percent(res.WinRate))
	fmt.Fprintf(&b, "Time Controls: %s\n", strings.Join(breakdown, ", "))
	fmt.Fprintf(&b, "Current Streak: %s\n", DescribeStreak(res.CurrentStreak))
	fmt.Fprintf(&b, "Longest Win Streak: %d\n\n", res.LongestWinStreak)
	b.WriteString("Provide exactly 3 chess-focused insights (max 150 words total):\n")
	b.WriteString("1. Performance pattern - mention specific time control strengths/weaknesses\n")
	b.WriteString("2. Strategic advice - reference opening preparation, tactical awareness, time management, or endgame technique\n")
	b.WriteString("3. Actionable training recommendation - be specific (e.g. \"practice rook endgames\", \"solve 20 tactics puzzles daily\")")
	return b.String()
}
