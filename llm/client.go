package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // empty means the go-openai default
	Timeout time.Duration
}

// Client sends single-prompt chat completions to an OpenAI-compatible API.
// It is safe for concurrent use.
type Client struct {
	api    *openai.Client
	model  string
	logger *logrus.Logger
}

func New(cfg Config, logger *logrus.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		api:    openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the text of the
// first choice. Failures are returned as *ProviderError when they can be
// classified.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{
			Kind: KindAPI,
			Err:  errors.New("completion returned no choices"),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"model":             c.model,
		"duration":          time.Since(start),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("Completion received")

	return resp.Choices[0].Message.Content, nil
}
