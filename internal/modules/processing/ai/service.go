package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

const (
	summaryPrompt = "You are a writing assistant for a blog platform. " +
		"Summarize the article the user provides in at most 150 characters. " +
		"Write in the article's own language and do not add opinions."

	maxInputRunes  = 12000
	requestTimeout = 60 * time.Second
)

// BlogStore is the slice of the blog service the summarizer depends on.
type BlogStore interface {
	GetByID(id string) (*models.BlogModel, error)
	Save(b *models.BlogModel) error
}

type Service struct {
	client openai.Client
	model  string
	blogs  BlogStore
	logger *zap.Logger

	enabled bool
}

func NewService(cfg config.OpenAIConfig, blogs BlogStore, logger *zap.Logger) *Service {
	s := &Service{model: cfg.Model, blogs: blogs, logger: logger}
	if cfg.APIKey == "" {
		return s
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	s.client = openai.NewClient(opts...)
	s.enabled = true
	if s.model == "" {
		s.model = "gpt-4o-mini"
	}
	return s
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool { return s.enabled }

// SummarizeBlog generates a short summary for the post and stores it on
// the record.
func (s *Service) SummarizeBlog(ctx context.Context, blogID string) (*models.BlogModel, error) {
	if !s.enabled {
		return nil, coreerrors.NewValidation("ai", "ai summary is not configured")
	}

	blog, err := s.blogs.GetByID(blogID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(blog.Content) == "" {
		return nil, coreerrors.NewValidation("content", "nothing to summarize")
	}

	summary, err := s.complete(ctx, blog.Title, blog.Content)
	if err != nil {
		return nil, err
	}

	blog.Summary = summary
	if err := s.blogs.Save(blog); err != nil {
		return nil, err
	}
	s.logger.Info("generated blog summary",
		zap.String("blog_id", blogID), zap.Int("summary_len", len(summary)))
	return blog, nil
}

func (s *Service) complete(ctx context.Context, title, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	input := fmt.Sprintf("Title: %s\n\n%s", title, truncateRunes(content, maxInputRunes))
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt),
			openai.UserMessage(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary request: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
