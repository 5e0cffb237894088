package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// AssistantService proxies chat messages to an external chat-completion API.
// When the integration is disabled or the upstream fails, the student gets
// the configured offline reply instead of an error.
type AssistantService struct {
	cfg      config.AssistantConfig
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAssistantService constructs an AssistantService.
func NewAssistantService(cfg config.AssistantConfig, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		validate: validator.New(),
		logger:   logger,
	}
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends one user turn upstream and returns the assistant's reply.
func (s *AssistantService) Chat(ctx context.Context, userID string, req models.AssistantChatRequest) (*models.AssistantChatResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	if !s.cfg.Enabled || s.cfg.APIKey == "" {
		return &models.AssistantChatResponse{Reply: s.cfg.OfflineReply, Offline: true}, nil
	}

	payload := chatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: req.Message},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("assistant upstream unreachable", zap.Error(err), zap.String("user_id", userID))
		return &models.AssistantChatResponse{Reply: s.cfg.OfflineReply, Offline: true}, nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("assistant upstream error",
			zap.Int("status", resp.StatusCode),
			zap.String("user_id", userID))
		return &models.AssistantChatResponse{Reply: s.cfg.OfflineReply, Offline: true}, nil
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode assistant response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return &models.AssistantChatResponse{Reply: s.cfg.OfflineReply, Offline: true}, nil
	}

	return &models.AssistantChatResponse{Reply: completion.Choices[0].Message.Content}, nil
}
