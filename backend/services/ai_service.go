package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"learnforge/backend/config"

	openai "github.com/sashabaranov/go-openai"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderAuto   Provider = "auto"
)

const (
	DefaultOpenAIModel = "gpt-4"
	DefaultGeminiModel = "gemini-pro"

	geminiAPIBase = "https://generativelanguage.googleapis.com"
)

var (
	ErrOpenAINotConfigured  = errors.New("openai not configured")
	ErrGeminiNotConfigured  = errors.New("gemini not configured")
	ErrNoProviderConfigured = errors.New("no AI provider configured")
	ErrNoProviderAvailable  = errors.New("no AI provider available")
	ErrGeminiTTSUnsupported = errors.New("gemini TTS not yet implemented, use openai for audiobook generation")
)

// TextGenerator is the single call surface the agents use. apiKey is a
// per-call override; empty means the process-wide default for that provider.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, provider Provider, model, apiKey string) (string, error)
}

// SpeechSynthesizer turns plain text into audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, provider Provider, apiKey string) ([]byte, error)
}

// AIService is a stateless gateway over the two text-generation backends.
// Clients are built per call from the resolved credential; the only
// process-wide state is the immutable config.
type AIService struct {
	cfg *config.Config
	log *log.Logger

	// Base URL overrides, empty in production. Tests point these at fakes.
	OpenAIBaseURL string
	GeminiBaseURL string

	httpClient *http.Client
}

func NewAIService(cfg *config.Config, logger *log.Logger) *AIService {
	return &AIService{
		cfg:        cfg,
		log:        logger,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Generate resolves the backend and credential for one call and performs it.
// A per-call key override is bound to an explicit provider choice; auto mode
// uses process defaults only, so a credential can never reach the wrong
// vendor on fallback. In auto mode OpenAI is tried first; Gemini is used only
// when OpenAI fails and a Gemini key exists. No other retries, no caching.
func (s *AIService) Generate(ctx context.Context, prompt string, provider Provider, model, apiKey string) (string, error) {
	switch provider {
	case ProviderOpenAI:
		key := firstNonEmpty(apiKey, s.cfg.OpenAIAPIKey)
		if key == "" {
			return "", ErrOpenAINotConfigured
		}
		return s.generateOpenAI(ctx, prompt, model, key)
	case ProviderGemini:
		key := firstNonEmpty(apiKey, s.cfg.GeminiAPIKey)
		if key == "" {
			return "", ErrGeminiNotConfigured
		}
		return s.generateGemini(ctx, prompt, model, key)
	case ProviderAuto, "":
		if s.cfg.OpenAIAPIKey != "" {
			text, err := s.generateOpenAI(ctx, prompt, model, s.cfg.OpenAIAPIKey)
			if err == nil {
				return text, nil
			}
			s.log.Printf("openai failed, trying gemini: %v", err)
			if s.cfg.GeminiAPIKey != "" {
				return s.generateGemini(ctx, prompt, model, s.cfg.GeminiAPIKey)
			}
			return "", ErrNoProviderAvailable
		}
		if s.cfg.GeminiAPIKey != "" {
			return s.generateGemini(ctx, prompt, model, s.cfg.GeminiAPIKey)
		}
		return "", ErrNoProviderConfigured
	default:
		return "", fmt.Errorf("unknown AI provider %q", provider)
	}
}

// Synthesize produces speech from text. Only OpenAI can synthesize; Gemini
// requests fail explicitly so the caller can degrade.
func (s *AIService) Synthesize(ctx context.Context, text string, provider Provider, apiKey string) ([]byte, error) {
	if provider == ProviderGemini {
		return nil, ErrGeminiTTSUnsupported
	}

	key := firstNonEmpty(apiKey, s.cfg.OpenAIAPIKey)
	if key == "" {
		return nil, ErrOpenAINotConfigured
	}

	client := s.openaiClient(key)
	resp, err := client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Voice: openai.VoiceAlloy,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("openai tts: %w", err)
	}
	defer resp.Close()

	return io.ReadAll(resp)
}

// IsConfigured reports whether a provider has a process-wide default key.
func (s *AIService) IsConfigured(provider Provider) bool {
	switch provider {
	case ProviderOpenAI:
		return s.cfg.OpenAIAPIKey != ""
	case ProviderGemini:
		return s.cfg.GeminiAPIKey != ""
	default:
		return s.cfg.OpenAIAPIKey != "" || s.cfg.GeminiAPIKey != ""
	}
}

func (s *AIService) openaiClient(key string) *openai.Client {
	clientCfg := openai.DefaultConfig(key)
	if s.OpenAIBaseURL != "" {
		clientCfg.BaseURL = s.OpenAIBaseURL
	}
	clientCfg.HTTPClient = s.httpClient
	return openai.NewClientWithConfig(clientCfg)
}

func (s *AIService) generateOpenAI(ctx context.Context, prompt, model, key string) (string, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := s.openaiClient(key)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *AIService) generateGemini(ctx context.Context, prompt, model, key string) (string, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	base := s.GeminiBaseURL
	if base == "" {
		base = geminiAPIBase
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		base, url.PathEscape(model), url.QueryEscape(key))

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, msg)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
