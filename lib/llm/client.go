package llmclient

import (
	"context"
	"time"

	"jobsim-backend/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Complete - обычный текстовый ответ модели
	Complete(ctx context.Context, sysPromt, userPromt string, opts Options) (string, error)
	// CompleteJSON - ответ модели в режиме json_object
	CompleteJSON(ctx context.Context, sysPromt, userPromt string, opts Options) (string, error)
}

type Options struct {
	Temperature float64
	MaxTokens   int64
}

var Instance Provider

// NewHandler создаёт клиент один раз на старте (OpenRouter, протокол OpenAI)
func NewHandler() {
	cfg := config.Conf.LLM
	requestOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}
	// необязательные заголовки атрибуции OpenRouter
	if config.Conf.App.SiteURL != "" {
		requestOpts = append(requestOpts, option.WithHeader("HTTP-Referer", config.Conf.App.SiteURL))
	}
	if config.Conf.App.Name != "" {
		requestOpts = append(requestOpts, option.WithHeader("X-Title", config.Conf.App.Name))
	}
	client := openai.NewClient(requestOpts...)
	log.Infof("Инициализация LLM клиента: %v, модель: %v", cfg.BaseURL, cfg.Model)
	Instance = &impl{
		client:  client,
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSec) * time.Second,
	}
}

type impl struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func (i *impl) getLogger() *log.Entry {
	return log.
		WithField("ai", "openrouter").
		WithField("model", i.model)
}

func (i *impl) Complete(ctx context.Context, sysPromt, userPromt string, opts Options) (string, error) {
	return i.complete(ctx, sysPromt, userPromt, opts, false)
}

func (i *impl) CompleteJSON(ctx context.Context, sysPromt, userPromt string, opts Options) (string, error) {
	return i.complete(ctx, sysPromt, userPromt, opts, true)
}

func (i *impl) complete(ctx context.Context, sysPromt, userPromt string, opts Options, jsonMode bool) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(i.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(sysPromt),
			openai.UserMessage(userPromt),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(opts.MaxTokens)
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	now := time.Now()
	resp, err := i.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к LLM API")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM вернула пустой список вариантов ответа")
	}
	answer := resp.Choices[0].Message.Content
	i.getLogger().
		WithField("json_mode", jsonMode).
		WithField("answer_duration_sec", time.Since(now).Seconds()).
		Debug("получен ответ LLM")
	return answer, nil
}
