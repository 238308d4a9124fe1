package deepgramclient

import (
	"bytes"
	"context"
	"time"

	prerecorded "github.com/deepgram/deepgram-go-sdk/pkg/api/prerecorded/v1"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/pkg/client/prerecorded"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"jobsim-backend/config"
)

type Provider interface {
	// Transcribe распознаёт речь из wav аудио
	Transcribe(ctx context.Context, audio []byte) (transcript string, err error)
}

var Instance Provider

func NewHandler() {
	cfg := config.Conf.Deepgram
	log.Infof("Инициализация Deepgram клиента, модель: %v", cfg.Model)
	Instance = &impl{
		client:  client.New(cfg.APIKey, &interfaces.ClientOptions{}),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSec) * time.Second,
	}
}

type impl struct {
	client  *client.Client
	model   string
	timeout time.Duration
}

func (i *impl) getLogger() *log.Entry {
	return log.
		WithField("stt", "deepgram").
		WithField("model", i.model)
}

func (i *impl) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("пустые аудио данные")
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	options := interfaces.PreRecordedTranscriptionOptions{
		Model:       i.model,
		SmartFormat: true,
	}

	now := time.Now()
	dg := prerecorded.New(i.client)
	resp, err := dg.FromStream(ctx, bytes.NewReader(audio), &options)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса транскрибации к Deepgram")
	}
	if len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		return "", errors.New("Deepgram вернул пустой результат транскрибации")
	}
	transcript := resp.Results.Channels[0].Alternatives[0].Transcript
	i.getLogger().
		WithField("audio_size", len(audio)).
		WithField("answer_duration_sec", time.Since(now).Seconds()).
		Info("аудио транскрибировано")
	return transcript, nil
}
