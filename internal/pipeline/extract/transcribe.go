package extract

import (
	"context"
	"os"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"repurposer/internal/config"
	"repurposer/pkg/logger_i"
)

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

var transcriberLogger *logger_i.Logger
var transcriberOnce sync.Once
var whisperInstance *whisperTranscriber

type whisperTranscriber struct {
	api   openai.Client
	model string
}

// GetWhisperTranscriber returns the singleton audio transcriber, or nil
// when no API key is configured.
func GetWhisperTranscriber(apikey string) Transcriber {
	transcriberOnce.Do(func() {
		transcriberLogger = logger_i.NewLogger("Transcription")
		if apikey == "" {
			transcriberLogger.Warn("No OpenAI API key configured, transcription disabled")
			return
		}
		whisperInstance = &whisperTranscriber{
			api:   openai.NewClient(option.WithAPIKey(apikey), option.WithBaseURL(config.LLMBaseURL)),
			model: config.TranscriptionModel,
		}
		transcriberLogger.Info("Whisper transcription client created")
	})

	if whisperInstance == nil {
		return nil
	}
	return &whisperTranscriber{api: whisperInstance.api, model: whisperInstance.model}
}

func (w *whisperTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	log := transcriberLogger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	f, err := os.Open(path)
	if err != nil {
		log.Error("could not open media file", "error", err)
		return "", err
	}
	defer f.Close()

	resp, err := w.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  f,
	})
	if err != nil {
		log.Error("Error transcribing media", "error", err.Error())
		return "", err
	}
	return resp.Text, nil
}
