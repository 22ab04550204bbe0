package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"repurposer/internal/config"
	"repurposer/internal/pipeline/embedding"
	"repurposer/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension = int64(config.EmbeddingOutputDimensionality)

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIEmbeddingClient returns the singleton embedder, or nil when no
// API key is configured. Callers treat nil as "embeddings unavailable".
func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{api: embeddingClient.api, model: embeddingClient.model}
}

func newOpenAIEmbedder(modelName string, apikey string) {
	if apikey == "" {
		logger.Warn("No OpenAI API key configured, embeddings disabled")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithBaseURL(config.LLMBaseURL),
	)
	embeddingClient = &client{api: c, model: modelName}
	logger.Debug("OpenAI Embedding model name: " + modelName)
	logger.Info("OpenAI Embedding client created")
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding embeds texts in one request per batch. The result keeps
// input order: vector i belongs to texts[i].
func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += config.EmbedBatchSize {
		end := start + config.EmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Model:      openai.EmbeddingModel(c.model),
			Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
			Dimensions: openai.Int(dimension),
		})
		if err != nil {
			log.Error("Error getting Embeddings from OpenAI", "error", err.Error())
			return nil, err
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(batch), len(resp.Data))
		}
		//the API tags each vector with its input index, place them explicitly
		vectors := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || int(d.Index) >= len(batch) {
				return nil, fmt.Errorf("embedding index %d out of range for batch of %d", d.Index, len(batch))
			}
			vectors[d.Index] = toFloat32(d.Embedding)
		}
		out = append(out, vectors...)
	}

	log.Debug("BatchEmbedding", "texts", len(texts), "vectors", len(out))
	return out, nil
}

func toFloat32(values []float64) []float32 {
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return vec
}
