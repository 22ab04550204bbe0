package generate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"repurposer/internal/domain/contentModel"
	"repurposer/internal/pipeline/llm"
	"repurposer/pkg/logger_i"

	"github.com/google/uuid"
)

var contentNamespace = uuid.MustParse("f5c2a8d1-3b7e-4c96-8a4d-2e9b61c7f054")

// ContentId derives the same id for the same (job, content type) pair on
// every run, so a retried generate job overwrites its own rows instead of
// duplicating them.
func ContentId(jobId string, contentType contentModel.ContentType) string {
	return uuid.NewSHA1(contentNamespace, []byte(fmt.Sprintf("%s:%s", jobId, contentType))).String()
}

// Request is one generation run over a processed source.
type Request struct {
	SourceId       string
	JobId          string
	Owner          string
	ContentTypes   []contentModel.ContentType
	ContextText    string
	SourceChunkIds []string
	Options        PromptOptions
}

type Generator struct {
	provider llm.Provider
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger_i.NewLogger("Generator"),
	}
}

// Run generates one piece of content per requested type, each type on its
// own goroutine. A failed call fails the whole run so the job layer can
// retry it; parse failures never do, they degrade to the raw fallback.
func (g *Generator) Run(ctx context.Context, req Request) ([]contentModel.GeneratedContent, error) {
	if g.provider == nil {
		return nil, fmt.Errorf("generation unavailable: no llm provider configured")
	}
	if len(req.ContentTypes) == 0 {
		return nil, fmt.Errorf("no content types requested")
	}
	for _, ct := range req.ContentTypes {
		if !contentModel.ValidContentType(ct) {
			return nil, fmt.Errorf("invalid content type: %s", ct)
		}
	}

	results := make([]contentModel.GeneratedContent, len(req.ContentTypes))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, contentType := range req.ContentTypes {
		group.Go(func() error {
			content, err := g.generateOne(groupCtx, req, contentType)
			if err != nil {
				return fmt.Errorf("%s: %w", contentType, err)
			}
			results[i] = content
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) generateOne(ctx context.Context, req Request, contentType contentModel.ContentType) (contentModel.GeneratedContent, error) {
	log := g.logger.With("jobId", req.JobId, "contentType", contentType)

	prompt := BuildPrompt(contentType, req.ContextText, req.Options)

	start := time.Now()
	raw, err := g.provider.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		log.Error("generation call failed", "error", err)
		return contentModel.GeneratedContent{}, err
	}
	elapsed := time.Since(start)

	payload := ParseOutput(contentType, raw)
	if payload.IsRaw() {
		log.Warn("model output did not match schema, keeping raw fallback")
	}

	now := time.Now().UTC()
	return contentModel.GeneratedContent{
		Id:             ContentId(req.JobId, contentType),
		SourceId:       req.SourceId,
		JobId:          req.JobId,
		ContentType:    contentType,
		Content:        payload,
		Status:         contentModel.ContentGenerated,
		SourceChunkIds: req.SourceChunkIds,
		Prompt:         prompt,
		ModelUsed:      g.provider.ModelName(),
		GenerationTime: elapsed.Seconds(),
		Owner:          req.Owner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
