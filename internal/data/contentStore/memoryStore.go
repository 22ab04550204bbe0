package contentStore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"repurposer/internal/domain/contentModel"
)

// MemoryStore keeps everything in maps behind one mutex. It backs
// tests and local runs where Postgres is not reachable.
type MemoryStore struct {
	mu        sync.RWMutex
	sources   map[string]contentModel.ContentSource
	chunks    map[string][]contentModel.ContentChunk
	generated map[string]contentModel.GeneratedContent
	reviews   map[string][]contentModel.Review
	schedules map[string]contentModel.ContentSchedule
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sources:   make(map[string]contentModel.ContentSource),
		chunks:    make(map[string][]contentModel.ContentChunk),
		generated: make(map[string]contentModel.GeneratedContent),
		reviews:   make(map[string][]contentModel.Review),
		schedules: make(map[string]contentModel.ContentSchedule),
	}
}

func (s *MemoryStore) CreateSource(ctx context.Context, source contentModel.ContentSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.Id] = source
	return nil
}

func (s *MemoryStore) GetSource(ctx context.Context, id string) (contentModel.ContentSource, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	return source, ok, nil
}

func (s *MemoryStore) ListSources(ctx context.Context, owner string, offset, limit int) ([]contentModel.ContentSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	all := make([]contentModel.ContentSource, 0, len(s.sources))
	for _, src := range s.sources {
		if src.Owner == owner {
			all = append(all, src)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []contentModel.ContentSource{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *MemoryStore) UpdateSourceStatus(ctx context.Context, id string, to contentModel.SourceStatus, transcript, failureReason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, ok := s.sources[id]
	if !ok {
		return ErrNotFound
	}
	if !source.Status.CanTransition(to) {
		return fmt.Errorf("%w: source %s -> %s", ErrInvalidTransition, source.Status, to)
	}
	source.Status = to
	if transcript != "" {
		source.Transcript = transcript
	}
	if failureReason != "" {
		source.FailureReason = failureReason
	}
	source.UpdatedAt = time.Now().UTC()
	s.sources[id] = source
	return nil
}

func (s *MemoryStore) ReplaceChunks(ctx context.Context, sourceId string, chunks []contentModel.ContentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]contentModel.ContentChunk, len(chunks))
	copy(copied, chunks)
	s.chunks[sourceId] = copied
	return nil
}

func (s *MemoryStore) ListChunks(ctx context.Context, sourceId string) ([]contentModel.ContentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := s.chunks[sourceId]
	out := make([]contentModel.ContentChunk, len(chunks))
	copy(out, chunks)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *MemoryStore) SaveGenerated(ctx context.Context, content contentModel.GeneratedContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generated[content.Id] = content
	return nil
}

func (s *MemoryStore) GetGenerated(ctx context.Context, id string) (contentModel.GeneratedContent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.generated[id]
	return content, ok, nil
}

func (s *MemoryStore) ListGeneratedByJob(ctx context.Context, jobId string) ([]contentModel.GeneratedContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []contentModel.GeneratedContent
	for _, c := range s.generated {
		if c.JobId == jobId {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) AddReview(ctx context.Context, review contentModel.Review) (contentModel.GeneratedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.generated[review.ContentId]
	if !ok {
		return contentModel.GeneratedContent{}, ErrNotFound
	}
	if !contentModel.ValidReviewStatus(review.Status) {
		return contentModel.GeneratedContent{}, fmt.Errorf("%w: %s is not a review status", ErrInvalidTransition, review.Status)
	}
	if !content.Status.CanTransition(review.Status) {
		return contentModel.GeneratedContent{}, fmt.Errorf("%w: content %s -> %s", ErrInvalidTransition, content.Status, review.Status)
	}
	s.reviews[review.ContentId] = append(s.reviews[review.ContentId], review)
	content.Status = review.Status
	content.UpdatedAt = time.Now().UTC()
	s.generated[review.ContentId] = content
	return content, nil
}

func (s *MemoryStore) ListReviews(ctx context.Context, contentId string) ([]contentModel.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := s.reviews[contentId]
	out := make([]contentModel.Review, len(reviews))
	copy(out, reviews)
	return out, nil
}

func (s *MemoryStore) CreateSchedule(ctx context.Context, schedule contentModel.ContentSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.generated[schedule.ContentId]
	if !ok {
		return ErrNotFound
	}
	if !contentModel.CanSchedule(content.Status) {
		return ErrNotApproved
	}
	s.schedules[schedule.Id] = schedule
	return nil
}

func (s *MemoryStore) AnalyticsOverview(ctx context.Context, owner string) (Analytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result Analytics
	for _, src := range s.sources {
		if src.Owner == owner {
			result.TotalSources++
		}
	}
	for _, c := range s.generated {
		if c.Owner != owner {
			continue
		}
		result.TotalGenerated++
		if c.Status == contentModel.ContentApproved {
			result.ApprovedContent++
		}
	}
	if result.TotalGenerated > 0 {
		result.ApprovalRate = float64(result.ApprovedContent) / float64(result.TotalGenerated)
	}
	return result, nil
}
