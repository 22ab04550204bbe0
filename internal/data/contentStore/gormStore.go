package contentStore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repurposer/internal/config"
	"repurposer/internal/domain/contentModel"
	"repurposer/pkg/logger_i"
)

// GormStore implements Store on Postgres via GORM.
type GormStore struct {
	db     *gorm.DB
	logger *logger_i.Logger
}

// NewGormStore opens the DB and auto-migrates the content tables. DSN
// comes from DATABASE_URL with the config default as fallback.
func NewGormStore() (*GormStore, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = config.DatabaseDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open content db: %w", err)
	}
	if err := db.AutoMigrate(
		&SourceModel{}, &ChunkModel{}, &GeneratedModel{},
		&ReviewModel{}, &ScheduleModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{
		db:     db,
		logger: logger_i.NewLogger("ContentStore"),
	}, nil
}

// NewGormStoreWithDB is for tests that bring their own gorm.DB.
func NewGormStoreWithDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db, logger: logger_i.NewLogger("ContentStore")}
}

func (s *GormStore) CreateSource(ctx context.Context, source contentModel.ContentSource) error {
	model := toSourceModel(source)
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *GormStore) GetSource(ctx context.Context, id string) (contentModel.ContentSource, bool, error) {
	var model SourceModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return contentModel.ContentSource{}, false, nil
	}
	if err != nil {
		return contentModel.ContentSource{}, false, err
	}
	return fromSourceModel(model), true, nil
}

func (s *GormStore) ListSources(ctx context.Context, owner string, offset, limit int) ([]contentModel.ContentSource, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []SourceModel
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	sources := make([]contentModel.ContentSource, 0, len(models))
	for _, m := range models {
		sources = append(sources, fromSourceModel(m))
	}
	return sources, nil
}

func (s *GormStore) UpdateSourceStatus(ctx context.Context, id string, to contentModel.SourceStatus, transcript, failureReason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model SourceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		current := contentModel.SourceStatus(model.Status)
		if !current.CanTransition(to) {
			return fmt.Errorf("%w: source %s -> %s", ErrInvalidTransition, current, to)
		}
		updates := map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		}
		if transcript != "" {
			updates["transcript"] = transcript
		}
		if failureReason != "" {
			updates["failure_reason"] = failureReason
		}
		return tx.Model(&SourceModel{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (s *GormStore) ReplaceChunks(ctx context.Context, sourceId string, chunks []contentModel.ContentChunk) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", sourceId).Delete(&ChunkModel{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		models := make([]ChunkModel, 0, len(chunks))
		for _, c := range chunks {
			models = append(models, toChunkModel(c))
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&models).Error
	})
}

func (s *GormStore) ListChunks(ctx context.Context, sourceId string) ([]contentModel.ContentChunk, error) {
	var models []ChunkModel
	err := s.db.WithContext(ctx).
		Where("source_id = ?", sourceId).
		Order("chunk_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	chunks := make([]contentModel.ContentChunk, 0, len(models))
	for _, m := range models {
		chunks = append(chunks, fromChunkModel(m))
	}
	return chunks, nil
}

func (s *GormStore) SaveGenerated(ctx context.Context, content contentModel.GeneratedContent) error {
	model, err := toGeneratedModel(content)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&model).Error
}

func (s *GormStore) GetGenerated(ctx context.Context, id string) (contentModel.GeneratedContent, bool, error) {
	var model GeneratedModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return contentModel.GeneratedContent{}, false, nil
	}
	if err != nil {
		return contentModel.GeneratedContent{}, false, err
	}
	return fromGeneratedModel(model), true, nil
}

func (s *GormStore) ListGeneratedByJob(ctx context.Context, jobId string) ([]contentModel.GeneratedContent, error) {
	var models []GeneratedModel
	err := s.db.WithContext(ctx).Where("job_id = ?", jobId).Find(&models).Error
	if err != nil {
		return nil, err
	}
	contents := make([]contentModel.GeneratedContent, 0, len(models))
	for _, m := range models {
		contents = append(contents, fromGeneratedModel(m))
	}
	return contents, nil
}

func (s *GormStore) AddReview(ctx context.Context, review contentModel.Review) (contentModel.GeneratedContent, error) {
	var updated contentModel.GeneratedContent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content GeneratedModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&content, "id = ?", review.ContentId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !contentModel.ValidReviewStatus(review.Status) {
			return fmt.Errorf("%w: %s is not a review status", ErrInvalidTransition, review.Status)
		}
		current := contentModel.ContentStatus(content.Status)
		if !current.CanTransition(review.Status) {
			return fmt.Errorf("%w: content %s -> %s", ErrInvalidTransition, current, review.Status)
		}

		model := toReviewModel(review)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		//mirror the latest review status onto the content row
		if err := tx.Model(&GeneratedModel{}).
			Where("id = ?", review.ContentId).
			Updates(map[string]any{
				"status":     string(review.Status),
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		content.Status = string(review.Status)
		updated = fromGeneratedModel(content)
		return nil
	})
	return updated, err
}

func (s *GormStore) ListReviews(ctx context.Context, contentId string) ([]contentModel.Review, error) {
	var models []ReviewModel
	err := s.db.WithContext(ctx).
		Where("content_id = ?", contentId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	reviews := make([]contentModel.Review, 0, len(models))
	for _, m := range models {
		reviews = append(reviews, fromReviewModel(m))
	}
	return reviews, nil
}

func (s *GormStore) CreateSchedule(ctx context.Context, schedule contentModel.ContentSchedule) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content GeneratedModel
		if err := tx.First(&content, "id = ?", schedule.ContentId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !contentModel.CanSchedule(contentModel.ContentStatus(content.Status)) {
			return ErrNotApproved
		}
		model := toScheduleModel(schedule)
		return tx.Create(&model).Error
	})
}

func (s *GormStore) AnalyticsOverview(ctx context.Context, owner string) (Analytics, error) {
	var result Analytics
	db := s.db.WithContext(ctx)

	if err := db.Model(&SourceModel{}).Where("owner = ?", owner).
		Count(&result.TotalSources).Error; err != nil {
		return result, err
	}
	if err := db.Model(&GeneratedModel{}).Where("owner = ?", owner).
		Count(&result.TotalGenerated).Error; err != nil {
		return result, err
	}
	if err := db.Model(&GeneratedModel{}).
		Where("owner = ? AND status = ?", owner, string(contentModel.ContentApproved)).
		Count(&result.ApprovedContent).Error; err != nil {
		return result, err
	}
	if result.TotalGenerated > 0 {
		result.ApprovalRate = float64(result.ApprovedContent) / float64(result.TotalGenerated)
	}
	return result, nil
}
