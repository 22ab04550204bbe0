package contentStore

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"repurposer/internal/domain/contentModel"
)

// GORM row models. Kept separate from the domain types so the pipeline
// never sees gorm tags or datatypes.JSON.

type SourceModel struct {
	ID            string `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	Description   string
	SourceType    string `gorm:"not null"`
	FilePath      string `gorm:"not null"`
	FileSize      int64
	Status        string `gorm:"not null;index"`
	Transcript    string `gorm:"type:text"`
	FailureReason string
	Metadata      datatypes.JSON `gorm:"type:jsonb"`
	Owner         string         `gorm:"not null;index"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

func (SourceModel) TableName() string { return "content_sources" }

type ChunkModel struct {
	ID         string `gorm:"primaryKey"`
	SourceID   string `gorm:"not null;uniqueIndex:idx_source_chunk"`
	ChunkText  string `gorm:"type:text;not null"`
	ChunkIndex int    `gorm:"not null;uniqueIndex:idx_source_chunk"`
	StartPos   int
	EndPos     int
	StartTime  float64
	EndTime    float64
	TokenCount int
	Embedding  datatypes.JSON `gorm:"type:jsonb"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"not null"`
}

func (ChunkModel) TableName() string { return "content_chunks" }

type GeneratedModel struct {
	ID             string `gorm:"primaryKey"`
	SourceID       string `gorm:"not null;index"`
	JobID          string `gorm:"index"`
	ContentType    string `gorm:"not null"`
	Content        datatypes.JSON `gorm:"type:jsonb;not null"`
	Status         string         `gorm:"not null;index"`
	SourceChunks   datatypes.JSON `gorm:"type:jsonb"`
	Prompt         string         `gorm:"type:text"`
	ModelUsed      string
	GenerationTime float64
	Owner          string    `gorm:"not null;index"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (GeneratedModel) TableName() string { return "generated_content" }

type ReviewModel struct {
	ID            string `gorm:"primaryKey"`
	ContentID     string `gorm:"not null;index"`
	Reviewer      string `gorm:"not null"`
	Status        string `gorm:"not null"`
	Feedback      string `gorm:"type:text"`
	Modifications datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"not null"`
}

func (ReviewModel) TableName() string { return "reviews" }

type ScheduleModel struct {
	ID            string    `gorm:"primaryKey"`
	ContentID     string    `gorm:"not null;index"`
	Platform      string    `gorm:"not null"`
	ScheduledTime time.Time `gorm:"not null"`
	Status        string    `gorm:"not null"`
	ExternalID    string
	Owner         string    `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (ScheduleModel) TableName() string { return "content_schedules" }

// converters

func toSourceModel(s contentModel.ContentSource) SourceModel {
	return SourceModel{
		ID:            s.Id,
		Title:         s.Title,
		Description:   s.Description,
		SourceType:    string(s.SourceType),
		FilePath:      s.FilePath,
		FileSize:      s.FileSize,
		Status:        string(s.Status),
		Transcript:    s.Transcript,
		FailureReason: s.FailureReason,
		Metadata:      marshalJSON(s.Metadata),
		Owner:         s.Owner,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func fromSourceModel(m SourceModel) contentModel.ContentSource {
	return contentModel.ContentSource{
		Id:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		SourceType:    contentModel.SourceType(m.SourceType),
		FilePath:      m.FilePath,
		FileSize:      m.FileSize,
		Status:        contentModel.SourceStatus(m.Status),
		Transcript:    m.Transcript,
		FailureReason: m.FailureReason,
		Metadata:      unmarshalMap(m.Metadata),
		Owner:         m.Owner,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toChunkModel(c contentModel.ContentChunk) ChunkModel {
	return ChunkModel{
		ID:         c.Id,
		SourceID:   c.SourceId,
		ChunkText:  c.Text,
		ChunkIndex: c.Index,
		StartPos:   c.StartPos,
		EndPos:     c.EndPos,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		TokenCount: c.TokenCount,
		Embedding:  marshalJSON(c.Embedding),
		Metadata:   marshalJSON(c.Metadata),
		CreatedAt:  c.CreatedAt,
	}
}

func fromChunkModel(m ChunkModel) contentModel.ContentChunk {
	var embedding []float32
	if len(m.Embedding) > 0 {
		_ = json.Unmarshal(m.Embedding, &embedding)
	}
	return contentModel.ContentChunk{
		Id:         m.ID,
		SourceId:   m.SourceID,
		Text:       m.ChunkText,
		Index:      m.ChunkIndex,
		StartPos:   m.StartPos,
		EndPos:     m.EndPos,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		TokenCount: m.TokenCount,
		Embedding:  embedding,
		Metadata:   unmarshalMap(m.Metadata),
		CreatedAt:  m.CreatedAt,
	}
}

func toGeneratedModel(g contentModel.GeneratedContent) (GeneratedModel, error) {
	contentJSON, err := json.Marshal(g.Content)
	if err != nil {
		return GeneratedModel{}, err
	}
	return GeneratedModel{
		ID:             g.Id,
		SourceID:       g.SourceId,
		JobID:          g.JobId,
		ContentType:    string(g.ContentType),
		Content:        contentJSON,
		Status:         string(g.Status),
		SourceChunks:   marshalJSON(g.SourceChunkIds),
		Prompt:         g.Prompt,
		ModelUsed:      g.ModelUsed,
		GenerationTime: g.GenerationTime,
		Owner:          g.Owner,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}, nil
}

func fromGeneratedModel(m GeneratedModel) contentModel.GeneratedContent {
	contentType := contentModel.ContentType(m.ContentType)
	payload, err := contentModel.DecodePayload(contentType, m.Content)
	if err != nil {
		//stored raw fallback rows decode here
		payload = contentModel.RawPayload(contentType, string(m.Content))
		var raw contentModel.RawContent
		if json.Unmarshal(m.Content, &raw) == nil && raw.Content != "" {
			payload = contentModel.GeneratedPayload{Type: contentType, Raw: &raw}
		}
	}
	var chunkIds []string
	if len(m.SourceChunks) > 0 {
		_ = json.Unmarshal(m.SourceChunks, &chunkIds)
	}
	return contentModel.GeneratedContent{
		Id:             m.ID,
		SourceId:       m.SourceID,
		JobId:          m.JobID,
		ContentType:    contentType,
		Content:        payload,
		Status:         contentModel.ContentStatus(m.Status),
		SourceChunkIds: chunkIds,
		Prompt:         m.Prompt,
		ModelUsed:      m.ModelUsed,
		GenerationTime: m.GenerationTime,
		Owner:          m.Owner,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toReviewModel(r contentModel.Review) ReviewModel {
	return ReviewModel{
		ID:            r.Id,
		ContentID:     r.ContentId,
		Reviewer:      r.Reviewer,
		Status:        string(r.Status),
		Feedback:      r.Feedback,
		Modifications: marshalJSON(r.Modifications),
		CreatedAt:     r.CreatedAt,
	}
}

func fromReviewModel(m ReviewModel) contentModel.Review {
	return contentModel.Review{
		Id:            m.ID,
		ContentId:     m.ContentID,
		Reviewer:      m.Reviewer,
		Status:        contentModel.ContentStatus(m.Status),
		Feedback:      m.Feedback,
		Modifications: unmarshalMap(m.Modifications),
		CreatedAt:     m.CreatedAt,
	}
}

func toScheduleModel(s contentModel.ContentSchedule) ScheduleModel {
	return ScheduleModel{
		ID:            s.Id,
		ContentID:     s.ContentId,
		Platform:      s.Platform,
		ScheduledTime: s.ScheduledTime,
		Status:        string(s.Status),
		ExternalID:    s.ExternalId,
		Owner:         s.Owner,
		CreatedAt:     s.CreatedAt,
	}
}

func marshalJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func unmarshalMap(data datatypes.JSON) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
