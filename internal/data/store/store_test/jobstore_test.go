package store_test

import (
	"context"
	"testing"

	"repurposer/internal/config"
	"repurposer/internal/data/redisStore"
	"repurposer/internal/data/store"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:       jobID,
		SourceId: "src_001",
		JobType:  jobModel.JobTypeGenerate,
		Status:   jobModel.JobStatusInProgress,
		JobPayload: jobModel.JobPayload{
			ContentTypes: []contentModel.ContentType{contentModel.LinkedInPostType},
			Tone:         "professional",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		// Test Save
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		// Test Get
		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.SourceId != testJob.SourceId {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.SourceId, testJob.SourceId)
		}
		if len(retrievedJob.JobPayload.ContentTypes) != 1 ||
			retrievedJob.JobPayload.ContentTypes[0] != contentModel.LinkedInPostType {
			t.Errorf("Payload mismatch! Got %v", retrievedJob.JobPayload.ContentTypes)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		// Verify it's gone from miniredis
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}
