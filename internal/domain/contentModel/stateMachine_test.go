package contentModel

import "testing"

func TestSourceTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    SourceStatus
		to      SourceStatus
		allowed bool
	}{
		{"Uploaded_To_Processing", SourceUploaded, SourceProcessing, true},
		{"Uploaded_Skips_To_Processed", SourceUploaded, SourceProcessed, false},
		{"Processing_To_Processed", SourceProcessing, SourceProcessed, true},
		{"Processing_To_Failed", SourceProcessing, SourceFailed, true},
		{"Failed_Back_To_Processing", SourceFailed, SourceProcessing, true},
		{"Processed_Is_Terminal", SourceProcessed, SourceProcessing, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransition(tc.to); got != tc.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestContentTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    ContentStatus
		to      ContentStatus
		allowed bool
	}{
		{"Generated_To_Approved", ContentGenerated, ContentApproved, true},
		{"Generated_To_NeedsRevision", ContentGenerated, ContentNeedsRevision, true},
		{"NeedsRevision_To_Approved", ContentNeedsRevision, ContentApproved, true},
		{"NeedsRevision_Back_To_NeedsRevision", ContentNeedsRevision, ContentNeedsRevision, false},
		{"Approved_To_Published", ContentApproved, ContentPublished, true},
		{"Approved_Revoked", ContentApproved, ContentRejected, true},
		{"Rejected_Is_Terminal", ContentRejected, ContentApproved, false},
		{"Generated_Skips_To_Published", ContentGenerated, ContentPublished, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransition(tc.to); got != tc.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestReviewStatusAndScheduling(t *testing.T) {
	if ValidReviewStatus(ContentPublished) {
		t.Error("published must not be a reviewer verdict")
	}
	if !ValidReviewStatus(ContentNeedsRevision) {
		t.Error("needs_revision is a valid reviewer verdict")
	}
	if CanSchedule(ContentGenerated) || CanSchedule(ContentNeedsRevision) {
		t.Error("only approved content can be scheduled")
	}
	if !CanSchedule(ContentApproved) {
		t.Error("approved content must be schedulable")
	}
}
