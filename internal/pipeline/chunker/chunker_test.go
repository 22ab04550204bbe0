package chunker

import (
	"strings"
	"testing"
)

func TestSplitOffsetsAndOverlap(t *testing.T) {
	text := strings.Repeat("a", 1200)

	chunks, err := Split("src-1", text, Options{Size: 500, Overlap: 50})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}

	wantStarts := []int{0, 450, 900}
	wantEnds := []int{500, 950, 1200}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: index = %d", i, c.Index)
		}
		if c.StartPos != wantStarts[i] || c.EndPos != wantEnds[i] {
			t.Errorf("chunk %d: offsets [%d,%d), want [%d,%d)", i, c.StartPos, c.EndPos, wantStarts[i], wantEnds[i])
		}
		if c.Text != text[c.StartPos:c.EndPos] {
			t.Errorf("chunk %d text does not match its offsets", i)
		}
	}
}

func TestSplitCoversWholeText(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("More filler text here. ", 40)

	chunks, err := Split("src-1", text, Options{Size: 120, Overlap: 20})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	trimmed := strings.TrimSpace(text)
	last := chunks[len(chunks)-1]
	if last.EndPos != len([]rune(trimmed)) {
		t.Errorf("last chunk ends at %d, want %d", last.EndPos, len([]rune(trimmed)))
	}

	// Consecutive chunks share exactly the overlap region.
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartPos != chunks[i-1].EndPos-20 {
			t.Errorf("chunk %d starts at %d, want %d", i, chunks[i].StartPos, chunks[i-1].EndPos-20)
		}
	}
}

func TestSplitShortText(t *testing.T) {
	chunks, err := Split("src-1", "tiny input", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].TokenCount != 2 {
		t.Errorf("token count = %d, want 2", chunks[0].TokenCount)
	}
}

func TestSplitEmptyText(t *testing.T) {
	chunks, err := Split("src-1", "   \n\t ", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("Expected no chunks for whitespace input, got %d", len(chunks))
	}
}

func TestSplitRejectsOverlapGreaterOrEqualSize(t *testing.T) {
	if _, err := Split("src-1", "some text", Options{Size: 50, Overlap: 50}); err == nil {
		t.Error("overlap == size must be rejected, it would never terminate")
	}
	if _, err := Split("src-1", "some text", Options{Size: 50, Overlap: 80}); err == nil {
		t.Error("overlap > size must be rejected")
	}
}

func TestSplitRejectsOutOfRangeOptions(t *testing.T) {
	if _, err := Split("src-1", "x", Options{Size: 0, Overlap: 0}); err == nil {
		t.Error("zero size must be rejected")
	}
	if _, err := Split("src-1", "x", Options{Size: 5000, Overlap: 0}); err == nil {
		t.Error("size above the cap must be rejected")
	}
}

func TestChunkIdDeterministic(t *testing.T) {
	a := ChunkId("src-1", 3)
	b := ChunkId("src-1", 3)
	c := ChunkId("src-2", 3)
	if a != b {
		t.Error("same source and index must produce the same id")
	}
	if a == c {
		t.Error("different sources must produce different ids")
	}
}

func TestAttachTimings(t *testing.T) {
	chunks, err := Split("src-1", strings.Repeat("b", 1000), Options{Size: 500, Overlap: 0})
	if err != nil {
		t.Fatal(err)
	}
	AttachTimings(chunks, 1000, 120.0)
	if chunks[0].StartTime != 0 || chunks[0].EndTime != 60 {
		t.Errorf("chunk 0 timing = [%f,%f], want [0,60]", chunks[0].StartTime, chunks[0].EndTime)
	}
	if chunks[1].EndTime != 120 {
		t.Errorf("chunk 1 end time = %f, want 120", chunks[1].EndTime)
	}
}
