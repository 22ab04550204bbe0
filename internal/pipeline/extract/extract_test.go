package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"repurposer/internal/domain/contentModel"
)

func TestSourceTypeForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected contentModel.SourceType
		wantErr  bool
	}{
		{"talk.pdf", contentModel.SourcePDF, false},
		{"NOTES.TXT", contentModel.SourceText, false},
		{"doc.docx", contentModel.SourceText, false},
		{"episode.mp3", contentModel.SourceAudio, false},
		{"clip.mp4", contentModel.SourceVideo, false},
		{"image.png", "", true},
	}

	for _, tt := range tests {
		got, err := SourceTypeForPath(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SourceTypeForPath(%s): expected error", tt.path)
			}
			continue
		}
		if err != nil || got != tt.expected {
			t.Errorf("SourceTypeForPath(%s) = %v, %v; want %v", tt.path, got, err, tt.expected)
		}
	}
}

func TestTextFromPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte("hello extraction"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := Text(context.Background(), path, contentModel.SourceText, nil)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "hello extraction" {
		t.Errorf("text = %q", text)
	}
}

func TestTextAudioWithoutTranscriber(t *testing.T) {
	_, err := Text(context.Background(), "episode.mp3", contentModel.SourceAudio, nil)
	if err == nil {
		t.Error("audio without a transcriber must error")
	}
}
