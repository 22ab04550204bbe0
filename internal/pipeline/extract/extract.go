package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"repurposer/internal/domain/contentModel"
	"repurposer/pkg/logger_i"
)

var logger = logger_i.NewLogger("Extraction")

// SourceTypeForPath maps a file extension to the source type recorded on
// upload. Unknown extensions return an error, the upload is rejected.
func SourceTypeForPath(path string) (contentModel.SourceType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return contentModel.SourcePDF, nil
	case ".txt", ".docx", ".rtf", ".odt", ".md":
		return contentModel.SourceText, nil
	case ".mp3", ".wav", ".m4a":
		return contentModel.SourceAudio, nil
	case ".mp4", ".mov", ".webm":
		return contentModel.SourceVideo, nil
	default:
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// Text pulls the raw text out of an uploaded file. Audio and video go
// through the transcriber; the other types are read locally.
func Text(ctx context.Context, path string, sourceType contentModel.SourceType, transcriber Transcriber) (string, error) {
	switch sourceType {
	case contentModel.SourcePDF:
		return extractPDF(path)
	case contentModel.SourceText:
		return extractDoc(path)
	case contentModel.SourceAudio, contentModel.SourceVideo:
		if transcriber == nil {
			return "", errors.New("transcription unavailable: no provider configured")
		}
		return transcriber.Transcribe(ctx, path)
	default:
		return "", fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

func extractPDF(path string) (string, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file")
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Log warning but continue with other pages
			logger.Error("Error parsing page content", "Error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
	}
	if sb.Len() == 0 {
		return "", errors.New("pdf contained no extractable text")
	}
	return sb.String(), nil
}

// extractDoc reads a .odt, .docx, .rtf or plaintext file and returns the
// content as a string.
func extractDoc(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return "", fmt.Errorf("failed to extract document: %w", err)
	}
	return text, nil
}

// protectExtract guards against pdf pages whose parse hangs.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
