package extract

import (
	"context"
	"time"
)

// TextExtractor turns a source file into text suitable for the insert entry point.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.FormatText | FormatJSON | FormatXML | FormatXLSX | FormatPDF
	Method     string // "plain" | "windows-1252" | "xlsx-rows" | "pdf-text"
	Duration   time.Duration
	Warnings   []string
}
