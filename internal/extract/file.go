package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/joseph-ayodele/nfse-ingest/constants"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Config struct {
	MaxBytes int64 // 0 = no limit
	MaxPages int   // 0 = no limit
}

// FileExtractor reads text, JSON, XML, XLSX and PDF invoices from disk.
type FileExtractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewFileExtractor(cfg Config, logger *slog.Logger) *FileExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileExtractor{cfg: cfg, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *FileExtractor) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	format := constants.MapExtToFormat(ext)
	e.logger.Debug("starting text extraction", "path", path, "ext", ext, "format", format)

	if err := e.checkSize(path); err != nil {
		return TextExtractionResult{SourceType: format}, err
	}

	var (
		res TextExtractionResult
		err error
	)
	switch format {
	case constants.FormatText, constants.FormatJSON, constants.FormatXML:
		res, err = e.extractPlain(path)
	case constants.FormatXLSX:
		res, err = e.extractXLSX(ctx, path)
	case constants.FormatPDF:
		res, err = e.extractPDF(ctx, path)
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return TextExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.SourceType = format
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("text extraction failed", "path", path, "format", format, "error", err)
		return res, err
	}
	e.logger.Info("text extracted",
		"path", path,
		"format", format,
		"method", res.Method,
		"chars", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *FileExtractor) checkSize(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if e.cfg.MaxBytes > 0 && fi.Size() > e.cfg.MaxBytes {
		return fmt.Errorf("file too large: %d bytes (max %d)", fi.Size(), e.cfg.MaxBytes)
	}
	return nil
}

// extractPlain reads UTF-8 text, falling back to Windows-1252 which is what
// older municipal systems export.
func (e *FileExtractor) extractPlain(path string) (TextExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TextExtractionResult{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	res := TextExtractionResult{Pages: 1, Method: "plain"}
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return res, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
		res.Method = "windows-1252"
		res.Warnings = append(res.Warnings, "input was not UTF-8; decoded as Windows-1252")
	}
	res.Text = string(data)
	return res, nil
}

// extractXLSX renders every sheet as one line per row with tab-separated cells.
func (e *FileExtractor) extractXLSX(ctx context.Context, path string) (TextExtractionResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return TextExtractionResult{}, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("failed to close workbook", "path", path, "error", err)
		}
	}()

	res := TextExtractionResult{Method: "xlsx-rows"}
	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("sheet %q: %v", sheet, err))
			continue
		}
		res.Pages++
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if c = strings.TrimSpace(c); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) == 0 {
				continue
			}
			b.WriteString(strings.Join(cells, "\t"))
			b.WriteByte('\n')
		}
	}
	res.Text = b.String()
	return res, nil
}

// extractPDF reads the embedded text layer row by row. Scanned PDFs without
// a text layer yield empty text and a warning.
func (e *FileExtractor) extractPDF(ctx context.Context, path string) (TextExtractionResult, error) {
	fh, r, err := pdf.Open(path)
	if err != nil {
		return TextExtractionResult{}, err
	}
	defer func() { _ = fh.Close() }()

	res := TextExtractionResult{Method: "pdf-text"}
	pages := r.NumPage()
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		res.Warnings = append(res.Warnings, fmt.Sprintf("truncated to %d of %d pages", e.cfg.MaxPages, pages))
		pages = e.cfg.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteByte('\n')
		}
		res.Pages++
	}
	res.Text = b.String()
	if strings.TrimSpace(res.Text) == "" {
		res.Warnings = append(res.Warnings, "pdf has no text layer")
	}
	return res, nil
}
