package extract

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ledong "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"docsense/internal/domain"
)

// extractPDF walks the document page by page: the selectable text layer wins
// when present, otherwise the page is rasterized and recognized. Pages with
// no text at all are kept as empty entries so page order survives.
func (e *Extractor) extractPDF(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("reading pdf: %w", err)}
	}

	pages := make([]domain.PageText, pageCount)
	var ocrPages []int

	f, reader, err := ledong.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("opening pdf: %w", err)}
	}
	for n := 1; n <= pageCount; n++ {
		text := readTextLayer(reader, n)
		if strings.TrimSpace(text) != "" {
			pages[n-1] = domain.PageText{Number: n, Text: text, Method: domain.MethodDirect}
			continue
		}
		ocrPages = append(ocrPages, n)
	}
	_ = f.Close()

	if len(ocrPages) > 0 {
		if err := e.ocrPDFPages(ctx, path, ocrPages, pages); err != nil {
			return nil, err
		}
	}

	return &domain.ExtractionResult{Pages: pages}, nil
}

// readTextLayer returns the selectable text of one page, or "" when the page
// has none. The pdf library panics on some malformed content streams; such
// pages are treated as having no text layer so the OCR fallback handles them.
func readTextLayer(reader *ledong.Reader, pageNum int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("extract: text layer read panicked on page %d, using ocr fallback: %v", pageNum, r)
			text = ""
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		log.Printf("extract: text layer read failed on page %d, using ocr fallback: %v", pageNum, err)
		return ""
	}
	return content
}

// ocrPDFPages rasterizes and recognizes the given pages concurrently. Results
// land at fixed indices of pages, so ordering is deterministic regardless of
// completion order. Any page failure aborts the whole document.
func (e *Extractor) ocrPDFPages(ctx context.Context, path string, pageNums []int, pages []domain.PageText) error {
	tmpDir, err := os.MkdirTemp(e.cfg.WorkDir, "docsense-ocr-*")
	if err != nil {
		return &ExtractionError{Path: path, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			log.Printf("extract: failed to remove temp dir %q: %v", tmpDir, rmErr)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PageConcurrency)

	for _, n := range pageNums {
		g.Go(func() error {
			text, err := e.ocrPDFPage(gctx, path, tmpDir, n)
			if err != nil {
				return &ExtractionError{Path: path, Page: n, Err: err}
			}
			pages[n-1] = domain.PageText{Number: n, Text: text, Method: domain.MethodOCR}
			return nil
		})
	}

	return g.Wait()
}

// ocrPDFPage renders a single page to PNG and runs recognition on it.
func (e *Extractor) ocrPDFPage(ctx context.Context, path, tmpDir string, pageNum int) (string, error) {
	prefix := filepath.Join(tmpDir, fmt.Sprintf("page-%d", pageNum))
	pageArg := fmt.Sprintf("%d", pageNum)

	// pdftoppm -f N -l N -r DPI -png <in.pdf> <prefix>
	_, _, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", pageArg, "-l", pageArg, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w", err)
	}

	// pdftoppm zero-pads the page suffix depending on total pages.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", pageNum)
	}

	return e.tesseract(ctx, matches[0])
}
