package extract_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsense/internal/config"
	"docsense/internal/domain"
	"docsense/internal/extract"
)

// stubRunner records invocations and dispatches on the binary name.
type stubRunner struct {
	mu       sync.Mutex
	calls    []string
	ocrText  string
	ocrErr   error
	toppmErr error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()

	switch {
	case strings.Contains(name, "tesseract"):
		if s.ocrErr != nil {
			return nil, []byte("tesseract boom"), s.ocrErr
		}
		return []byte(s.ocrText), nil, nil
	case strings.Contains(name, "pdftoppm"):
		if s.toppmErr != nil {
			return nil, []byte("pdftoppm boom"), s.toppmErr
		}
		// pdftoppm writes <prefix>-N.png; emulate that so the glob finds it.
		prefix := args[len(args)-1]
		page := args[1] // value of -f
		return nil, nil, os.WriteFile(fmt.Sprintf("%s-%s.png", prefix, page), []byte("png"), 0o644)
	}
	return nil, nil, fmt.Errorf("unexpected binary %s", name)
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newExtractor(r extract.Runner) *extract.Extractor {
	return extract.NewWithRunner(config.ExtractorConfig{
		Pdftoppm:        "pdftoppm",
		Tesseract:       "tesseract",
		TesseractLang:   "eng",
		DPI:             150,
		PageConcurrency: 2,
	}, r)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	runner := &stubRunner{}
	e := newExtractor(runner)

	for _, name := range []string{"doc.txt", "doc.docx", "doc", "archive.zip"} {
		res, err := e.Extract(context.Background(), name)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, name)
	}
	// rejected before any engine runs
	assert.Zero(t, runner.callCount())
}

func TestExtract_Image_OCROnly(t *testing.T) {
	runner := &stubRunner{ocrText: "Hello, OCR World!"}
	e := newExtractor(runner)

	img := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(img, []byte("fake png"), 0o644))

	res, err := e.Extract(context.Background(), img)
	require.NoError(t, err)

	require.Len(t, res.Pages, 1)
	assert.Equal(t, 1, res.Pages[0].Number)
	assert.Equal(t, "Hello, OCR World!", res.Pages[0].Text)
	assert.Equal(t, domain.MethodOCR, res.Pages[0].Method)
	assert.False(t, res.IsEmpty())
}

func TestExtract_Image_EngineFailure(t *testing.T) {
	runner := &stubRunner{ocrErr: errors.New("exit status 1")}
	e := newExtractor(runner)

	img := filepath.Join(t.TempDir(), "scan.jpg")
	require.NoError(t, os.WriteFile(img, []byte("fake jpg"), 0o644))

	res, err := e.Extract(context.Background(), img)
	assert.Nil(t, res)

	var exErr *extract.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, img, exErr.Path)
}

func TestExtract_Image_EmptyTextIsValid(t *testing.T) {
	runner := &stubRunner{ocrText: "   \n\t"}
	e := newExtractor(runner)

	img := filepath.Join(t.TempDir(), "blank.png")
	require.NoError(t, os.WriteFile(img, []byte("fake png"), 0o644))

	res, err := e.Extract(context.Background(), img)
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestExtract_PDF_TextLayerSkipsOCR(t *testing.T) {
	runner := &stubRunner{}
	e := newExtractor(runner)

	path := writeTextPDF(t, "Hello PDF text layer")

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, res.Pages, 1)
	assert.Equal(t, domain.MethodDirect, res.Pages[0].Method)
	assert.Contains(t, res.Text(), "Hello PDF text layer")
	// the recognition fallback must never run when a text layer exists
	assert.Zero(t, runner.callCount())
}

func TestExtract_PDF_ScannedFallsBackToOCR(t *testing.T) {
	runner := &stubRunner{ocrText: "recognized from scan"}
	e := newExtractor(runner)

	path := writeScannedPDF(t)

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, res.Pages, 1)
	assert.Equal(t, domain.MethodOCR, res.Pages[0].Method)
	assert.Equal(t, "recognized from scan", res.Pages[0].Text)
	assert.Equal(t, 2, runner.callCount()) // pdftoppm + tesseract
}

func TestExtract_PDF_OCRFailureAbortsDocument(t *testing.T) {
	runner := &stubRunner{toppmErr: errors.New("exit status 99")}
	e := newExtractor(runner)

	path := writeScannedPDF(t)

	res, err := e.Extract(context.Background(), path)
	assert.Nil(t, res)

	var exErr *extract.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, 1, exErr.Page)
}

func TestExtract_PDF_Corrupt(t *testing.T) {
	e := newExtractor(&stubRunner{})

	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 garbage"), 0o644))

	res, err := e.Extract(context.Background(), path)
	assert.Nil(t, res)

	var exErr *extract.ExtractionError
	assert.ErrorAs(t, err, &exErr)
}

// writeTextPDF builds a minimal single-page PDF with a selectable text layer.
// Object offsets are computed while assembling so the xref table is valid.
func writeTextPDF(t *testing.T, text string) string {
	t.Helper()
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R " +
			"/Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	return writePDF(t, objects)
}

// writeScannedPDF builds a single-page PDF whose content stream draws nothing,
// mimicking a scanned page with no text layer.
func writeScannedPDF(t *testing.T) string {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << >> >>",
		"<< /Length 0 >>\nstream\n\nendstream",
	}
	return writePDF(t, objects)
}

func writePDF(t *testing.T, objects []string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	path := filepath.Join(t.TempDir(), "fixture.pdf")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
