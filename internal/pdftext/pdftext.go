// Package pdftext downloads minutes PDFs and extracts their text. It is the
// fallback source when the platform publishes a PDF instead of (or next to)
// the rendered minutes page.
package pdftext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ManualProcessingPlaceholder is returned as the text when a downloaded PDF
// defeats text extraction; the document still carries the local path so the
// file can be processed by hand.
const ManualProcessingPlaceholder = "PDFからのテキスト抽出に失敗しました。手動での処理が必要です。"

const defaultTimeout = 60 * time.Second

// Handler downloads PDFs to a fixed directory and extracts their text.
type Handler struct {
	HTTPClient *http.Client
	UserAgent  string
	// Dir receives downloaded files, one per (council, schedule) pair.
	Dir string
}

func (h *Handler) client() *http.Client {
	if h.HTTPClient != nil {
		return h.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

// localPath is deterministic per identifier pair so repeat downloads
// overwrite rather than accumulate.
func (h *Handler) localPath(councilID, scheduleID string) string {
	return filepath.Join(h.Dir, fmt.Sprintf("%s_%s.pdf", councilID, scheduleID))
}

// DownloadAndExtract fetches the PDF at url and returns its local path and
// extracted text. Any download failure yields ("", ""); an extraction failure
// yields the path plus a placeholder, so callers always get a usable signal
// without an error path to handle.
func (h *Handler) DownloadAndExtract(ctx context.Context, url, councilID, scheduleID string) (string, string) {
	path, err := h.download(ctx, url, councilID, scheduleID)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("pdf download failed")
		return "", ""
	}
	text, err := ExtractFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("pdf text extraction failed")
		return path, ManualProcessingPlaceholder
	}
	return path, text
}

func (h *Handler) download(ctx context.Context, url, councilID, scheduleID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	resp, err := h.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if h.Dir != "" {
		if err := os.MkdirAll(h.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create pdf dir: %w", err)
		}
	}
	path := h.localPath(councilID, scheduleID)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// ExtractFile extracts text from a PDF on disk, page by page, so memory use
// stays bounded by the largest page rather than the whole document.
func ExtractFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", filepath.Base(path))
	}
	return text, nil
}
