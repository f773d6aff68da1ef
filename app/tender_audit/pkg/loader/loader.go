package loader

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// 单个 XML 正文的读取上限
const maxPayloadSize = 64 << 20

// payloadEntries 各类文档容器中的正文条目
var payloadEntries = []string{"content.xml", "word/document.xml"}

// Load 读取一份公告或须知，返回正规化后的纯文本。
// 支持 .odt/.docx 等 zip 容器，以及从电子采购网另存的 .html 公告页。
func Load(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return loadHTML(path)
	default:
		return loadArchive(path)
	}
}

func loadArchive(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", model.ErrUnreadableDocument, filepath.Base(path), err)
	}
	defer zr.Close()

	entry := findPayload(zr.File)
	if entry == nil {
		return "", fmt.Errorf("%w: %s has no text payload", model.ErrUnreadableDocument, filepath.Base(path))
	}

	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", model.ErrUnreadableDocument, entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPayloadSize))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", model.ErrUnreadableDocument, entry.Name, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not utf-8 text", model.ErrUnreadableDocument, entry.Name)
	}

	text := Normalize(StripMarkup(string(data)))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", model.ErrUnreadableDocument, filepath.Base(path))
	}
	return text, nil
}

// findPayload 优先取标准正文条目，找不到时退回名称含 content/document 的 XML
func findPayload(files []*zip.File) *zip.File {
	for _, want := range payloadEntries {
		for _, f := range files {
			if f.Name == want {
				return f
			}
		}
	}
	for _, f := range files {
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".xml") && (strings.Contains(name, "content") || strings.Contains(name, "document")) {
			return f
		}
	}
	return nil
}

func loadHTML(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnreadableDocument, err)
	}
	abs, _ := filepath.Abs(path)
	text := extractHTML(string(raw), &url.URL{Scheme: "file", Path: abs})
	if text == "" {
		return "", fmt.Errorf("%w: %s has no readable text", model.ErrUnreadableDocument, filepath.Base(path))
	}
	return text, nil
}

// extractHTML 先用 readability 取正文，正文过短时退回整页去标签
func extractHTML(raw string, pageURL *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(raw), pageURL)
	if err == nil {
		if text := Normalize(article.TextContent); utf8.RuneCountInString(text) >= 100 {
			return text
		}
	}
	return Normalize(StripMarkup(raw))
}

// FetchURL 抓取线上公告页并返回正规化文本
func FetchURL(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tender-audit)")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnreadableDocument, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetch %s (status %d)", model.ErrUnreadableDocument, rawURL, res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxPayloadSize))
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnreadableDocument, err)
	}
	text := extractHTML(string(raw), u)
	if text == "" {
		return "", fmt.Errorf("%w: %s has no readable text", model.ErrUnreadableDocument, rawURL)
	}
	return text, nil
}
