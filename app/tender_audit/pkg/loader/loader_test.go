package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// writeArchive 在 dir 下写入一个只含给定条目的 zip 容器
func writeArchive(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	zw := zip.NewWriter(f)
	for entry, body := range entries {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("create entry %s: %v", entry, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write entry %s: %v", entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestLoadODT(t *testing.T) {
	dir := t.TempDir()
	xml := `<office:document-content><office:body><office:text>` +
		`<text:p>(一)案號：<text:span>Ｃ１３Ａ０７４６９</text:span></text:p>` +
		`<text:p>(二)案名：辦公<text:s/>設備&amp;耗材</text:p>` +
		`<text:p>貳、押標金：新臺幣５０，０００元</text:p>` +
		`</office:text></office:body></office:document-content>`
	path := writeArchive(t, dir, "01公告.odt", map[string]string{"content.xml": xml, "mimetype": "application/vnd.oasis.opendocument.text"})

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := "(一)案號:C13A07469\n(二)案名:辦公 設備&耗材\n二、押標金:新臺幣50,000元"
	if got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestLoadDOCX(t *testing.T) {
	dir := t.TempDir()
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>採購標的名稱及案號：</w:t></w:r><w:r><w:t>辦公設備 C13A07469</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>■(一)採一次投標不分段開標</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	path := writeArchive(t, dir, "03投標須知.docx", map[string]string{"word/document.xml": xml})

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(got, "採購標的名稱及案號:辦公設備 C13A07469") {
		t.Errorf("Load() = %q, missing merged runs", got)
	}
	if !strings.Contains(got, "\n■(一)採一次投標不分段開標") {
		t.Errorf("Load() = %q, paragraph not on its own line", got)
	}
}

func TestLoadFallbackEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "odd.odt", map[string]string{"Content_Main.xml": "<p>案號:X100</p>"})
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "案號:X100" {
		t.Errorf("Load() = %q", got)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "broken.odt")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	noPayload := writeArchive(t, dir, "empty.docx", map[string]string{"mimetype": "x"})
	badText := writeArchive(t, dir, "bad.odt", map[string]string{"content.xml": "\xff\xfe\xfd"})

	for _, path := range []string{notZip, noPayload, badText, filepath.Join(dir, "missing.odt")} {
		_, err := Load(path)
		if !errors.Is(err, model.ErrUnreadableDocument) {
			t.Errorf("Load(%s) error = %v, want ErrUnreadableDocument", filepath.Base(path), err)
		}
	}
}

func TestLoadHTMLFallsBackToMarkup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "公告.html")
	page := `<html><body><table><tr><td>案號：X100</td></tr><tr><td>押標金：新臺幣1,000元</td></tr></table></body></html>`
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(got, "案號:X100") || !strings.Contains(got, "押標金:新臺幣1,000元") {
		t.Errorf("Load() = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	in := "  壹、案號：　Ｘ１００  \n\n\t參、(二) 說明  "
	want := "一、案號: X100\n三、(二) 說明"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}
