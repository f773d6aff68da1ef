package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		wantAnn  string
		wantIns  string
		wantMiss bool
	}{
		{
			name:    "numbered prefixes",
			files:   []string{"01招標公告.odt", "03投標須知.docx", "04決標公告.odt"},
			wantAnn: "01招標公告.odt",
			wantIns: "03投標須知.docx",
		},
		{
			name:    "lock files ignored",
			files:   []string{"~$投標須知.docx", "公開取得報價公告.odt", "投標須知.odt"},
			wantAnn: "公開取得報價公告.odt",
			wantIns: "投標須知.odt",
		},
		{
			name:    "english names",
			files:   []string{"announcement.docx", "instructions.docx"},
			wantAnn: "announcement.docx",
			wantIns: "instructions.docx",
		},
		{
			name:     "instructions missing",
			files:    []string{"01公告.odt", "附件.pdf"},
			wantMiss: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)

			got, err := Discover(dir)
			if tt.wantMiss {
				if !errors.Is(err, model.ErrMissingDocument) {
					t.Fatalf("Discover() error = %v, want ErrMissingDocument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if filepath.Base(got.Announcement) != tt.wantAnn {
				t.Errorf("Announcement = %s, want %s", filepath.Base(got.Announcement), tt.wantAnn)
			}
			if filepath.Base(got.Instructions) != tt.wantIns {
				t.Errorf("Instructions = %s, want %s", filepath.Base(got.Instructions), tt.wantIns)
			}
		})
	}
}

func TestDiscoverMissingFolder(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, model.ErrMissingDocument) {
		t.Errorf("Discover() error = %v, want ErrMissingDocument", err)
	}
}
