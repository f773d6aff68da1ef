package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

func TestCaseFolders(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"b", "a", ".git"} {
		if err := os.Mkdir(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := CaseFolders(root)
	if err != nil {
		t.Fatalf("CaseFolders() error = %v", err)
	}
	want := []string{filepath.Join(root, "a"), filepath.Join(root, "b")}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("CaseFolders() = %v, want %v", got, want)
	}
}

func TestAuditBatch(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "case-1", announcementText, instructionsText)
	writeCase(t, root, "case-2", announcementText, instructionsText)
	writeCase(t, root, "case-3", announcementText, "")

	store := &mockStore{}
	e, _ := New(testConfig(), nil, WithStore(store))

	var (
		mu       sync.Mutex
		progress []int
	)
	rows, err := e.AuditBatch(context.Background(), root, BatchOptions{
		Workers: 3,
		ProgressCallback: func(folder string, done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 3 {
				t.Errorf("total = %d, want 3", total)
			}
			progress = append(progress, done)
		},
	})
	if err != nil {
		t.Fatalf("AuditBatch() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, name := range []string{"case-1", "case-2", "case-3"} {
		if filepath.Base(rows[i].Folder) != name {
			t.Errorf("rows[%d].Folder = %s, want %s", i, rows[i].Folder, name)
		}
	}
	if rows[0].Err != nil || rows[0].Report == nil || rows[1].Err != nil {
		t.Errorf("good cases failed: %v, %v", rows[0].Err, rows[1].Err)
	}
	if !errors.Is(rows[2].Err, model.ErrMissingDocument) || rows[2].Report != nil {
		t.Errorf("rows[2] = %+v, want ErrMissingDocument", rows[2])
	}
	if len(store.saved) != 2 {
		t.Errorf("stored %d reports, want 2", len(store.saved))
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Errorf("progress = %v", progress)
	}
	if rows[0].Report.RunID == rows[1].Report.RunID {
		t.Error("each case should get its own run id")
	}
}

func TestAuditBatchEmptyRoot(t *testing.T) {
	e, _ := New(testConfig(), nil)
	if _, err := e.AuditBatch(context.Background(), t.TempDir(), BatchOptions{}); err == nil {
		t.Error("AuditBatch() should fail when there are no case folders")
	}
	if _, err := e.AuditBatch(context.Background(), filepath.Join(t.TempDir(), "missing"), BatchOptions{}); err == nil {
		t.Error("AuditBatch() should fail on a missing root")
	}
}
