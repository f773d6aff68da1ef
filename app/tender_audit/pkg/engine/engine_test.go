package engine

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

const announcementText = `案號:C13A07469
案名:辦公桌椅一批
招標方式:公開取得報價或企劃書公告
決標方式:最低標
採購金額:NT$ 1,200,000
採購金級距:未達公告金額
依據法條:政府採購法第49條
是否訂有底價:是
是否複數決標:否
是否依政府採購法施行細則第64條之2辦理:否
標的分類:財物類 買受,定製
是否適用條約或協定之採購:否
本採購是否屬「具敏感性或國安(含資安)疑慮之業務範疇」採購:否
本採購是否屬「涉及國家安全」採購:否
未來增購權利:無
是否屬特殊採購:否
是否屬統包:否
是否採行協商措施:否
是否提供電子領標:是
是否屬優先採購身心障礙福利機構產品或服務:否
外國廠商:不可參與投標
本案不限定中小企業參與
押標金:新臺幣 50,000 元
開標方式:一次投標不分段開標
廠商資格:合法設立登記之廠商`

const instructionsText = `一、採購標的名稱及案號:辦公桌椅一批 C13A07469
三、■(二)逾公告金額十分之一未達公告金額
五、■公開取得書面報價
十九、押標金:■一定金額 新臺幣 50,000 元 □無需繳納押標金
四十二、■(一)採一次投標不分段開標 □(二)採一次投標分段開標`

// writeODT 把每行文字写成一个段落
func writeODT(t *testing.T, path, text string) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("<office:document-content><office:body><office:text>")
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("<text:p>" + line + "</text:p>")
	}
	sb.WriteString("</office:text></office:body></office:document-content>")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("content.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

// writeCase 在 root 下建立一个案件资料夹
func writeCase(t *testing.T, root, name, announcement, instructions string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if announcement != "" {
		writeODT(t, filepath.Join(dir, "01招標公告.odt"), announcement)
	}
	if instructions != "" {
		writeODT(t, filepath.Join(dir, "02投標須知.odt"), instructions)
	}
	return dir
}

type mockStore struct {
	mu     sync.Mutex
	saved  []*model.AuditReport
	by     []int
	err    error
	nextID int
}

func (m *mockStore) SaveAuditReport(ctx context.Context, r *model.AuditReport, submittedBy int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.saved = append(m.saved, r)
	m.by = append(m.by, submittedBy)
	m.nextID++
	return m.nextID, nil
}

type mockSink struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *mockSink) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string]string)
	}
	m.files[key] = contentType
	return "mem://" + key, nil
}

type mockGenerator struct {
	mu    sync.Mutex
	resp  string
	err   error
	calls int
}

func (m *mockGenerator) Generate(ctx context.Context, req *llm.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.resp, m.err
}

func (m *mockGenerator) Name() string { return "mock/model" }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Extract.Strategy = "deterministic"
	cfg.Sink.Formats = []string{"json", "html", "text"}
	cfg.Concurrency.Workers = 2
	return cfg
}

func TestAuditCase(t *testing.T) {
	dir := writeCase(t, t.TempDir(), "C13A07469", announcementText, instructionsText)
	store := &mockStore{}
	out := &mockSink{}
	e, err := New(testConfig(), nil, WithStore(store), WithSink(out))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r, id, err := e.Submit(context.Background(), dir, 7)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(r.Checks) != len(e.RuleSet().Rules) {
		t.Errorf("got %d checks, want %d", len(r.Checks), len(e.RuleSet().Rules))
	}
	if r.CaseID != "C13A07469" || r.RunID == "" {
		t.Errorf("CaseID = %q, RunID = %q", r.CaseID, r.RunID)
	}
	if r.AnnouncementFile != "01招標公告.odt" || r.InstructionFile != "02投標須知.odt" {
		t.Errorf("files = %q, %q", r.AnnouncementFile, r.InstructionFile)
	}
	if r.Strategy[model.DocAnnouncement] != "deterministic" {
		t.Errorf("Strategy = %v", r.Strategy)
	}
	for _, d := range r.Degraded {
		if d.Document == model.DocAnnouncement {
			t.Errorf("announcement field %s should have been extracted", d.Field)
		}
	}
	if r.Checks[0].Status != model.StatusPass {
		t.Errorf("item 1 = %s: %s", r.Checks[0].Status, r.Checks[0].Explanation)
	}

	if id != 1 || len(store.saved) != 1 || store.by[0] != 7 {
		t.Errorf("store got id=%d saved=%d by=%v", id, len(store.saved), store.by)
	}
	for _, ext := range []string{".json", ".html", ".txt"} {
		if _, ok := out.files["C13A07469/"+r.RunID+ext]; !ok {
			t.Errorf("sink missing %s artifact: %v", ext, out.files)
		}
	}
}

func TestAuditCaseMissingDocument(t *testing.T) {
	dir := writeCase(t, t.TempDir(), "only-announcement", announcementText, "")
	store := &mockStore{}
	e, _ := New(testConfig(), nil, WithStore(store))

	_, err := e.AuditCase(context.Background(), dir)
	if !errors.Is(err, model.ErrMissingDocument) {
		t.Errorf("AuditCase() error = %v, want ErrMissingDocument", err)
	}
	if len(store.saved) != 0 {
		t.Error("a case that cannot be audited must not be stored")
	}
}

func TestAuditCaseUnreadable(t *testing.T) {
	dir := writeCase(t, t.TempDir(), "broken", announcementText, "")
	if err := os.WriteFile(filepath.Join(dir, "02投標須知.odt"), []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	e, _ := New(testConfig(), nil)

	if _, err := e.AuditCase(context.Background(), dir); !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("AuditCase() error = %v, want ErrUnreadableDocument", err)
	}
}

func TestAuditCaseDegraded(t *testing.T) {
	ann := strings.Replace(announcementText, "案號:C13A07469\n", "", 1)
	dir := writeCase(t, t.TempDir(), "folder-name", ann, instructionsText)
	e, _ := New(testConfig(), nil)

	r, err := e.AuditCase(context.Background(), dir)
	if err != nil {
		t.Fatalf("AuditCase() error = %v", err)
	}
	if r.CaseID != "C13A07469" {
		t.Errorf("CaseID = %q, want the instructions case number", r.CaseID)
	}
	if len(r.Degraded) == 0 {
		t.Fatal("Degraded is empty")
	}
	first := r.Degraded[0]
	if first.Document != model.DocAnnouncement || first.Field != "案號" || first.Reason != reasonMissingCritical {
		t.Errorf("Degraded[0] = %+v, want critical 案號 first", first)
	}
	if r.Checks[0].Status != model.StatusSkip || r.Checks[0].Reason != model.ReasonUnknownInput {
		t.Errorf("item 1 = %s/%s, want skip/unknown-input", r.Checks[0].Status, r.Checks[0].Reason)
	}
}

func TestAuditCaseStoreFailure(t *testing.T) {
	dir := writeCase(t, t.TempDir(), "c", announcementText, instructionsText)
	e, _ := New(testConfig(), nil, WithStore(&mockStore{err: errors.New("connection refused")}))

	r, id, err := e.Submit(context.Background(), dir, 0)
	if err != nil || r == nil {
		t.Fatalf("Submit() = %v, %v; a storage failure should not fail the audit", r, err)
	}
	if id != 0 {
		t.Errorf("id = %d, want 0", id)
	}
}

func TestAuditCaseCancelled(t *testing.T) {
	dir := writeCase(t, t.TempDir(), "c", announcementText, instructionsText)
	e, _ := New(testConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.AuditCase(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("AuditCase() error = %v, want context.Canceled", err)
	}
}

func TestAdviceFailureDoesNotChangeVerdict(t *testing.T) {
	// 押标金不一致，必然有不通过项
	ins := strings.Replace(instructionsText, "50,000", "30,000", 1)
	dir := writeCase(t, t.TempDir(), "c", announcementText, ins)
	cfg := testConfig()
	cfg.LLM.Advice = true

	plain, _ := New(cfg, nil)
	want, err := plain.AuditCase(context.Background(), dir)
	if err != nil {
		t.Fatalf("AuditCase() error = %v", err)
	}
	if want.Summary.Failed+want.Summary.Warned == 0 {
		t.Fatal("fixture should produce failures")
	}

	gen := &mockGenerator{err: llm.ErrExternalService}
	e, _ := New(cfg, gen)
	got, err := e.AuditCase(context.Background(), dir)
	if err != nil {
		t.Fatalf("AuditCase() error = %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("advisor called %d times, want 1", gen.calls)
	}
	if got.Advice != nil || got.Summary != want.Summary {
		t.Errorf("advice failure changed the report: %+v vs %+v", got.Summary, want.Summary)
	}

	gen = &mockGenerator{resp: `{"建議優先處理": ["勾選第5點公開取得報價"]}`}
	e, _ = New(cfg, gen)
	got, _ = e.AuditCase(context.Background(), dir)
	if got.Advice == nil || got.Advice.Priorities[0] != "勾選第5點公開取得報價" || got.Advice.Model != "mock/model" {
		t.Errorf("Advice = %+v", got.Advice)
	}
	if got.Summary != want.Summary {
		t.Error("advice changed the summary")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Sink.Formats = []string{"pdf"}
	if _, err := New(cfg, nil); err == nil {
		t.Error("New() should reject unknown sink formats")
	}
}
