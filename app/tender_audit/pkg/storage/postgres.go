package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	_ "github.com/lib/pq"
)

// ErrNotFound 指定的审核记录不存在
var ErrNotFound = errors.New("audit not found")

type Storage struct {
	db *sql.DB
}

// AuditRow 审核记录列表中的一行
type AuditRow struct {
	ID          int
	RunID       string
	CaseID      string
	Verdict     model.Verdict
	Risk        model.Risk
	RiskScore   float64
	Failed      int
	Warned      int
	SubmittedBy int
	CreatedAt   time.Time
}

// DSN 生成 lib/pq 连接串
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// NewWithDB 使用已打开的连接，建表后返回
func NewWithDB(db *sql.DB) (*Storage, error) {
	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_runs (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			case_id TEXT NOT NULL,
			folder TEXT,
			announcement_file TEXT,
			instruction_file TEXT,
			rule_set_version TEXT NOT NULL,
			verdict TEXT NOT NULL,
			risk TEXT NOT NULL,
			risk_score DOUBLE PRECISION NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			warned INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			submitted_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
			report JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS check_results (
			id SERIAL PRIMARY KEY,
			audit_id INTEGER REFERENCES audit_runs(id) ON DELETE CASCADE,
			item INTEGER NOT NULL,
			label TEXT NOT NULL,
			status TEXT NOT NULL,
			risk TEXT NOT NULL,
			reason TEXT,
			announcement_value TEXT,
			instruction_value TEXT,
			explanation TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS degraded_fields (
			id SERIAL PRIMARY KEY,
			audit_id INTEGER REFERENCES audit_runs(id) ON DELETE CASCADE,
			document TEXT NOT NULL,
			field TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_runs_case ON audit_runs(case_id)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", q, err)
		}
	}
	return nil
}

// SaveAuditReport 在一个事务中写入报告及逐项结果，submittedBy 为 0 表示命令行提交
func (s *Storage) SaveAuditReport(ctx context.Context, r *model.AuditReport, submittedBy int) (int, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var by sql.NullInt64
	if submittedBy > 0 {
		by = sql.NullInt64{Int64: int64(submittedBy), Valid: true}
	}

	sum := r.Summary
	var id int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO audit_runs (run_id, case_id, folder, announcement_file, instruction_file, rule_set_version,
			verdict, risk, risk_score, total, passed, failed, warned, skipped, submitted_by, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`,
		r.RunID, r.CaseID, r.Folder, r.AnnouncementFile, r.InstructionFile, r.RuleSetVersion,
		sum.Verdict.String(), sum.Risk.String(), sum.RiskScore,
		sum.Total, sum.Passed, sum.Failed, sum.Warned, sum.Skipped,
		by, payload, r.GeneratedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit run: %w", err)
	}

	for _, c := range r.Checks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO check_results (audit_id, item, label, status, risk, reason, announcement_value, instruction_value, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, c.ID, c.Label, c.Status.String(), c.Risk.String(), c.Reason.String(),
			removeNullBytes(c.AnnouncementValue), removeNullBytes(c.InstructionValue), removeNullBytes(c.Explanation),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert check %d: %w", c.ID, err)
		}
	}

	for _, d := range r.Degraded {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO degraded_fields (audit_id, document, field, reason) VALUES ($1, $2, $3, $4)`,
			id, string(d.Document), d.Field, removeNullBytes(d.Reason),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert degraded field %s: %w", d.Field, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAudits 按时间倒序列出审核记录，submittedBy 为 0 时不过滤
func (s *Storage) ListAudits(ctx context.Context, submittedBy, limit int) ([]AuditRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, case_id, verdict, risk, risk_score, failed, warned, COALESCE(submitted_by, 0), created_at
		FROM audit_runs
		WHERE $1 = 0 OR submitted_by = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, submittedBy, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditRow
	for rows.Next() {
		var (
			a             AuditRow
			verdict, risk string
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.CaseID, &verdict, &risk, &a.RiskScore,
			&a.Failed, &a.Warned, &a.SubmittedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := a.Verdict.UnmarshalText([]byte(verdict)); err != nil {
			return nil, err
		}
		if err := a.Risk.UnmarshalText([]byte(risk)); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAuditReport 读回完整报告
func (s *Storage) GetAuditReport(ctx context.Context, id int) (*model.AuditReport, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT report FROM audit_runs WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var r model.AuditReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %d: %w", id, err)
	}
	return &r, nil
}

// PostgreSQL 文本字段不支持 NULL 字节
func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
