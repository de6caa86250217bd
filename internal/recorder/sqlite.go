package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

// fetchFactor bounds how many FTS hits are read per requested exemplar.
const fetchFactor = 4

// SQLiteRecorder persists advice and spans to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	r := &SQLiteRecorder{db: db, logger: logger.Named("recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS advice (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			profile_id TEXT    NOT NULL,
			priority   TEXT    NOT NULL,
			category   TEXT    NOT NULL,
			title      TEXT,
			message    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_advice_profile ON advice(profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_advice_ts ON advice(timestamp)`,

		`CREATE VIRTUAL TABLE IF NOT EXISTS advice_fts USING fts5(
			title,
			message,
			priority,
			category,
			content='advice',
			content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS advice_fts_insert AFTER INSERT ON advice BEGIN
			INSERT INTO advice_fts(rowid, title, message, priority, category)
			VALUES (new.id, new.title, new.message, new.priority, new.category);
		END`,
		`CREATE TRIGGER IF NOT EXISTS advice_fts_delete AFTER DELETE ON advice BEGIN
			INSERT INTO advice_fts(advice_fts, rowid, title, message, priority, category)
			VALUES ('delete', old.id, old.title, old.message, old.priority, old.category);
		END`,

		`CREATE TABLE IF NOT EXISTS spans (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			trace_id    TEXT    NOT NULL,
			span_id     TEXT    NOT NULL,
			name        TEXT    NOT NULL,
			duration_ms REAL,
			attributes  TEXT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spans_trace ON spans(trace_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// IndexAdvice stores a delivered tip so later runs can retrieve it.
func (r *SQLiteRecorder) IndexAdvice(ctx context.Context, rec model.AdviceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO advice
		(timestamp, profile_id, priority, category, title, message)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), rec.ProfileID, string(rec.Priority), string(rec.Category), rec.Title, rec.Message,
	)
	if err != nil {
		return fmt.Errorf("index advice: %w", err)
	}
	return nil
}

type hit struct {
	category string
	title    string
	message  string
	score    float64
}

// RetrieveSimilar runs a full-text query over past advice of other profiles.
// Hits below q.MinScore are dropped, each category is capped, and the result
// carries hit counts per category plus formatted exemplars.
func (r *SQLiteRecorder) RetrieveSimilar(ctx context.Context, q model.SimilarQuery) (*model.SimilarContext, error) {
	match := sanitizeFTS(q.Text)
	if match == "" {
		return nil, nil
	}
	defaultCap := q.DefaultLimit
	if defaultCap <= 0 {
		defaultCap = 2
	}
	total := defaultCap
	for _, n := range q.Limits {
		total += n
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.category, a.title, a.message, fts.rank
		FROM advice_fts fts
		JOIN advice a ON a.id = fts.rowid
		WHERE advice_fts MATCH ? AND a.profile_id != ?
		ORDER BY fts.rank LIMIT ?`,
		match, q.ExcludeID, total*fetchFactor,
	)
	if err != nil {
		return nil, fmt.Errorf("retrieve similar: %w", err)
	}
	defer rows.Close()

	var hits []hit
	for rows.Next() {
		var h hit
		var rank float64
		if err := rows.Scan(&h.category, &h.title, &h.message, &rank); err != nil {
			return nil, fmt.Errorf("scan similar: %w", err)
		}
		// bm25 ranks are negative, better matches more so
		h.score = -rank
		if h.score < q.MinScore {
			continue
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similar: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	out := &model.SimilarContext{Counts: make(map[string]int)}
	kept := make(map[string]int)
	var lines []string
	for _, h := range hits {
		out.Counts[h.category]++
		limit, ok := q.Limits[h.category]
		if !ok {
			limit = defaultCap
		}
		if kept[h.category] >= limit {
			continue
		}
		kept[h.category]++
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s", h.category, h.title, h.message))
	}

	cats := make([]string, 0, len(out.Counts))
	for c := range out.Counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	var summary []string
	for _, c := range cats {
		summary = append(summary, fmt.Sprintf("%d %s", out.Counts[c], c))
	}
	out.Exemplars = "Past tips for similar situations (" + strings.Join(summary, ", ") + "):\n" + strings.Join(lines, "\n")
	return out, nil
}

// Emit stores a finished span. Failures are logged, never returned.
func (r *SQLiteRecorder) Emit(s tracing.Span) {
	attrs, err := json.Marshal(s.Attributes)
	if err != nil {
		attrs = []byte("{}")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO spans
		(timestamp, trace_id, span_id, name, duration_ms, attributes, error)
		VALUES (?,?,?,?,?,?,?)`,
		s.Start.Unix(), s.TraceID, s.SpanID, s.Name,
		float64(s.Duration().Microseconds())/1000, string(attrs), s.Error,
	)
	if err != nil {
		r.logger.Warn("record span", zap.String("span", s.Name), zap.Error(err))
	}
}

// SpanCount returns the number of spans stored for a trace.
func (r *SQLiteRecorder) SpanCount(ctx context.Context, traceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spans WHERE trace_id = ?`, traceID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

// sanitizeFTS quotes every word so user text cannot inject FTS5 syntax, and
// ORs them so partially similar advice still matches.
// "energy debt" → `"energy" OR "debt"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	out := words[:0]
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		out = append(out, `"`+w+`"`)
	}
	return strings.Join(out, " OR ")
}
