package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"MarketAdvisor/internal/model"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// indicatorColumns maps stored indicator columns to their names.
var indicatorColumns = []struct {
	column string
	name   model.Indicator
}{
	{"sma_short", model.SMAShort},
	{"sma_long", model.SMALong},
	{"ema_fast", model.EMAFast},
	{"ema_slow", model.EMASlow},
	{"rsi", model.RSI},
	{"macd", model.MACD},
	{"macd_signal", model.MACDSignal},
	{"macd_hist", model.MACDHist},
	{"bb_upper", model.BBUpper},
	{"bb_middle", model.BBMiddle},
	{"bb_lower", model.BBLower},
	{"support", model.Support},
	{"resistance", model.Resistance},
}

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
	log *slog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now, log: slog.Default().With("component", "recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	cols := make([]string, len(indicatorColumns))
	for i, c := range indicatorColumns {
		cols[i] = c.column + " REAL"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id         TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			strategy   TEXT NOT NULL,
			bar_time   INTEGER NOT NULL,
			close      REAL NOT NULL,
			verdict    TEXT NOT NULL,
			buy_count  INTEGER NOT NULL,
			sell_count INTEGER NOT NULL,
			signals    TEXT NOT NULL,
			` + strings.Join(cols, ",\n\t\t\t") + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, created_at)`,

		`CREATE TABLE IF NOT EXISTS plans (
			id          TEXT PRIMARY KEY,
			analysis_id TEXT,
			created_at  INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			action      TEXT NOT NULL,
			price       REAL,
			stop_loss   REAL,
			take_profit REAL,
			risk_reward REAL,
			basis_price REAL,
			profit_loss REAL,
			profit_pct  REAL,
			advice      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_symbol_ts ON plans(symbol, created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis stores rec and returns its generated ID.
func (r *SQLiteRecorder) RecordAnalysis(rec *AnalysisRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	signals, err := json.Marshal(rec.Signals)
	if err != nil {
		return "", fmt.Errorf("encode signals: %w", err)
	}

	rec.ID = ulid.Make().String()
	rec.CreatedAt = r.now()

	columns := []string{"id", "created_at", "symbol", "strategy", "bar_time", "close",
		"verdict", "buy_count", "sell_count", "signals"}
	args := []any{rec.ID, rec.CreatedAt.UnixMilli(), rec.Symbol, rec.Strategy, rec.BarTime.Unix(),
		rec.Close, string(rec.Verdict), rec.BuyCount, rec.SellCount, string(signals)}
	for _, c := range indicatorColumns {
		columns = append(columns, c.column)
		v, ok := rec.Values[c.name]
		args = append(args, sql.NullFloat64{Float64: v, Valid: ok})
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	query := fmt.Sprintf("INSERT INTO analyses (%s) VALUES (%s)", strings.Join(columns, ", "), placeholders)
	if _, err := r.db.Exec(query, args...); err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return rec.ID, nil
}

// RecordPlan stores a buy or sell plan.
func (r *SQLiteRecorder) RecordPlan(rec *PlanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = ulid.Make().String()
	rec.CreatedAt = r.now()

	_, err := r.db.Exec(`INSERT INTO plans
		(id, analysis_id, created_at, symbol, action, price, stop_loss, take_profit,
		 risk_reward, basis_price, profit_loss, profit_pct, advice)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.AnalysisID, rec.CreatedAt.UnixMilli(), rec.Symbol, string(rec.Action),
		rec.Price, rec.StopLoss, rec.TakeProfit, rec.RiskReward,
		rec.BasisPrice, rec.ProfitLoss, rec.ProfitPct, string(rec.Advice),
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// RecentAnalyses returns up to limit analyses for symbol, newest first.
func (r *SQLiteRecorder) RecentAnalyses(symbol string, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	cols := make([]string, len(indicatorColumns))
	for i, c := range indicatorColumns {
		cols[i] = c.column
	}
	query := `SELECT id, created_at, symbol, strategy, bar_time, close, verdict, buy_count, sell_count, signals, ` +
		strings.Join(cols, ", ") +
		` FROM analyses WHERE symbol = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.Query(query, strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var (
			rec       AnalysisRecord
			createdAt int64
			barTime   int64
			verdict   string
			signals   string
		)
		values := make([]sql.NullFloat64, len(indicatorColumns))
		dest := []any{&rec.ID, &createdAt, &rec.Symbol, &rec.Strategy, &barTime, &rec.Close,
			&verdict, &rec.BuyCount, &rec.SellCount, &signals}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}

		rec.CreatedAt = time.UnixMilli(createdAt)
		rec.BarTime = time.Unix(barTime, 0).UTC()
		rec.Verdict = model.Verdict(verdict)
		rec.Values = make(map[model.Indicator]float64)
		for i, c := range indicatorColumns {
			if values[i].Valid {
				rec.Values[c.name] = values[i].Float64
			}
		}
		if err := json.Unmarshal([]byte(signals), &rec.Signals); err != nil {
			return nil, fmt.Errorf("decode signals for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
