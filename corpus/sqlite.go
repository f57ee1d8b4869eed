package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource 从 SQLite 表读取语料，所有列按字符串读取，NULL 视为空串。
type SQLiteSource struct {
	// DB 为已打开的连接；为空时按 Path 打开并在读取后关闭
	DB    *sql.DB
	Path  string
	Table string
}

// NewSQLiteSource 创建 SQLite 数据源
func NewSQLiteSource(path, table string) *SQLiteSource {
	return &SQLiteSource{Path: path, Table: table}
}

func (s *SQLiteSource) Name() string {
	return "sqlite:" + s.Path + "#" + s.Table
}

func (s *SQLiteSource) Read(ctx context.Context) (*Table, error) {
	if !identPattern.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", s.Table)
	}

	db := s.DB
	if db == nil {
		var err error
		db, err = sql.Open("sqlite", s.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		defer db.Close()
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, s.Table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	table := &Table{Columns: columns}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(table.Rows)+1, err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = cellString(v)
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return table, nil
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

var _ Source = (*SQLiteSource)(nil)
