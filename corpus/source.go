package corpus

import "context"

// Table 是原始表格数据：一行表头加若干数据行。
// 行长度可以与表头不一致，缺失的单元格按空串处理。
type Table struct {
	Columns []string
	Rows    [][]string
}

// Source 是语料数据源接口。
// 支持从不同来源读取表格（本地 CSV 文件、SQLite 表等）。
type Source interface {
	// Name 返回数据源标识（用于日志/监控）
	Name() string

	// Read 读取完整表格
	Read(ctx context.Context) (*Table, error)
}

// TableSource 是内存中的表格数据源，常用于嵌入式场景与测试。
type TableSource struct {
	Label string
	Table *Table
}

// NewTableSource 用表头与行创建内存数据源。
func NewTableSource(columns []string, rows ...[]string) *TableSource {
	return &TableSource{Label: "memory", Table: &Table{Columns: columns, Rows: rows}}
}

func (s *TableSource) Name() string {
	return s.Label
}

func (s *TableSource) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Table, nil
}
