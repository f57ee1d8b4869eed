// Package corpus 负责读取原始表格语料并归一化为 core.Item 序列。
package corpus

import (
	"context"
	"errors"
	"strings"

	"github.com/rushteam/contentrec/core"
)

// 归一化后的列名
const (
	ColumnTitle       = "title"
	ColumnGenre       = "genre"
	ColumnDescription = "description"
	ColumnPoster      = "poster"
	ColumnRating      = "rating"
	ColumnYear        = "year of release"
	ColumnYearShort   = "year"
	ColumnURL         = "url"
	ColumnEpisodes    = "number of episodes"
	ColumnRank        = "rank"
)

// Load 读取数据源并归一化为有序的物品序列。
// 空表或缺少 title 列时返回语料错误。
func Load(ctx context.Context, src Source) ([]core.Item, error) {
	table, err := src.Read(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, core.NewCorpusError("read "+src.Name(), err)
	}
	return Normalize(table)
}

// Normalize 将表格转换为物品序列，行顺序保持不变。
//   - 列名统一为小写并去除首尾空白
//   - 缺失的列按全空列处理，缺失的值按空串处理
//   - Content = trim(genre) + " " + trim(description)
func Normalize(table *Table) ([]core.Item, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, core.NewCorpusError("source has no rows", nil)
	}

	cols := columnIndex(table.Columns)
	if _, ok := cols[ColumnTitle]; !ok {
		return nil, core.NewCorpusError("source has no title column", nil)
	}

	items := make([]core.Item, 0, len(table.Rows))
	for row, record := range table.Rows {
		field := func(names ...string) string {
			for _, name := range names {
				if i, ok := cols[name]; ok && i < len(record) {
					return record[i]
				}
			}
			return ""
		}

		it := core.NewItem(row, field(ColumnTitle), field(ColumnGenre), field(ColumnDescription))
		it.Poster = field(ColumnPoster)
		it.Rating = field(ColumnRating)
		it.Year = field(ColumnYear, ColumnYearShort)
		it.URL = field(ColumnURL)
		it.Episodes = field(ColumnEpisodes)
		it.Rank = field(ColumnRank)
		items = append(items, it)
	}
	return items, nil
}

// NormalizeColumn 归一化列名。
func NormalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}

// columnIndex 返回归一化列名到位置的映射，重复列名保留第一个。
func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		name := NormalizeColumn(c)
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}
