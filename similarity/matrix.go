// Package similarity 构建物品两两之间的余弦相似度矩阵。
package similarity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/contentrec/vector"
)

// Matrix 是对称的 N×N 相似度矩阵，只存上三角（含对角线）。
// 构建完成后只读，可被任意多个 goroutine 并发读取。
type Matrix struct {
	n      int
	packed []float64
}

type buildOptions struct {
	workers int
}

// Option 配置矩阵构建。
type Option func(*buildOptions)

// WithWorkers 设置并行计算的 worker 数，<=0 时使用 GOMAXPROCS。
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// Build 基于已 L2 归一化的向量计算全量相似度。
//
// score(i,j) = Dot(v_i, v_j)，只计算 i<=j 的一半并按对称性复用。
// 对角线固定为 1，零向量的对角线为 0。构建可通过 ctx 取消。
func Build(ctx context.Context, vectors []vector.Sparse, opts ...Option) (*Matrix, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	n := len(vectors)
	m := &Matrix{n: n, packed: make([]float64, n*(n+1)/2)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.fillRow(vectors, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build similarity matrix: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build similarity matrix: %w", err)
	}
	return m, nil
}

// fillRow 写入第 i 行的上三角部分，不同行写入互不重叠的区间。
func (m *Matrix) fillRow(vectors []vector.Sparse, i int) {
	base := m.offset(i, i)
	vi := vectors[i]
	if vi.IsZero() {
		// 零向量与任何向量的相似度都是 0，包括自身
		return
	}
	m.packed[base] = 1
	for j := i + 1; j < m.n; j++ {
		vj := vectors[j]
		if vj.Len() == 0 {
			continue
		}
		s := vector.Dot(vi, vj)
		// 浮点误差可能使结果略超出 [0,1]
		if s > 1 {
			s = 1
		} else if s < 0 {
			s = 0
		}
		m.packed[base+(j-i)] = s
	}
}

// offset 返回 (i,j) 在压缩存储中的位置，要求 i<=j。
func (m *Matrix) offset(i, j int) int {
	return i*m.n - i*(i-1)/2 + (j - i)
}

// Len 返回矩阵维度 N。
func (m *Matrix) Len() int {
	return m.n
}

// Score 返回 (i,j) 的相似度，越界时 panic。
func (m *Matrix) Score(i, j int) float64 {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		panic(fmt.Sprintf("similarity: index (%d,%d) out of range [0,%d)", i, j, m.n))
	}
	if i > j {
		i, j = j, i
	}
	return m.packed[m.offset(i, j)]
}

// Row 返回第 i 行的完整副本。
func (m *Matrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	for j := 0; j < m.n; j++ {
		row[j] = m.Score(i, j)
	}
	return row
}

// Equal 判断两个矩阵是否逐项相等。
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.n != other.n {
		return false
	}
	for k, v := range m.packed {
		if other.packed[k] != v {
			return false
		}
	}
	return true
}
