package vector

import "math"

// Sparse 是按下标升序存储的稀疏向量。
// Indices 与 Values 等长，Indices 严格递增。
type Sparse struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Len 返回非零项个数。
func (s Sparse) Len() int {
	return len(s.Indices)
}

// IsZero 判断是否为零向量。
func (s Sparse) IsZero() bool {
	for _, v := range s.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// Norm 返回欧氏范数。
func (s Sparse) Norm() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize 原地缩放为单位长度，零向量保持不变。
func (s Sparse) Normalize() {
	n := s.Norm()
	if n == 0 {
		return
	}
	for i := range s.Values {
		s.Values[i] /= n
	}
}

// Dot 计算两个稀疏向量的内积，复杂度与两者非零项数之和成正比。
func Dot(a, b Sparse) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Dense 展开为长度为 dim 的稠密向量，主要用于调试与测试。
func (s Sparse) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for k, idx := range s.Indices {
		if idx < dim {
			out[idx] = s.Values[k]
		}
	}
	return out
}
