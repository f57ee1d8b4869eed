// Package vector 实现 TF-IDF 向量化与稀疏向量运算。
package vector

import (
	"context"
	"math"
	"sort"
)

// TFIDF 是词频-逆文档频率向量化器。
//
// 权重 = 词频 × idf(t)，其中 idf(t) = ln((1+N)/(1+df(t))) + 1；
// 每个文档向量最后做 L2 归一化，因此两个向量的内积即余弦相似度。
// 词表按字典序升序排列，词的下标即其在词表中的位置。
type TFIDF struct {
	tokenizer Tokenizer
}

// Option 配置 TFIDF。
type Option func(*TFIDF)

// WithStopWords 使用自定义停用词集合，传入空集合表示不过滤。
func WithStopWords(words map[string]struct{}) Option {
	return func(v *TFIDF) {
		v.tokenizer = &WordTokenizer{StopWords: words}
	}
}

// NewTFIDF 创建向量化器，默认使用英文停用词表。
func NewTFIDF(opts ...Option) *TFIDF {
	v := &TFIDF{tokenizer: NewWordTokenizer()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Model 是一次 Fit 的产物，构建后只读。
type Model struct {
	// Terms 是升序词表
	Terms []string
	// IDF 与 Terms 一一对应
	IDF []float64
	// Vectors 与输入文档一一对应
	Vectors []Sparse

	vocab map[string]int
}

// Fit 在文档集合上学习词表与 idf，并返回每个文档的归一化向量。
// 空文档或全部为停用词的文档得到零向量。
func (v *TFIDF) Fit(ctx context.Context, docs []string) (*Model, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tf := termCounts(v.tokenizer, doc)
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	m := &Model{
		Terms:   terms,
		IDF:     idf,
		Vectors: make([]Sparse, len(docs)),
		vocab:   vocab,
	}
	for i, tf := range counts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m.Vectors[i] = m.weigh(tf)
	}
	return m, nil
}

// Dim 返回向量维度（词表大小）。
func (m *Model) Dim() int {
	return len(m.Terms)
}

// TermID 查询词在词表中的下标。
func (m *Model) TermID(term string) (int, bool) {
	id, ok := m.vocab[term]
	return id, ok
}

func (m *Model) weigh(tf map[string]int) Sparse {
	ids := make([]int, 0, len(tf))
	for term := range tf {
		if id, ok := m.vocab[term]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	vec := Sparse{Indices: ids, Values: make([]float64, len(ids))}
	for k, id := range ids {
		vec.Values[k] = float64(tf[m.Terms[id]]) * m.IDF[id]
	}
	vec.Normalize()
	return vec
}

func termCounts(t Tokenizer, doc string) map[string]int {
	tf := make(map[string]int)
	for _, tok := range t.Tokenize(doc) {
		tf[tok]++
	}
	return tf
}
