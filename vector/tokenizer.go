package vector

import (
	"regexp"
	"strings"
)

// 连续两个及以上的字母、数字或下划线构成一个 token，单字符 token 被丢弃。
// 组合附加符号不算单词字符，会切断 token。
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenizer 将文本切分为 token 序列。
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer 小写化后按单词边界切分，并丢弃停用词。
type WordTokenizer struct {
	StopWords map[string]struct{}
}

// NewWordTokenizer 使用内置英文停用词表创建分词器。
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{StopWords: EnglishStopWords()}
}

func (t *WordTokenizer) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(t.StopWords) == 0 {
		return raw
	}
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := t.StopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

var _ Tokenizer = (*WordTokenizer)(nil)
