package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 使用场景：
//   - Corpus 错误：CORPUS_INVALID（空表、缺少 title 列、读取失败）
//   - Recommend 错误：NOT_FOUND（查询标题不在索引中）、INVALID_INPUT
//   - Store 错误：NOT_FOUND
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "CORPUS_INVALID"）
	Message string // 错误消息
	Module  string // 模块名称（如 "corpus", "recommend", "store"）
	Err     error  // 底层原因（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层原因的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeCorpusInvalid = "CORPUS_INVALID" // 语料无法构建索引
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleCorpus    = "corpus"
	ModuleIndex     = "index"
	ModuleRecommend = "recommend"
)

// NewCorpusError 创建语料错误。语料错误对本次构建是致命的，不会产生部分索引。
func NewCorpusError(message string, err error) *DomainError {
	return WrapDomainError(ModuleCorpus, ErrorCodeCorpusInvalid, "corpus: "+message, err)
}

// NewNotFoundError 创建查询标题不存在的错误，调用方应展示为“无推荐”。
func NewNotFoundError(title string) *DomainError {
	return NewDomainError(ModuleRecommend, ErrorCodeNotFound, "recommend: title not found: "+title)
}

// ErrNoGeneration 表示尚未构建任何一代索引
var ErrNoGeneration = NewDomainError(ModuleIndex, ErrorCodeUnavailable, "index: no generation built yet")

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsCorpusError 检查错误是否为语料错误
func IsCorpusError(err error) bool {
	return hasCode(err, ErrorCodeCorpusInvalid)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}
