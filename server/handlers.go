package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/index"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/recommend"
)

// RecommendationDTO 是单条推荐结果。
type RecommendationDTO struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	Poster      string  `json:"poster"`
	Rating      string  `json:"rating"`
	Year        string  `json:"year"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
}

// RecommendResponse 是推荐接口的响应。
type RecommendResponse struct {
	Title    string              `json:"title"`
	Category string              `json:"category"`
	K        int                 `json:"k"`
	Results  []RecommendationDTO `json:"results"`
}

// GenerationDTO 描述一代索引。
type GenerationDTO struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Items      int       `json:"items"`
	Vocabulary int       `json:"vocabulary"`
	BuiltAt    time.Time `json:"built_at"`
}

// ErrorResponse 是错误响应。
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const paramPrefix = "param."

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	gen, err := s.rec.Generation()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "generation": toGenerationDTO(gen)})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := q.Get("title")
	if strings.TrimSpace(title) == "" {
		s.writeError(w, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "title is required"))
		return
	}

	category := q.Get("genre")
	if category == "" {
		category = q.Get("category")
	}
	if category == "" {
		category = core.AllCategories
	}

	k := 0
	if raw := q.Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "k must be a non-negative integer"))
			return
		}
		k = n
	}
	if s.cfg.MaxK > 0 && k > s.cfg.MaxK {
		s.writeError(w, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
			"k must not exceed "+strconv.Itoa(s.cfg.MaxK)))
		return
	}

	req := recommend.Request{Title: title, Category: category, K: k, Params: requestParams(q)}
	recs, err := s.rec.Recommend(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := RecommendResponse{
		Title:    title,
		Category: category,
		K:        s.rec.ResolveK(k),
		Results:  make([]RecommendationDTO, 0, len(recs)),
	}
	for _, rec := range recs {
		resp.Results = append(resp.Results, toRecommendationDTO(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// requestParams 收集 param.<name> 形式的查询参数，供表达式过滤通过 rctx.params 读取。
func requestParams(q url.Values) map[string]any {
	var params map[string]any
	for key, vals := range q {
		name, ok := strings.CutPrefix(key, paramPrefix)
		if !ok || name == "" || len(vals) == 0 {
			continue
		}
		if params == nil {
			params = make(map[string]any)
		}
		params[name] = vals[0]
	}
	return params
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	cats, err := s.rec.DistinctCategories()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) handleTitles(w http.ResponseWriter, _ *http.Request) {
	titles, err := s.rec.Titles()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"titles": titles})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	gen, err := s.rec.Reload(r.Context(), metrics.TriggerAPI)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generation": toGenerationDTO(gen)})
}

func toRecommendationDTO(rec core.Recommendation) RecommendationDTO {
	it := rec.Item
	return RecommendationDTO{
		Title:       it.Title,
		Genre:       it.Genre,
		Description: it.Description,
		Poster:      it.Poster,
		Rating:      it.Rating,
		Year:        it.Year,
		URL:         it.URL,
		Score:       rec.Score,
	}
}

func toGenerationDTO(g *index.Generation) GenerationDTO {
	return GenerationDTO{
		ID:         g.ID(),
		Source:     g.Source(),
		Items:      g.Len(),
		Vocabulary: g.VocabularySize(),
		BuiltAt:    g.BuiltAt(),
	}
}

// writeError 将领域错误映射为 HTTP 状态码。
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := core.ErrorCodeInternalError
	msg := "internal error"

	if de := core.GetDomainError(err); de != nil {
		code = de.Code
		msg = de.Error()
		switch de.Code {
		case core.ErrorCodeNotFound:
			status = http.StatusNotFound
			msg = "no recommendation"
		case core.ErrorCodeInvalidInput:
			status = http.StatusBadRequest
		case core.ErrorCodeCorpusInvalid:
			status = http.StatusUnprocessableEntity
		case core.ErrorCodeUnavailable:
			status = http.StatusServiceUnavailable
		default:
			status = http.StatusInternalServerError
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
