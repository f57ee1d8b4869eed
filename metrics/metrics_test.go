package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBuild(t *testing.T) {
	before := testutil.ToFloat64(IndexBuildErrorsTotal)
	RecordBuild(time.Millisecond, nil)
	RecordBuild(time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(IndexBuildErrorsTotal) - before; got != 1 {
		t.Errorf("build errors delta = %v, want 1", got)
	}
}

func TestRecordRecommend(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues(ResultNotFound))
	RecordRecommend(ResultNotFound, time.Microsecond)
	if got := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues(ResultNotFound)) - before; got != 1 {
		t.Errorf("not_found delta = %v, want 1", got)
	}
}

func TestRecordGenerationAndCache(t *testing.T) {
	RecordGeneration(42, 1000)
	if got := testutil.ToFloat64(CorpusItems); got != 42 {
		t.Errorf("CorpusItems = %v, want 42", got)
	}
	if got := testutil.ToFloat64(VocabularySize); got != 1000 {
		t.Errorf("VocabularySize = %v, want 1000", got)
	}

	hits := testutil.ToFloat64(CacheHitsTotal)
	misses := testutil.ToFloat64(CacheMissesTotal)
	RecordCache(true)
	RecordCache(false)
	RecordCache(false)
	if testutil.ToFloat64(CacheHitsTotal)-hits != 1 || testutil.ToFloat64(CacheMissesTotal)-misses != 2 {
		t.Error("cache counters not updated")
	}

	before := testutil.ToFloat64(IndexReloadsTotal.WithLabelValues(TriggerAPI))
	RecordReload(TriggerAPI)
	if testutil.ToFloat64(IndexReloadsTotal.WithLabelValues(TriggerAPI))-before != 1 {
		t.Error("reload counter not updated")
	}
}
