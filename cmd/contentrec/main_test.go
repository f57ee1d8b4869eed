package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/contentrec/config"
	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/corpus"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.csv")
	data := "Title,Genre,Description\n" +
		"A,Romance,lovers meet\n" +
		"B,Romance,lovers meet again\n" +
		"C,Action,explosions\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestNewSource(t *testing.T) {
	src, err := newSource(config.CorpusConfig{Driver: "csv", Path: "x.csv", Comma: ";"})
	require.NoError(t, err)
	csvSrc, ok := src.(*corpus.CSVSource)
	require.True(t, ok)
	assert.Equal(t, ';', csvSrc.Comma)

	src, err = newSource(config.CorpusConfig{Driver: "sqlite", Path: "x.db", Table: "series"})
	require.NoError(t, err)
	assert.IsType(t, &corpus.SQLiteSource{}, src)

	_, err = newSource(config.CorpusConfig{Driver: "parquet"})
	assert.Error(t, err)
}

func TestPrintRecommendations(t *testing.T) {
	recs := []core.Recommendation{
		{Item: core.Item{Title: "B", Genre: "Romance"}, Score: 0.9},
	}

	var buf bytes.Buffer
	require.NoError(t, printRecommendations(&buf, "table", recs))
	assert.Contains(t, buf.String(), "TITLE")
	assert.Contains(t, buf.String(), "0.9000")

	buf.Reset()
	require.NoError(t, printRecommendations(&buf, "json", recs))
	assert.Contains(t, buf.String(), `"title": "B"`)

	buf.Reset()
	require.NoError(t, printRecommendations(&buf, "yaml", recs))
	assert.Contains(t, buf.String(), "title: B")

	assert.Error(t, printRecommendations(&buf, "xml", recs))
}

func TestRecommendCommand(t *testing.T) {
	path := writeCorpus(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--corpus", path, "--log-level", "error", "recommend", "A", "-o", "json"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Less(t, strings.Index(out.String(), `"B"`), strings.Index(out.String(), `"C"`))

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--corpus", path, "--log-level", "error", "recommend", "Missing"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "no recommendation")
}

func TestCategoriesCommand(t *testing.T) {
	path := writeCorpus(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--corpus", path, "categories"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "Action\nRomance\n", out.String())
}
