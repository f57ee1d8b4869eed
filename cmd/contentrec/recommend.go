package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/recommend"
)

// recommendation 是命令行输出的一行结果。
type recommendation struct {
	Title  string  `json:"title" yaml:"title"`
	Genre  string  `json:"genre" yaml:"genre"`
	Rating string  `json:"rating,omitempty" yaml:"rating,omitempty"`
	Year   string  `json:"year,omitempty" yaml:"year,omitempty"`
	Poster string  `json:"poster,omitempty" yaml:"poster,omitempty"`
	URL    string  `json:"url,omitempty" yaml:"url,omitempty"`
	Score  float64 `json:"score" yaml:"score"`
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		category string
		k        int
		output   string
	)
	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Print the series most similar to a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.recommend(cmd.Context(), args[0], category, k)
			if core.IsNotFound(err) {
				color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "no recommendation for %q\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			return printRecommendations(cmd.OutOrStdout(), output, recs)
		},
	}
	cmd.Flags().StringVarP(&category, "genre", "g", core.AllCategories, `category filter, "all" disables filtering`)
	cmd.Flags().IntVarP(&k, "k", "k", core.DefaultTopK, "number of results")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func (a *app) recommend(ctx context.Context, title, category string, k int) ([]core.Recommendation, error) {
	engine, cleanup, err := newEngine(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if _, err := engine.Reload(ctx, metrics.TriggerStartup); err != nil {
		return nil, err
	}
	return engine.Recommend(ctx, recommend.Request{Title: title, Category: category, K: k})
}

func printRecommendations(w io.Writer, format string, recs []core.Recommendation) error {
	rows := make([]recommendation, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, recommendation{
			Title:  r.Item.Title,
			Genre:  r.Item.Genre,
			Rating: r.Item.Rating,
			Year:   r.Item.Year,
			Poster: r.Item.Poster,
			URL:    r.Item.URL,
			Score:  r.Score,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case "table", "":
		if len(rows) == 0 {
			color.New(color.FgYellow).Fprintln(w, "no recommendation")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tTITLE\tGENRE\tRATING\tYEAR\tSCORE")
		for i, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				i+1, r.Title, r.Genre, r.Rating, r.Year, strconv.FormatFloat(r.Score, 'f', 4, 64))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
