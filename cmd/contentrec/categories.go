package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/contentrec/corpus"
	"github.com/rushteam/contentrec/index"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories in the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource(a.cfg.Corpus)
			if err != nil {
				return err
			}
			items, err := corpus.Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			for _, c := range index.DistinctCategories(items) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
