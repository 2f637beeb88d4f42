package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joefazee/catalog/app/categories"
	"github.com/joefazee/catalog/internal/formatter"
)

func newTreeCmd(app *App) *cobra.Command {
	var needle string
	var under int64

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc := app.backend.Service

			var roots []categories.CategoryResponse
			if under > 0 {
				sub, err := svc.SearchSubtree(ctx, under, needle)
				if err != nil {
					return err
				}
				roots = []categories.CategoryResponse{*sub}
			} else {
				var err error
				if roots, err = svc.SearchTree(ctx, needle); err != nil {
					return err
				}
			}

			if len(roots) == 0 {
				fmt.Fprintln(app.Out, "No categories found.")
				return nil
			}
			fmt.Fprint(app.Out, formatter.RenderTree(toTreeNodes(roots)))
			return nil
		},
	}
	cmd.Flags().StringVar(&needle, "search", "", "keep categories whose name contains this text, with their ancestors")
	cmd.Flags().Int64Var(&under, "under", 0, "only show the subtree below this category ID")
	return cmd
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search NAME",
		Short: "List categories whose name contains NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := app.backend.Service.SearchCategories(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(found) == 0 {
				fmt.Fprintln(app.Out, "No categories found.")
				return nil
			}

			rows := make([][]string, 0, len(found))
			for _, c := range found {
				parent := "-"
				if c.ParentID != nil {
					parent = strconv.FormatInt(*c.ParentID, 10)
				}
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, parent, c.GenderFilter})
			}
			fmt.Fprint(app.Out, formatter.RenderTable([]string{"ID", "Name", "Parent", "Gender"}, rows))
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the shape of the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.backend.Service.GetStatistics(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, formatter.RenderTable([]string{"Metric", "Value"}, [][]string{
				{"Total", strconv.Itoa(s.TotalCategories)},
				{"Roots", strconv.Itoa(s.RootCategories)},
				{"Subcategories", strconv.Itoa(s.SubCategories)},
				{"Max depth", strconv.Itoa(s.MaxDepth)},
			}))
			return nil
		},
	}
}

// ErrLocalCache is returned by refresh when the configured cache lives only in this process.
var ErrLocalCache = errors.New("refresh needs CACHE_BACKEND=redis: the memory backend is private to this process")

func newRefreshCmd(app *App) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Clear and rebuild both cache tiers from the store",
		Long: "Clear and rebuild both cache tiers from the store.\n\n" +
			"Only a redis backend is shared with the API servers. With the memory backend the\n" +
			"rebuilt tiers die with this process, so the command refuses unless --local is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.backend.SharedCache {
				if !local {
					return ErrLocalCache
				}
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: memory backend, server caches are untouched"))
			}
			res, err := app.backend.Service.RefreshCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, formatter.Header("Cache refreshed"))
			fmt.Fprintf(app.Out, "  Cleared nodes: %d\n", res.ClearedNodes)
			fmt.Fprintf(app.Out, "  Cached nodes:  %d\n", res.CachedNodes)
			fmt.Fprintf(app.Out, "  Roots:         %d\n", res.Roots)
			if len(res.Unreachable) > 0 {
				fmt.Fprintf(app.Out, "  %s %v\n", formatter.StyleYellow.Render("Unreachable:"), res.Unreachable)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "rebuild the in-process memory tiers anyway")
	return cmd
}

func toTreeNodes(list []categories.CategoryResponse) []formatter.TreeNode {
	out := make([]formatter.TreeNode, len(list))
	for i, c := range list {
		out[i] = formatter.TreeNode{ID: c.ID, Title: c.Name, Children: toTreeNodes(c.Children)}
		if c.GenderFilter != "" && c.GenderFilter != "A" {
			out[i].Detail = c.GenderFilter
		}
	}
	return out
}
