package cli

import (
	"fmt"

	"github.com/samvad-hq/packagist-api/pkg/packagist"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var q packagist.ListQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all package names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.client.GetAllPackageNames(cmd.Context(), q.Params())
			if err != nil {
				return fmt.Errorf("list packages: %w", err)
			}
			return a.printer(a.out, res)
		},
	}

	cmd.Flags().StringVar(&q.Vendor, "vendor", "", "filter by organization (e.g. composer)")
	cmd.Flags().StringVar(&q.Type, "type", "", "filter by package type (e.g. composer-plugin)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "show <vendor/package>",
		Short: "Show the metadata of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			res, err := a.client.GetPackageByName(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("show %s: %w", name, err)
			}
			if save {
				if err := a.saveSnapshot(name, res); err != nil {
					return err
				}
			}
			return a.printer(a.out, res)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the response in the snapshot archive")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var q packagist.SearchQuery

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search packages by name, tag or type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Query = args[0]
			}
			res, err := a.client.SearchPackages(cmd.Context(), q.Params())
			if err != nil {
				return fmt.Errorf("search packages: %w", err)
			}
			return a.printer(a.out, res)
		},
	}

	cmd.Flags().StringVar(&q.Tags, "tags", "", "filter by tag (e.g. psr-3)")
	cmd.Flags().StringVar(&q.Type, "type", "", "filter by package type (e.g. symfony-bundle)")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&q.Page, "page", 0, "results page")
	return cmd
}

func newPopularCmd(a *app) *cobra.Command {
	var q packagist.PopularQuery

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most popular packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.client.GetPopularPackages(cmd.Context(), q.Params())
			if err != nil {
				return fmt.Errorf("popular packages: %w", err)
			}
			return a.printer(a.out, res)
		},
	}

	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&q.Page, "page", 0, "results page")
	return cmd
}
