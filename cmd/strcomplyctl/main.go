package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "strcomplyctl",
		Short: "CLI client for the compliance catalog REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "compliance service base URL")

	// search subcommand
	var kind, query, dateFrom, dateTo string
	var locations, jurisdictions, categories, levels []string
	var rangeDays int
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Run an advanced search",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"kind":             kind,
				"q":                query,
				"locations":        locations,
				"jurisdictions":    jurisdictions,
				"categories":       categories,
				"complianceLevels": levels,
				"dateFrom":         dateFrom,
				"dateTo":           dateTo,
				"dateRangeDays":    rangeDays,
			}
			data, err := doPostJSON("/api/search/advanced", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	searchCmd.Flags().StringVarP(&kind, "kind", "k", "", "record kind (regulation, update)")
	searchCmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	searchCmd.Flags().StringSliceVarP(&locations, "location", "l", nil, "location filter (repeatable)")
	searchCmd.Flags().StringSliceVarP(&jurisdictions, "jurisdiction", "j", nil, "jurisdiction filter (repeatable)")
	searchCmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category filter (repeatable)")
	searchCmd.Flags().StringSliceVar(&levels, "level", nil, "compliance/impact level filter (repeatable)")
	searchCmd.Flags().StringVar(&dateFrom, "from", "", "lower date bound (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&dateTo, "to", "", "upper date bound (YYYY-MM-DD)")
	searchCmd.Flags().IntVar(&rangeDays, "days", 0, "relative window in days")
	rootCmd.AddCommand(searchCmd)

	// suggest subcommand
	suggestCmd := &cobra.Command{
		Use:   "suggest PARTIAL",
		Short: "Fetch search suggestions for a partial query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/search/suggestions?q=" + strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	rootCmd.AddCommand(suggestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
