package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	savedCmd := &cobra.Command{Use: "saved", Short: "Saved-search operations"}

	// save
	var name, description, query string
	var locations, categories []string
	var public bool
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Save the given criteria under a name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name required")
			}
			payload := map[string]interface{}{
				"name":        name,
				"description": description,
				"isPublic":    public,
				"criteria": map[string]interface{}{
					"q":          query,
					"locations":  locations,
					"categories": categories,
				},
			}
			data, err := doPostJSON("/api/search/saved", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	saveCmd.Flags().StringVarP(&name, "name", "n", "", "saved-search name (required)")
	saveCmd.Flags().StringVarP(&description, "description", "d", "", "description")
	saveCmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	saveCmd.Flags().StringSliceVarP(&locations, "location", "l", nil, "location filter (repeatable)")
	saveCmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category filter (repeatable)")
	saveCmd.Flags().BoolVar(&public, "public", false, "share with other users")
	_ = saveCmd.MarkFlagRequired("name")
	savedCmd.AddCommand(saveCmd)

	// list
	var publicOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved searches, most recently used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/search/saved"
			if publicOnly {
				path += "?public=true"
			}
			data, err := doGet(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	listCmd.Flags().BoolVar(&publicOnly, "public", false, "public entries only")
	savedCmd.AddCommand(listCmd)

	// apply
	var kind string
	applyCmd := &cobra.Command{
		Use:   "apply ID",
		Short: "Execute a saved search and record the use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/search/saved/"+args[0]+"/apply", map[string]interface{}{"kind": kind})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	applyCmd.Flags().StringVarP(&kind, "kind", "k", "", "record kind (regulation, update)")
	savedCmd.AddCommand(applyCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doDelete("/api/search/saved/" + args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	savedCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(savedCmd)
}
