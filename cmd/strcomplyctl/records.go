package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recordCommand("regulations", "Regulation catalog operations", "/api/regulations"))
	rootCmd.AddCommand(recordCommand("updates", "Regulatory update operations", "/api/updates"))
}

// recordCommand builds the shared CRUD verb set for a record collection.
// Create and update take the record as a JSON document, matching the API
// payload one to one.
func recordCommand(use, short, basePath string) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}

	createCmd := &cobra.Command{
		Use:   "create JSON",
		Short: "Create a record from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := decodeDoc(args[0])
			if err != nil {
				return err
			}
			data, err := doPostJSON(basePath, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	cmd.AddCommand(createCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(basePath)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	cmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get a record by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(basePath + "/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	cmd.AddCommand(getCmd)

	updateCmd := &cobra.Command{
		Use:   "update ID JSON",
		Short: "Replace a record by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := decodeDoc(args[1])
			if err != nil {
				return err
			}
			data, err := doPutJSON(basePath+"/"+args[0], payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	cmd.AddCommand(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doDelete(basePath + "/" + args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	cmd.AddCommand(deleteCmd)

	return cmd
}

func decodeDoc(raw string) (map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	return payload, nil
}
