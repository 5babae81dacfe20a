package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	prefsCmd := &cobra.Command{Use: "prefs", Short: "Notification preference operations"}

	var email, frequency string
	var locations, categories []string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Create or replace the preference for an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email required")
			}
			payload := map[string]interface{}{
				"email":      email,
				"locations":  locations,
				"categories": categories,
				"frequency":  frequency,
			}
			data, err := doPutJSON("/api/notifications/preferences", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	setCmd.Flags().StringVarP(&email, "email", "e", "", "subscriber email (required)")
	setCmd.Flags().StringVarP(&frequency, "frequency", "f", "", "immediate, daily or weekly")
	setCmd.Flags().StringSliceVarP(&locations, "location", "l", nil, "watched location (repeatable)")
	setCmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "watched category (repeatable)")
	_ = setCmd.MarkFlagRequired("email")
	prefsCmd.AddCommand(setCmd)

	getCmd := &cobra.Command{
		Use:   "get EMAIL",
		Short: "Get the preference for an email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/notifications/preferences/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, data)
			return nil
		},
	}
	prefsCmd.AddCommand(getCmd)

	rootCmd.AddCommand(prefsCmd)
}
