package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spoke/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the persistent generation cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("spoke")
			if err != nil {
				return err
			}
			count, size, err := cache.Entries()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dir:     %s\nentries: %d\nsize:    %d bytes\n", cache.Dir(), count, size)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("spoke")
			if err != nil {
				return err
			}
			count, _, err := cache.Entries()
			if err != nil {
				return err
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clean cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries from %s\n", count, cache.Dir())
			return nil
		},
	})
	return cmd
}
