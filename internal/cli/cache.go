package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-queue/internal/cache"
)

func newCacheCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the metadata and thumbnail cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached metadata and thumbnails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(e.cfg.CacheDir, e.cfg.CacheTTL, e.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Info.Count()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries and thumbnails from %s\n", entries, e.cfg.CacheDir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), e.cfg.CacheDir)
		},
	})
	return cmd
}
