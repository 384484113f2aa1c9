package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/ray-u/bare-photos/internal/app"
	"github.com/ray-u/bare-photos/internal/library"
	"github.com/ray-u/bare-photos/internal/media"
	"github.com/ray-u/bare-photos/internal/startup"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func newWarmCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Generate every missing thumbnail",
		Long: `Walks the photo library and resolves the thumbnail of every photo once.
Thumbnails that are already cached are left alone.`,
		Example: `  # Warm the cache configured by PHOTO_DIR and THUMB_DIR
  photoctl warm

  # Print only the summary
  photoctl warm --quiet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := startup.LoadConfig()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Warming thumbnails for %s\n", cfg.PhotoDir)

			var progress func(library.WarmProgress)
			if !quiet {
				progress = func(p library.WarmProgress) {
					status := string(p.Status)
					if status == "" {
						status = "skipped"
					}
					fmt.Fprintf(out, "[%d/%d] %s %s\n", p.Done, p.Total, p.Path, status)
				}
			}

			summary, err := a.Index.Warm(cmd.Context(), progress)
			if err != nil {
				return fmt.Errorf("warm interrupted: %w", err)
			}

			fmt.Fprintf(out, "Done: %s in %s\n",
				english.Plural(summary.Total, "photo", ""), summary.Duration.Round(10*time.Millisecond))
			for _, line := range summaryLines(summary) {
				fmt.Fprintf(out, "  %s\n", line)
			}

			stats := a.Index.GetStats(cmd.Context())
			fmt.Fprintf(out, "Thumbnail cache: %s files, %s\n",
				humanize.Comma(int64(stats.ThumbnailCount)), humanize.Bytes(uint64(stats.ThumbnailBytes)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the summary")

	return cmd
}

func summaryLines(s library.WarmSummary) []string {
	statuses := make([]media.ThumbnailStatus, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	lines := make([]string, 0, len(statuses)+1)
	for _, status := range statuses {
		lines = append(lines, fmt.Sprintf("%-18s %s", string(status)+":", humanize.Comma(int64(s.ByStatus[status]))))
	}
	if s.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("%-18s %s", "skipped:", humanize.Comma(int64(s.Skipped))))
	}
	return lines
}
