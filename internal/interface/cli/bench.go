package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func newBenchCmd() *cobra.Command {
	var basePath string
	var n int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Issue N AddCommand calls against a scratch key and report throughput",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig(basePath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			doc, err := journaldoc.Open(osFs(), cfg, app.GetLogger(), value.V{})
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer doc.Close()

			start := time.Now()
			snapshots := 0
			for i := 0; i < n; i++ {
				if err := doc.AddCommand("bench.counter", value.Int(int64(i))); err != nil {
					return fmt.Errorf("add command %d: %w", i, err)
				}
				before := doc.StreamPosition()
				if err := doc.SnapshotIfHighWater(); err != nil {
					return fmt.Errorf("snapshot at %d: %w", i, err)
				}
				if doc.StreamPosition() < before {
					snapshots++
				}
			}
			elapsed := time.Since(start)

			fmt.Printf("commands=%d elapsed=%s rate=%.0f/s auto_snapshots=%d\n",
				n, elapsed, float64(n)/elapsed.Seconds(), snapshots)
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory holding the store's on-disk artifacts")
	cmd.Flags().IntVar(&n, "n", 1000, "number of commands to issue")
	return cmd
}
