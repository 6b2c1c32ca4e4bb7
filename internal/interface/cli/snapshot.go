package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func newSnapshotCmd() *cobra.Command {
	var basePath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Force an immediate snapshot and reset the journal",
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

			if err := doc.Snapshot(); err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			fmt.Printf("Snapshot written for %s (document_id=%s)\n", basePath, doc.DocumentID())
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory holding the store's on-disk artifacts")
	return cmd
}
