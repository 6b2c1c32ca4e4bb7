package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
)

func newDumpCmd() *cobra.Command {
	var basePath string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the entire document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig(basePath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			root, err := journaldoc.LoadContents(osFs(), basePath, cfg.TypeTag(), cfg.SchemaVersion(), app.GetLogger())
			if err != nil {
				return fmt.Errorf("load store: %w", err)
			}

			var b []byte
			if pretty {
				b, err = json.MarshalIndent(root, "", "  ")
			} else {
				b, err = json.Marshal(root)
			}
			if err != nil {
				return fmt.Errorf("marshal document: %w", err)
			}
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory holding the store's on-disk artifacts")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}
