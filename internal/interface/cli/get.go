package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
)

func newGetCmd() *cobra.Command {
	var basePath string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value at a document path as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(basePath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			root, err := journaldoc.LoadContents(osFs(), basePath, cfg.TypeTag(), cfg.SchemaVersion(), app.GetLogger())
			if err != nil {
				return fmt.Errorf("load store: %w", err)
			}

			directives, err := parsePathArg(args[0])
			if err != nil {
				return err
			}
			v, ok := getAt(root, directives)
			if !ok {
				return fmt.Errorf("no value at %q", args[0])
			}

			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory holding the store's on-disk artifacts")
	return cmd
}
