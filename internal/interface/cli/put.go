package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func newPutCmd() *cobra.Command {
	var basePath string
	var deleteOp bool

	cmd := &cobra.Command{
		Use:   "put <path> [json-value]",
		Short: "Set, numeric-add, or delete a value at a document path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			if !deleteOp && len(args) != 2 {
				return fmt.Errorf("put requires a json-value unless --delete is set")
			}

			cfg, err := loadConfig(basePath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fs := osFs()
			doc, err := journaldoc.Open(fs, cfg, app.GetLogger(), value.V{})
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer doc.Close()

			if deleteOp {
				if err := doc.DeleteCommand(args[0]); err != nil {
					return fmt.Errorf("delete %q: %w", args[0], err)
				}
				return nil
			}

			var v value.V
			if err := json.Unmarshal([]byte(args[1]), &v); err != nil {
				return fmt.Errorf("parse json-value: %w", err)
			}
			if err := doc.AddCommand(args[0], v); err != nil {
				return fmt.Errorf("set %q: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory holding the store's on-disk artifacts")
	cmd.Flags().BoolVar(&deleteOp, "delete", false, "delete the value at path instead of setting it")
	return cmd
}
