package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
	infraconfig "github.com/tsukiyo-oss/journaldoc/internal/infra/config"
	"github.com/tsukiyo-oss/journaldoc/internal/infra/persistence/file"
)

func newInitCmd() *cobra.Command {
	var basePath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new journaled document store",
		RunE: func(c *cobra.Command, _ []string) error {
			fs := osFs()
			if err := fs.MkdirAll(basePath, 0o755); err != nil {
				return fmt.Errorf("create base dir: %w", err)
			}

			settingPath := filepath.Join(basePath, "setting.json")
			if force || !exists(fs, settingPath) {
				if err := file.WriteFileAtomic(fs, settingPath, infraconfig.CreateDefaultSettings(basePath)); err != nil {
					return fmt.Errorf("write setting.json: %w", err)
				}
			}

			if journaldoc.Exists(fs, basePath) && !force {
				fmt.Fprintf(os.Stderr, "store already initialized at %s\n", basePath)
				return nil
			}

			cfg, err := loadConfig(basePath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			doc, err := journaldoc.Open(fs, cfg, app.GetLogger(), value.EmptyMap())
			if err != nil {
				return fmt.Errorf("initialize store: %w", err)
			}
			if err := doc.Close(); err != nil {
				return fmt.Errorf("close store: %w", err)
			}

			fmt.Printf("Initialized journaldoc store at %s\n", basePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory for the store's on-disk artifacts")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing setting.json and reinitialize the store")
	return cmd
}

func exists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}
