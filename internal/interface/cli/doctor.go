package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/journaldoc"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// DoctorJSON is the --json output of the doctor subcommand.
type DoctorJSON struct {
	BasePath       string   `json:"base_path"`
	Exists         bool     `json:"exists"`
	DocumentID     string   `json:"document_id,omitempty"`
	SegmentID      string   `json:"segment_id,omitempty"`
	RecoverySource string   `json:"recovery_source,omitempty"`
	StreamPosition int      `json:"stream_position"`
	StreamCapacity int      `json:"stream_capacity"`
	TopLevelKeys   int      `json:"top_level_keys"`
	ConfigSource   string   `json:"config_source"`
	SettingPath    string   `json:"setting_path,omitempty"`
	Errors         []string `json:"errors"`
}

func newDoctorCmd() *cobra.Command {
	var basePath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose a store's configuration and recovery state",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig(basePath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fs := osFs()

			result := DoctorJSON{
				BasePath:     cfg.BasePath(),
				Exists:       journaldoc.Exists(fs, basePath),
				ConfigSource: cfg.ConfigSource(),
				SettingPath:  cfg.SettingPath(),
				Errors:       []string{},
			}

			if result.Exists {
				rec, err := app.RunStartupRecovery(fs, cfg, app.GetLogger())
				if err != nil {
					result.Errors = append(result.Errors, err.Error())
				} else {
					result.DocumentID = rec.DocumentID
					result.RecoverySource = rec.Source.String()
					if rec.Document.IsMap() {
						result.TopLevelKeys = len(rec.Document.M)
					}
				}
			}

			doc, err := journaldoc.Open(fs, cfg, app.GetLogger(), value.V{})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("open: %v", err))
			} else {
				result.SegmentID = doc.SegmentID()
				result.StreamPosition = doc.StreamPosition()
				result.StreamCapacity = doc.StreamCapacity()
				if result.TopLevelKeys == 0 {
					result.TopLevelKeys = doc.Size()
				}
				doc.Close()
			}

			if jsonOutput {
				b, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal doctor result: %w", err)
				}
				fmt.Println(string(b))
				return nil
			}

			fmt.Println("BasePath:", result.BasePath)
			fmt.Println("Exists:", result.Exists)
			fmt.Println("ConfigSource:", result.ConfigSource)
			if result.SettingPath != "" {
				fmt.Println("SettingPath:", result.SettingPath)
			}
			fmt.Println("DocumentID:", result.DocumentID)
			fmt.Println("SegmentID:", result.SegmentID)
			fmt.Println("RecoverySource:", result.RecoverySource)
			fmt.Printf("Stream: %d/%d bytes used\n", result.StreamPosition, result.StreamCapacity)
			fmt.Println("TopLevelKeys:", result.TopLevelKeys)
			for _, e := range result.Errors {
				fmt.Println("ERROR:", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", defaultBasePath, "directory holding the store's on-disk artifacts")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output diagnostics as JSON")
	return cmd
}
