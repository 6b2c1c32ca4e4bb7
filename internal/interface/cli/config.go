package cli

import (
	"github.com/spf13/afero"

	appconfig "github.com/tsukiyo-oss/journaldoc/internal/app/config"
	infraconfig "github.com/tsukiyo-oss/journaldoc/internal/infra/config"
)

// loadConfig resolves settings.json + env + defaults for basePath, the
// same priority order internal/infra/config.LoadSettings always uses.
// Each subcommand calls this fresh rather than sharing a cached config,
// so a setting.json edited between invocations always takes effect.
func loadConfig(basePath string) (appconfig.Config, error) {
	return infraconfig.LoadSettings(basePath)
}

func osFs() afero.Fs {
	return afero.NewOsFs()
}
