// Package config defines the read-only configuration surface the rest
// of journaldoc depends on, kept separate from the infrastructure layer
// that actually loads it (JSON file, then env, then defaults — see
// internal/infra/config).
package config

// Config provides read-only access to a journaled document's
// configuration. This interface abstracts the configuration source so
// the app layer doesn't depend on infrastructure details.
type Config interface {
	// BasePath is the directory holding the store's on-disk artifacts:
	// BasePath/snapshot.json, BasePath/snapshot.json.new, and
	// BasePath/journal.stream.
	BasePath() string

	// Capacity is the fixed size, in bytes, of the memory-mapped journal
	// stream (JOURNALDOC_CAPACITY).
	Capacity() int

	// HighWaterBytes is the journal-stream fill level, in bytes, at or
	// above which SnapshotIfHighWater triggers a snapshot
	// (JOURNALDOC_HIGH_WATER).
	HighWaterBytes() int

	// TypeTag and SchemaVersion identify the document's schema; a
	// journal whose header doesn't match causes ErrSchemaMismatch rather
	// than being silently misapplied (JOURNALDOC_TYPE_TAG,
	// JOURNALDOC_SCHEMA_VERSION).
	TypeTag() string
	SchemaVersion() uint32

	// FsyncSnapshot controls whether snapshot writes call Sync before
	// closing (JOURNALDOC_FSYNC_SNAPSHOT). Disabling it only matters for
	// tests against an in-memory filesystem that don't support Sync.
	FsyncSnapshot() bool

	// Metadata
	ConfigSource() string // "json", "env", or "default"
	SettingPath() string  // path to setting.json if loaded from file
}

// AppConfig is the concrete implementation of Config.
type AppConfig struct {
	basePath       string
	capacity       int
	highWaterBytes int
	typeTag        string
	schemaVersion  uint32
	fsyncSnapshot  bool

	configSource string
	settingPath  string
}

func (c *AppConfig) BasePath() string      { return c.basePath }
func (c *AppConfig) Capacity() int         { return c.capacity }
func (c *AppConfig) HighWaterBytes() int   { return c.highWaterBytes }
func (c *AppConfig) TypeTag() string       { return c.typeTag }
func (c *AppConfig) SchemaVersion() uint32 { return c.schemaVersion }
func (c *AppConfig) FsyncSnapshot() bool   { return c.fsyncSnapshot }
func (c *AppConfig) ConfigSource() string  { return c.configSource }
func (c *AppConfig) SettingPath() string   { return c.settingPath }

// NewAppConfig creates a new AppConfig with the given values. This is
// typically called by the infrastructure layer after loading and merging
// configuration sources.
func NewAppConfig(
	basePath string,
	capacity, highWaterBytes int,
	typeTag string,
	schemaVersion uint32,
	fsyncSnapshot bool,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		basePath:       basePath,
		capacity:       capacity,
		highWaterBytes: highWaterBytes,
		typeTag:        typeTag,
		schemaVersion:  schemaVersion,
		fsyncSnapshot:  fsyncSnapshot,
		configSource:   configSource,
		settingPath:    settingPath,
	}
}
