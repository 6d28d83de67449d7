package launcher

import (
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	configUtils "github.com/PandrPi/ProgramViewer3.0/config"
	"github.com/PandrPi/ProgramViewer3.0/iconcache"
	"github.com/PandrPi/ProgramViewer3.0/items"
	"github.com/PandrPi/ProgramViewer3.0/logs"
	"github.com/PandrPi/ProgramViewer3.0/settings"
)

const (
	DefaultLogFile     = "logout.txt"
	DefaultFlushPeriod = 5 * time.Minute
	loggerSource       = "ProgramViewer"
)

type LoggingConfiguration struct {
	// LogFile receives the messages when the RedirectMessageLogging setting is enabled.
	LogFile string `mapstructure:"file"`
	// Backend prints the messages to the console. See logs.Backends.
	Backend string `mapstructure:"backend"`
	Verbose bool   `mapstructure:"verbose"`
	// Rotate selects a rolling log file. Otherwise messages are appended to a single file.
	Rotate      bool          `mapstructure:"rotate"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
	MaxBackups  int           `mapstructure:"max_backups"`
	MaxAge      time.Duration `mapstructure:"max_age"`
}

func (cfg *LoggingConfiguration) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.LogFile, validation.Required),
		validation.Field(&cfg.Backend, validation.Required, validation.In(backends()...)),
		validation.Field(&cfg.MaxFileSize, validation.Min(int64(0))),
		validation.Field(&cfg.MaxBackups, validation.Min(0)),
		validation.Field(&cfg.MaxAge, validation.Min(time.Duration(0))),
	)
}

func backends() []any {
	values := make([]any, 0, len(logs.Backends))
	for i := range logs.Backends {
		values = append(values, logs.Backends[i])
	}
	return values
}

// Configuration describes a launcher instance. Relative paths are relative to ApplicationDirectory.
type Configuration struct {
	ApplicationDirectory string                  `mapstructure:"app_dir"`
	SettingsFile         string                  `mapstructure:"settings_file"`
	Cache                iconcache.Configuration `mapstructure:"cache"`
	Items                items.Configuration     `mapstructure:"items"`
	Logging              LoggingConfiguration    `mapstructure:"logging"`
	// FlushPeriod is the interval between two background flushes of the icon cache. 0 disables them.
	FlushPeriod time.Duration `mapstructure:"flush_period"`
	Watch       bool          `mapstructure:"watch"`
}

func (cfg *Configuration) Validate() error {
	// Validate Embedded Structs
	err := configUtils.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}

	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.ApplicationDirectory, validation.Required),
		validation.Field(&cfg.SettingsFile, validation.Required),
		validation.Field(&cfg.FlushPeriod, validation.Min(time.Duration(0))),
	)
}

// Resolve returns a copy of the configuration in which all paths are absolute.
func (cfg *Configuration) Resolve() (resolved *Configuration, err error) {
	appDir, err := filepath.Abs(cfg.ApplicationDirectory)
	if err != nil {
		return
	}
	c := *cfg
	c.ApplicationDirectory = appDir
	c.Items.Exclusions = append([]string(nil), cfg.Items.Exclusions...)
	for _, path := range []*string{&c.SettingsFile, &c.Cache.CacheDirectory, &c.Items.DesktopDirectory, &c.Items.HotItemsFile, &c.Logging.LogFile} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(appDir, *path)
		}
	}
	c.Items.Watch = c.Items.Watch || c.Watch
	resolved = &c
	return
}

// DefaultConfiguration returns the configuration of a launcher whose files live in `appDir`.
func DefaultConfiguration(appDir string) *Configuration {
	return &Configuration{
		ApplicationDirectory: appDir,
		SettingsFile:         settings.DefaultSettingsFile,
		Cache:                *iconcache.DefaultConfiguration(iconcache.DefaultCacheDirectory),
		Items:                *items.DefaultConfiguration(),
		Logging: LoggingConfiguration{
			LogFile:     DefaultLogFile,
			Backend:     logs.BackendZap,
			Rotate:      true,
			MaxFileSize: 10 * 1024 * 1024,
			MaxBackups:  3,
			MaxAge:      7 * 24 * time.Hour,
		},
		FlushPeriod: DefaultFlushPeriod,
	}
}
