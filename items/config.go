package items

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	rules "github.com/PandrPi/ProgramViewer3.0/config/validation"
)

const (
	DefaultDesktopDirectory = "PV Desktop"
	DefaultHotItemsFile     = "HotItems.json"
)

// DefaultExclusions lists the desktop folder entries which are never shown.
var DefaultExclusions = []string{"desktop.ini", "thumbs.db", "~$*", "*.tmp", ".*"}

type Configuration struct {
	DesktopDirectory string        `mapstructure:"desktop_directory"`
	HotItemsFile     string        `mapstructure:"hot_items_file"`
	Exclusions       []string      `mapstructure:"exclusions"`
	Locale           string        `mapstructure:"locale"`
	Watch            bool          `mapstructure:"watch"`
	RenameWindow     time.Duration `mapstructure:"rename_window"`
	// Workers limits the number of icons requested concurrently while loading items. 0 means no limit.
	Workers int `mapstructure:"workers"`
}

func (cfg *Configuration) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.DesktopDirectory, validation.Required),
		validation.Field(&cfg.HotItemsFile, validation.Required),
		validation.Field(&cfg.Exclusions, rules.AreGlobPatterns()),
		validation.Field(&cfg.RenameWindow, validation.Min(time.Duration(0))),
		validation.Field(&cfg.Workers, validation.Min(0)),
	)
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		DesktopDirectory: DefaultDesktopDirectory,
		HotItemsFile:     DefaultHotItemsFile,
		Exclusions:       DefaultExclusions,
		Locale:           "en",
		Watch:            false,
		RenameWindow:     DefaultRenameWindow,
		Workers:          8,
	}
}
