package iconcache

import (
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	configUtils "github.com/PandrPi/ProgramViewer3.0/config"
	rules "github.com/PandrPi/ProgramViewer3.0/config/validation"
	"github.com/PandrPi/ProgramViewer3.0/hashing"
	"github.com/PandrPi/ProgramViewer3.0/retry"
)

const (
	DefaultCacheDirectory  = "IconsCache"
	DefaultImagesDirectory = "SourceIcons"
	DefaultIndexFile       = "cacheFilesNames.json"
)

type Configuration struct {
	// CacheDirectory is the root of the cache. It holds the index file and the images directory.
	CacheDirectory string `mapstructure:"directory"`
	// ImagesDirectory is the name of the sub-directory of CacheDirectory in which `{hash}.png` files are stored.
	ImagesDirectory string `mapstructure:"images_directory"`
	IndexFile       string `mapstructure:"index_file"`
	HashAlgorithm   string `mapstructure:"hash_algorithm"`
	// Workers limits the number of images decoded concurrently during hydration. 0 means no limit.
	Workers int `mapstructure:"workers"`
	// ExtractionQueueSize is the number of extraction requests which can be queued before callers block.
	ExtractionQueueSize int                            `mapstructure:"extraction_queue_size"`
	WriteRetry          retry.RetryPolicyConfiguration `mapstructure:"write_retry"`
}

func (cfg *Configuration) Validate() error {
	// Validate Embedded Structs
	err := configUtils.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}

	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.CacheDirectory, validation.Required),
		validation.Field(&cfg.ImagesDirectory, validation.Required),
		validation.Field(&cfg.IndexFile, validation.Required),
		validation.Field(&cfg.HashAlgorithm, validation.Required, rules.IsHashAlgorithm()),
		validation.Field(&cfg.Workers, validation.Min(0)),
		validation.Field(&cfg.ExtractionQueueSize, validation.Min(0)),
	)
}

// IndexPath returns the path of the index file.
func (cfg *Configuration) IndexPath() string {
	return filepath.Join(cfg.CacheDirectory, cfg.IndexFile)
}

// ImagesPath returns the path of the directory holding the icon images.
func (cfg *Configuration) ImagesPath() string {
	return filepath.Join(cfg.CacheDirectory, cfg.ImagesDirectory)
}

// DefaultConfiguration returns a cache configuration rooted at `cacheDirectory`.
func DefaultConfiguration(cacheDirectory string) *Configuration {
	return &Configuration{
		CacheDirectory:      cacheDirectory,
		ImagesDirectory:     DefaultImagesDirectory,
		IndexFile:           DefaultIndexFile,
		HashAlgorithm:       hashing.DefaultHash,
		Workers:             8,
		ExtractionQueueSize: 64,
		WriteRetry:          *retry.DefaultLinearBackoffRetryPolicyConfiguration(),
	}
}
