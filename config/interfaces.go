package config

type IServiceConfiguration interface {
	// Validate validates configuration entries.
	Validate() error
}

type Validator = IServiceConfiguration
