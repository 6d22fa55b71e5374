package entities

// Config represents the complete tempo configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CLI     CLIConfig     `mapstructure:"cli"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr    string `mapstructure:"addr" validate:"required"`
	Timeout int    `mapstructure:"timeout" validate:"min=1,max=300"`
}

// CLIConfig holds CLI behavior configuration
type CLIConfig struct {
	OutputFormat string `mapstructure:"output_format" validate:"oneof=table json plain"`
	ColorScheme  string `mapstructure:"color_scheme" validate:"oneof=auto always never"`
	PageSize     int    `mapstructure:"page_size" validate:"min=1,max=100"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=file sqlite"`
	Path   string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
	File   string `mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    "127.0.0.1:8420",
			Timeout: 30,
		},
		CLI: CLIConfig{
			OutputFormat: "table",
			ColorScheme:  "auto",
			PageSize:     20,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			File:   "",
		},
	}
}
