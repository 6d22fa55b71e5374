package ports

import "tempo-tracker/internal/domain/entities"

// ConfigManager handles configuration loading and persistence.
type ConfigManager interface {
	Load() (*entities.Config, error)
	Save(config *entities.Config) error
	Set(key, value string) error
	Get(key string) (interface{}, error)
	GetConfigPath() string
	Validate() error
}
