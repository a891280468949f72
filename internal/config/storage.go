package config

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type StorageConfig struct {
	StorageDriver string `yaml:"driver"`
	FilePath      string `yaml:"path"`
}

func (c *StorageConfig) Driver() string {
	if c.StorageDriver == "" {
		return DriverMemory
	}
	return c.StorageDriver
}

func (c *StorageConfig) Path() string {
	if c.FilePath == "" {
		return "data/easeabill.db"
	}
	return c.FilePath
}
