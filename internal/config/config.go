package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "data/config.yaml"
	configFileEnvKey  = "EASEABILL_CONFIG"
)

type config struct {
	Api     ApiConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	App     AppConfig     `yaml:"app"`
}

type Service struct {
	config config
}

func New() (*Service, error) {
	s := &Service{}

	file := os.Getenv(configFileEnvKey)
	if file == "" {
		file = defaultConfigFile
	}

	rawYAML, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	return s, nil
}

// Default returns a Service carrying only built-in defaults; used when no
// config file is present on the device.
func Default() *Service {
	return &Service{}
}

func (s *Service) Api() *ApiConfig {
	return &s.config.Api
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}
