package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ReadSettings returns DefaultSettings overlaid with the YAML file at path.
// An empty path yields the defaults.
func ReadSettings(fs afero.Fs, path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return &settings, nil
	}

	fileBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if err := yaml.Unmarshal(fileBytes, &settings); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s", path)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
