package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// a type with service configuration parameters
type serviceConfig struct {
	// Port on which the service listens
	Port int `json:"port" yaml:"port"`
	// Maximum number of allowed incoming connections.
	MaxConnections int `json:"max_connections" yaml:"max_connections"`
}

// global config variables
var Service serviceConfig
var Portal portalConfig

// This struct performs the unmarshalling from the YAML config file and then
// copies its fields to the globals above.
type configFile struct {
	Service serviceConfig `yaml:"service"`
	Portal  portalConfig  `yaml:"portal"`
}

// This helper locates and reads a configuration file, returning an error
// indicating success or failure. All environment variables of the form
// ${ENV_VAR} are expanded.
func readConfig(bytes []byte) error {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf configFile
	conf.Service.Port = 8080
	conf.Service.MaxConnections = 100
	conf.Portal.Timeout = 60
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		slog.Error(fmt.Sprintf("Couldn't parse configuration data: %s", err))
		return err
	}

	// copy the config data into place
	Service = conf.Service
	Portal = conf.Portal

	return err
}

// This helper validates the given service parameters, returning an
// error indicating success or failure.
func validateServiceParameters(params serviceConfig) error {
	if params.Port < 0 || params.Port > 65535 {
		return fmt.Errorf("Invalid port: %d (must be 0-65535)", params.Port)
	}
	if params.MaxConnections <= 0 {
		return fmt.Errorf("Invalid max_connections: %d (must be positive)",
			params.MaxConnections)
	}
	return nil
}

// This helper validates the portal parameters.
func validatePortalParameters(params portalConfig) error {
	if params.URL == "" {
		return fmt.Errorf("No portal URL was provided!")
	}
	u, err := url.Parse(params.URL)
	if err != nil {
		return fmt.Errorf("Invalid portal URL '%s': %s", params.URL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("Invalid portal URL '%s' (must be absolute, e.g. https://host)",
			params.URL)
	}
	if params.Website != "" {
		if w, err := url.Parse(params.Website); err != nil || !w.IsAbs() {
			return fmt.Errorf("Invalid portal website '%s' (must be absolute)", params.Website)
		}
	}
	if params.Timeout <= 0 {
		return fmt.Errorf("Invalid portal timeout: %d (must be positive)", params.Timeout)
	}
	if params.TempDir != "" {
		info, err := os.Stat(params.TempDir)
		if err != nil {
			return fmt.Errorf("Invalid portal temp_dir '%s': %s", params.TempDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("Invalid portal temp_dir '%s': not a directory", params.TempDir)
		}
	}
	return nil
}

// This helper validates the given configfile, returning an error that indicates
// success or failure.
func validateConfig() error {
	err := validateServiceParameters(Service)
	if err != nil {
		return err
	}
	return validatePortalParameters(Portal)
}

// Initializes the portal client configuration using the given YAML byte data.
func Init(yamlData []byte) error {

	// Read the configuration from our YAML file.
	err := readConfig(yamlData)
	if err != nil {
		return err
	}

	// Validate the configuration.
	err = validateConfig()
	return err
}
