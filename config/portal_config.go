package config

import (
	"strings"
	"time"
)

// The portal is the CKAN-style open data catalog whose packages and resources
// are retrieved by this client.
type portalConfig struct {
	// the full name of the portal
	Name string `yaml:"name"`
	// the base URL at which the portal's action API is accessed
	URL string `yaml:"url"`
	// the public web site users are directed to for resources we can't retrieve
	Website string `yaml:"website"`
	// timeout for each remote request (seconds)
	Timeout int `yaml:"timeout"`
	// directory in which temporary files are created (default: os.TempDir())
	TempDir string `yaml:"temp_dir"`
}

// returns the request timeout as a duration
func (p portalConfig) RequestTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// returns the portal's base URL without any trailing slash
func (p portalConfig) BaseURL() string {
	return strings.TrimRight(p.URL, "/")
}

// returns the web site to which users should be directed, falling back to the
// portal's base URL
func (p portalConfig) WebsiteURL() string {
	if p.Website != "" {
		return p.Website
	}
	return p.BaseURL()
}
