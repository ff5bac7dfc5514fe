package config

// These tests verify that we can properly configure the portal client with
// YAML input.
import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// a valid service config entry
const VALID_SERVICE string = `
service:
  port: 8080
  max_connections: 100
`

// a valid portal config entry
const VALID_PORTAL string = `
portal:
  name: Open Data Toronto
  url: https://ckan0.cf.opendata.inter.prod-toronto.ca/
  website: https://open.toronto.ca
  timeout: 30
`

// tests whether config.Init reports an error for blank input
func TestInitRejectsBlankInput(t *testing.T) {
	b := []byte("")
	err := Init(b)
	assert.NotNil(t, err, "Blank config didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid port
func TestInitRejectsBadPort(t *testing.T) {
	yaml := "service:\n  port: -1\n\n" + VALID_PORTAL
	b := []byte(yaml)
	err := Init(b)
	assert.NotNil(t, err, "Config with bad port didn't trigger an error.")
	yaml = "service:\n  port: 1000000\n\n" + VALID_PORTAL
	b = []byte(yaml)
	err = Init(b)
	assert.NotNil(t, err, "Config with bad port didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid max number of
// connections
func TestInitRejectsBadMaxConnections(t *testing.T) {
	yaml := "service:\n  max_connections: 0\n\n" + VALID_PORTAL
	b := []byte(yaml)
	err := Init(b)
	assert.NotNil(t, err, "Config with bad max_connections didn't trigger an error.")
}

// tests whether config.Init rejects a configuration with no portal
func TestInitRejectsNoPortalDefined(t *testing.T) {
	b := []byte(VALID_SERVICE)
	err := Init(b)
	assert.NotNil(t, err, "Config with no portal didn't trigger an error.")
}

// Tests whether config.Init rejects a portal with a bad base URL.
func TestInitRejectsBadPortalURL(t *testing.T) {
	yaml := "portal:\n  url: hahahahahahaha\n\n"
	b := []byte(yaml)
	err := Init(b)
	assert.NotNil(t, err, "Config with bad portal URL didn't trigger an error.")
}

// Tests whether config.Init rejects a non-positive request timeout.
func TestInitRejectsBadTimeout(t *testing.T) {
	yaml := VALID_SERVICE + "portal:\n  url: https://example.com\n  timeout: 0\n"
	b := []byte(yaml)
	err := Init(b)
	assert.NotNil(t, err, "Config with zero timeout didn't trigger an error.")
}

// Tests whether config.Init rejects a temp_dir that doesn't exist.
func TestInitRejectsMissingTempDir(t *testing.T) {
	yaml := VALID_SERVICE + "portal:\n  url: https://example.com\n  temp_dir: /no/such/dir/anywhere\n"
	b := []byte(yaml)
	err := Init(b)
	assert.NotNil(t, err, "Config with missing temp_dir didn't trigger an error.")
}

// Tests whether config.Init returns no error for a configuration that is
// (ostensibly) valid.
func TestInitAcceptsValidInput(t *testing.T) {
	yaml := VALID_SERVICE + VALID_PORTAL
	b := []byte(yaml)
	err := Init(b)
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
}

// Tests whether environment variables are expanded before parsing.
func TestInitExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("OPENDATA_TEST_PORTAL_URL", "https://portal.example.com")
	yaml := VALID_SERVICE + "portal:\n  url: ${OPENDATA_TEST_PORTAL_URL}\n"
	err := Init([]byte(yaml))
	assert.Nil(t, err)
	assert.Equal(t, "https://portal.example.com", Portal.URL)
}

// Tests whether config.Init properly initializes its globals for valid input.
func TestInitProperlySetsGlobals(t *testing.T) {
	yaml := VALID_SERVICE + VALID_PORTAL
	b := []byte(yaml)
	err := Init(b)
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))

	// Check data
	assert.Equal(t, 8080, Service.Port)
	assert.Equal(t, 100, Service.MaxConnections)
	assert.Equal(t, "Open Data Toronto", Portal.Name)
	assert.Equal(t, "https://ckan0.cf.opendata.inter.prod-toronto.ca", Portal.BaseURL())
	assert.Equal(t, "https://open.toronto.ca", Portal.WebsiteURL())
	assert.Equal(t, 30*time.Second, Portal.RequestTimeout())
}

// Tests the defaults applied to omitted fields.
func TestInitAppliesDefaults(t *testing.T) {
	err := Init([]byte("portal:\n  url: https://example.com\n"))
	assert.Nil(t, err)
	assert.Equal(t, 8080, Service.Port)
	assert.Equal(t, 100, Service.MaxConnections)
	assert.Equal(t, 60*time.Second, Portal.RequestTimeout())
	assert.Equal(t, "https://example.com", Portal.WebsiteURL())
}

// this function gets called at the begіnning of a test session
func setup() {
}

// this function gets called after all tests have been run
func breakdown() {
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}
