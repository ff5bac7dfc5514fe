package portal

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// returns the sorted JSON keys of the given value's encoding
func jsonKeys(t *testing.T, v any) []string {
	encoded, err := json.Marshal(v)
	require.Nil(t, err)
	var fields map[string]any
	require.Nil(t, json.Unmarshal(encoded, &fields))
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	return keys
}

func TestPackageEncodesFixedFields(t *testing.T) {
	p := Package{Id: "1db34737", Title: "Bus shelters", NumResources: 2}
	assert.ElementsMatch(t, []string{"id", "title", "topics", "excerpt", "formats",
		"num_resources", "refresh_rate", "last_refreshed", "notes"}, jsonKeys(t, p))

	p.Resources = []Resource{{Id: "123"}}
	assert.Contains(t, jsonKeys(t, p), "resources")
}

func TestResourceEncodesFixedFields(t *testing.T) {
	r := Resource{Id: "123", Format: "CSV", DatastoreActive: true}
	assert.ElementsMatch(t, []string{"id", "name", "format", "datastore_active",
		"last_modified", "package_id", "url"}, jsonKeys(t, r))
}
