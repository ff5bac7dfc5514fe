package ckan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opendatato/opendatato/portal"
	"github.com/opendatato/opendatato/portaltest"
)

func newCatalog(p *portaltest.Portal) *Catalog {
	client := portal.SecureHttpClient(5 * time.Second)
	return New(p.URL()+"/", &client)
}

func samplePortal() *portaltest.Portal {
	p := portaltest.NewPortal()
	p.Resources["r-1"] = map[string]any{
		"id":               "r-1",
		"name":             "ttc-subway-shapefile-wgs84",
		"format":           "SHP",
		"datastore_active": false,
		"last_modified":    "2019-07-23T17:59:26.474208",
		"package_id":       "p-1",
		"url":              "https://example.com/subway.zip",
		"mimetype":         "application/zip",
	}
	p.Packages["p-1"] = map[string]any{
		"id":             "p-1",
		"title":          "TTC Subway Shapefiles",
		"topics":         "Transportation",
		"excerpt":        "Subway lines.",
		"formats":        "SHP",
		"num_resources":  1,
		"refresh_rate":   "As available",
		"last_refreshed": "2019-07-23T17:59:26.474208",
		"notes":          "Shapefiles of the subway network.",
		"maintainer":     "someone",
		"resources":      []any{p.Resources["r-1"]},
	}
	p.Packages["p-2"] = map[string]any{
		"id":    "p-2",
		"title": "Solid Waste Pickup Schedule",
	}
	return p
}

func TestResourceMetadata(t *testing.T) {
	assert := assert.New(t)
	p := samplePortal()
	defer p.Close()
	catalog := newCatalog(p)

	resource, err := catalog.ResourceMetadata(context.Background(), "r-1")
	assert.Nil(err)
	assert.Equal(portal.Resource{
		Id:              "r-1",
		Name:            "ttc-subway-shapefile-wgs84",
		Format:          "SHP",
		DatastoreActive: false,
		LastModified:    "2019-07-23T17:59:26.474208",
		PackageId:       "p-1",
		Url:             "https://example.com/subway.zip",
	}, resource)
	assert.Equal(1, p.Calls("resource_show"))
}

func TestResourceMetadataNotFound(t *testing.T) {
	p := samplePortal()
	defer p.Close()
	catalog := newCatalog(p)

	_, err := catalog.ResourceMetadata(context.Background(), "123")
	var lookupErr *portal.LookupError
	assert.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "resource", lookupErr.Kind)
	assert.Equal(t, "123", lookupErr.Id)
}

func TestPackageMetadata(t *testing.T) {
	assert := assert.New(t)
	p := samplePortal()
	defer p.Close()
	catalog := newCatalog(p)

	pkg, err := catalog.PackageMetadata(context.Background(), "p-1")
	assert.Nil(err)
	assert.Equal("TTC Subway Shapefiles", pkg.Title)
	assert.Equal("Transportation", pkg.Topics)
	assert.Equal(1, pkg.NumResources)
	assert.Equal("As available", pkg.RefreshRate)
	assert.Len(pkg.Resources, 1)
	assert.Equal("r-1", pkg.Resources[0].Id)

	// absent fields are left empty
	pkg, err = catalog.PackageMetadata(context.Background(), "p-2")
	assert.Nil(err)
	assert.Equal("Solid Waste Pickup Schedule", pkg.Title)
	assert.Equal("", pkg.Topics)
	assert.Equal("", pkg.Notes)
	assert.Equal(0, pkg.NumResources)
	assert.Nil(pkg.Resources)

	_, err = catalog.PackageMetadata(context.Background(), "nope")
	var lookupErr *portal.LookupError
	assert.True(errors.As(err, &lookupErr))
	assert.Equal("package", lookupErr.Kind)
}

func TestSearchPackages(t *testing.T) {
	assert := assert.New(t)
	p := samplePortal()
	defer p.Close()
	catalog := newCatalog(p)

	packages, err := catalog.SearchPackages(context.Background(), "subway", 10)
	assert.Nil(err)
	assert.Len(packages, 1)
	assert.Equal("p-1", packages[0].Id)

	packages, err = catalog.SearchPackages(context.Background(), "ferry", 10)
	assert.Nil(err)
	assert.Empty(packages)

	packages, err = catalog.SearchPackages(context.Background(), "", 1)
	assert.Nil(err)
	assert.Len(packages, 1)
}

func TestListPackages(t *testing.T) {
	assert := assert.New(t)
	p := samplePortal()
	defer p.Close()
	catalog := newCatalog(p)

	packages, err := catalog.ListPackages(context.Background(), 10)
	assert.Nil(err)
	assert.Len(packages, 2)
	assert.Equal("p-1", packages[0].Id)
	assert.Equal("p-2", packages[1].Id)

	packages, err = catalog.ListPackages(context.Background(), 1)
	assert.Nil(err)
	assert.Len(packages, 1)
}

func TestUnreachablePortal(t *testing.T) {
	p := samplePortal()
	catalog := newCatalog(p)
	p.Close()

	_, err := catalog.ResourceMetadata(context.Background(), "r-1")
	var remoteErr *portal.RemoteServiceError
	assert.True(t, errors.As(err, &remoteErr))
}

func TestFieldProjection(t *testing.T) {
	assert := assert.New(t)
	record := map[string]any{
		"formats":          []any{"CSV", "JSON"},
		"num_resources":    "3",
		"datastore_active": "true",
		"title":            float64(42),
	}
	assert.Equal("CSV,JSON", stringField(record, "formats"))
	assert.Equal(3, intField(record, "num_resources"))
	assert.True(boolField(record, "datastore_active"))
	assert.Equal("42", stringField(record, "title"))
	assert.Equal("", stringField(record, "missing"))
	assert.Equal(0, intField(record, "missing"))
	assert.False(boolField(record, "missing"))
}
