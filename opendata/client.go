// Package opendata is the client's entry point: one method per use case, all
// backed by a portal catalog and a resource dispatcher.
package opendata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frictionlessdata/datapackage-go/datapackage"

	"github.com/opendatato/opendatato/config"
	"github.com/opendatato/opendatato/data"
	"github.com/opendatato/opendatato/frictionless"
	"github.com/opendatato/opendatato/portal"
	"github.com/opendatato/opendatato/portal/ckan"
	"github.com/opendatato/opendatato/portal/datastore"
	"github.com/opendatato/opendatato/resources"
)

// Client provides access to an open data portal's packages and resources.
type Client struct {
	Catalog    portal.Catalog
	Dispatcher *resources.Dispatcher
}

// creates a client for the given catalog and dispatcher
func New(catalog portal.Catalog, dispatcher *resources.Dispatcher) *Client {
	return &Client{
		Catalog:    catalog,
		Dispatcher: dispatcher,
	}
}

// NewClient creates a client for the portal described by the current
// configuration. Call config.Init first.
func NewClient() (*Client, error) {
	if config.Portal.URL == "" {
		return nil, fmt.Errorf("No portal has been configured")
	}
	httpClient := portal.SecureHttpClient(config.Portal.RequestTimeout())
	baseURL := config.Portal.BaseURL()
	catalog := ckan.New(baseURL, &httpClient)
	return New(catalog, &resources.Dispatcher{
		Catalog:   catalog,
		Datastore: datastore.NewReader(baseURL, &httpClient),
		Client:    &httpClient,
		TempDir:   config.Portal.TempDir,
		Website:   config.Portal.WebsiteURL(),
	}), nil
}

// ListPackages returns up to limit packages from the catalog.
func (c *Client) ListPackages(ctx context.Context, limit int) ([]portal.Package, error) {
	packages, err := c.Catalog.ListPackages(ctx, limit)
	if err != nil {
		return nil, err
	}
	return withoutResources(packages), nil
}

// SearchPackages returns up to limit packages whose titles match the given
// query. If nothing matches, a notice is logged and no packages (and no
// error) are returned.
func (c *Client) SearchPackages(ctx context.Context, query string, limit int) ([]portal.Package, error) {
	packages, err := c.Catalog.SearchPackages(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(packages) == 0 {
		slog.Info("Cannot find any packages.")
		return nil, nil
	}
	return withoutResources(packages), nil
}

// PackageMetadata returns the given package's metadata, including its
// resources only if showResources is true.
func (c *Client) PackageMetadata(ctx context.Context, packageId string, showResources bool) (portal.Package, error) {
	pkg, err := c.Catalog.PackageMetadata(ctx, packageId)
	if err != nil {
		return portal.Package{}, err
	}
	if !showResources {
		pkg.Resources = nil
	}
	return pkg, nil
}

// ResourceMetadata returns the given resource's metadata.
func (c *Client) ResourceMetadata(ctx context.Context, resourceId string) (portal.Resource, error) {
	return c.Catalog.ResourceMetadata(ctx, resourceId)
}

// Resource retrieves the given resource's payload as a normalized value.
func (c *Client) Resource(ctx context.Context, resourceId string) (data.Value, error) {
	return c.Dispatcher.Fetch(ctx, resourceId)
}

// DataPackage describes the given package and its resources as a
// Frictionless data package.
func (c *Client) DataPackage(ctx context.Context, packageId string) (*datapackage.Package, error) {
	pkg, err := c.Catalog.PackageMetadata(ctx, packageId)
	if err != nil {
		return nil, err
	}
	return frictionless.DataPackage(pkg)
}

func withoutResources(packages []portal.Package) []portal.Package {
	for i := range packages {
		packages[i].Resources = nil
	}
	return packages
}
