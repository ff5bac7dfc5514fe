// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package portaltest

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/opendatato/opendatato/portal"
)

// This type implements a portal.Catalog test fixture backed by in-memory
// packages and resources.
type Catalog struct {
	Packages  map[string]portal.Package
	Resources map[string]portal.Resource
	// if set, every call returns this error
	Err error
	// number of calls made to each method
	Calls map[string]int
}

// creates an empty catalog fixture
func NewCatalog() *Catalog {
	return &Catalog{
		Packages:  make(map[string]portal.Package),
		Resources: make(map[string]portal.Resource),
		Calls:     make(map[string]int),
	}
}

// adds a resource to the catalog, returning its ID
func (c *Catalog) AddResource(resource portal.Resource) string {
	c.Resources[resource.Id] = resource
	return resource.Id
}

func (c *Catalog) ResourceMetadata(ctx context.Context, id string) (portal.Resource, error) {
	c.Calls["ResourceMetadata"]++
	if c.Err != nil {
		return portal.Resource{}, c.Err
	}
	resource, found := c.Resources[id]
	if !found {
		return portal.Resource{}, &portal.LookupError{Kind: "resource", Id: id}
	}
	return resource, nil
}

func (c *Catalog) PackageMetadata(ctx context.Context, id string) (portal.Package, error) {
	c.Calls["PackageMetadata"]++
	if c.Err != nil {
		return portal.Package{}, c.Err
	}
	pkg, found := c.Packages[id]
	if !found {
		return portal.Package{}, &portal.LookupError{Kind: "package", Id: id}
	}
	return pkg, nil
}

func (c *Catalog) SearchPackages(ctx context.Context, query string, limit int) ([]portal.Package, error) {
	c.Calls["SearchPackages"]++
	if c.Err != nil {
		return nil, c.Err
	}
	results := make([]portal.Package, 0)
	for _, pkg := range sortedPackages(c.Packages) {
		if len(results) == limit {
			break
		}
		if strings.Contains(strings.ToLower(pkg.Title), strings.ToLower(query)) {
			results = append(results, pkg)
		}
	}
	return results, nil
}

func (c *Catalog) ListPackages(ctx context.Context, limit int) ([]portal.Package, error) {
	c.Calls["ListPackages"]++
	if c.Err != nil {
		return nil, c.Err
	}
	packages := sortedPackages(c.Packages)
	if limit < len(packages) {
		packages = packages[:limit]
	}
	return packages, nil
}

func sortedPackages(packages map[string]portal.Package) []portal.Package {
	sorted := make([]portal.Package, 0, len(packages))
	for _, pkg := range packages {
		sorted = append(sorted, pkg)
	}
	slices.SortFunc(sorted, func(p1, p2 portal.Package) int { // sort by ID
		return cmp.Compare(p1.Id, p2.Id)
	})
	return sorted
}
