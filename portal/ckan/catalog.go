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

// Package ckan implements portal.Catalog on top of a CKAN portal's action API.
package ckan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/opendatato/opendatato/portal"
)

// This type implements portal.Catalog for a CKAN portal rooted at BaseURL.
type Catalog struct {
	// the portal's base URL (no trailing slash)
	BaseURL string
	// the HTTP client used for every request
	Client *http.Client
}

// creates a catalog for the portal at the given base URL
func New(baseURL string, client *http.Client) *Catalog {
	return &Catalog{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  client,
	}
}

func (c *Catalog) ResourceMetadata(ctx context.Context, id string) (portal.Resource, error) {
	result, err := c.get(ctx, "resource_show", url.Values{"id": {id}})
	if err != nil {
		return portal.Resource{}, lookupError("resource", id, err)
	}
	var record map[string]any
	if err := json.Unmarshal(result, &record); err != nil {
		return portal.Resource{}, c.malformed("resource_show", err)
	}
	return resourceFromRecord(record), nil
}

func (c *Catalog) PackageMetadata(ctx context.Context, id string) (portal.Package, error) {
	result, err := c.get(ctx, "package_show", url.Values{"id": {id}})
	if err != nil {
		return portal.Package{}, lookupError("package", id, err)
	}
	var record map[string]any
	if err := json.Unmarshal(result, &record); err != nil {
		return portal.Package{}, c.malformed("package_show", err)
	}
	return packageFromRecord(record), nil
}

func (c *Catalog) SearchPackages(ctx context.Context, query string, limit int) ([]portal.Package, error) {
	result, err := c.get(ctx, "package_search", url.Values{
		"fq":   {fmt.Sprintf(`title:"%s"`, query)},
		"rows": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}
	var search struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(result, &search); err != nil {
		return nil, c.malformed("package_search", err)
	}
	return packagesFromRecords(search.Results), nil
}

func (c *Catalog) ListPackages(ctx context.Context, limit int) ([]portal.Package, error) {
	result, err := c.get(ctx, "current_package_list_with_resources", url.Values{
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, c.malformed("current_package_list_with_resources", err)
	}
	return packagesFromRecords(records), nil
}

// performs a GET request on the given action, returning its result
func (c *Catalog) get(ctx context.Context, action string, values url.Values) (json.RawMessage, error) {
	return portal.CallAction(ctx, c.Client, c.actionURL(action), values)
}

func (c *Catalog) actionURL(action string) string {
	return fmt.Sprintf("%s/api/3/action/%s", c.BaseURL, action)
}

func (c *Catalog) malformed(action string, err error) error {
	return &portal.RemoteServiceError{
		Url:     c.actionURL(action),
		Message: fmt.Sprintf("malformed %s result: %s", action, err),
	}
}

// converts a "not found" failure into a LookupError for the given entity,
// passing other errors through
func lookupError(kind, id string, err error) error {
	var remoteErr *portal.RemoteServiceError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound {
		return &portal.LookupError{
			Kind: kind,
			Id:   id,
		}
	}
	return err
}
