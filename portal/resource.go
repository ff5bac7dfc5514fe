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

package portal

// Resource holds the fixed set of catalog fields describing one downloadable
// or queryable data artifact. Fields the catalog omits are left empty.
type Resource struct {
	// unique identifier for the resource
	Id string `json:"id"`
	// a human-readable name
	Name string `json:"name"`
	// the declared format label (e.g. "CSV", "SHP", "ZIP"), compared
	// case-insensitively
	Format string `json:"format"`
	// true if the resource's records can be queried through the datastore
	DatastoreActive bool `json:"datastore_active"`
	// timestamp of the resource's last modification
	LastModified string `json:"last_modified"`
	// identifier of the package the resource belongs to
	PackageId string `json:"package_id"`
	// the resource's download URL
	Url string `json:"url"`
}

// Package holds the fixed set of catalog fields describing a dataset.
type Package struct {
	Id            string `json:"id"`
	Title         string `json:"title"`
	Topics        string `json:"topics"`
	Excerpt       string `json:"excerpt"`
	Formats       string `json:"formats"`
	NumResources  int    `json:"num_resources"`
	RefreshRate   string `json:"refresh_rate"`
	LastRefreshed string `json:"last_refreshed"`
	Notes         string `json:"notes"`
	// the package's resources (only present when requested)
	Resources []Resource `json:"resources,omitempty"`
}
