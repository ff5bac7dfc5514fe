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

import (
	"context"
)

// Catalog defines the interface for the portal's package/resource catalog.
// Failures are returned to callers as-is; nothing is retried.
type Catalog interface {
	// fetches metadata for the resource with the given ID, returning a
	// LookupError if there's no such resource
	ResourceMetadata(ctx context.Context, id string) (Resource, error)
	// fetches metadata (including resources) for the package with the given
	// ID, returning a LookupError if there's no such package
	PackageMetadata(ctx context.Context, id string) (Package, error)
	// searches for packages whose titles match the given query, returning at
	// most limit results
	SearchPackages(ctx context.Context, query string, limit int) ([]Package, error)
	// lists packages (with their resources), returning at most limit results
	ListPackages(ctx context.Context, limit int) ([]Package, error)
}
