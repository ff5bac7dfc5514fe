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

// Package frictionless describes catalog packages as Frictionless data
// packages (https://specs.frictionlessdata.io/data-package/).
package frictionless

import (
	"fmt"
	"strings"

	"github.com/frictionlessdata/datapackage-go/datapackage"
	"github.com/frictionlessdata/datapackage-go/validator"

	"github.com/opendatato/opendatato/formats"
	"github.com/opendatato/opendatato/portal"
)

// a Frictionless data resource describing one of a package's resources
// (https://specs.frictionlessdata.io/data-resource/)
type DataResource struct {
	// the resource's catalog identifier
	Id string `json:"id"`
	// a name conforming to the Frictionless name pattern
	Name string `json:"name"`
	// the resource's download URL (or a relative path if it has none)
	Path string `json:"path"`
	// a title or label for the resource (optional)
	Title string `json:"title,omitempty"`
	// the format of the resource's file, often used as an extension
	Format string `json:"format,omitempty"`
}

// returns a map holding the resource's descriptor fields
func (r DataResource) Descriptor() map[string]any {
	descriptor := map[string]any{
		"id":   r.Id,
		"name": r.Name,
		"path": r.Path,
	}
	if r.Title != "" {
		descriptor["title"] = r.Title
	}
	if r.Format != "" {
		descriptor["format"] = r.Format
	}
	return descriptor
}

// DataResources converts a package's resources to Frictionless data
// resources, giving each a unique name.
func DataResources(pkg portal.Package) []DataResource {
	resources := make([]DataResource, len(pkg.Resources))
	used := make(map[string]int)
	for i, resource := range pkg.Resources {
		name := Name(resource.Name)
		if name == "" {
			name = Name(resource.Id)
		}
		if name == "" {
			name = "resource"
		}
		used[name]++
		if used[name] > 1 {
			name = fmt.Sprintf("%s-%d", name, used[name])
		}
		format := strings.ToLower(strings.TrimSpace(resource.Format))
		path := resource.Url
		if path == "" {
			path = name
			if kind := formats.Parse(resource.Format); kind != formats.Unknown {
				path += kind.Extension()
			}
		}
		resources[i] = DataResource{
			Id:     resource.Id,
			Name:   name,
			Path:   path,
			Title:  resource.Name,
			Format: format,
		}
	}
	return resources
}

// DataPackage converts a package and its resources into a validated
// Frictionless data package. A package needs at least one resource.
func DataPackage(pkg portal.Package) (*datapackage.Package, error) {
	name := Name(pkg.Title)
	if name == "" {
		name = Name(pkg.Id)
	}
	resources := DataResources(pkg)
	descriptors := make([]any, len(resources))
	for i, resource := range resources {
		descriptors[i] = resource.Descriptor()
	}

	descriptor := map[string]any{
		"id":        pkg.Id,
		"name":      name,
		"profile":   "data-package",
		"resources": descriptors,
	}
	if pkg.Title != "" {
		descriptor["title"] = pkg.Title
	}
	if pkg.Notes != "" {
		descriptor["description"] = pkg.Notes
	}
	if keywords := keywords(pkg.Topics); len(keywords) > 0 {
		descriptor["keywords"] = keywords
	}

	dp, err := datapackage.New(descriptor, ".", validator.InMemoryLoader())
	if err != nil {
		return nil, fmt.Errorf("describing package %s: %w", pkg.Id, err)
	}
	return dp, nil
}

// Name converts the given string into a name matching the Frictionless name
// pattern: lowercase, with any file suffix stripped off and each run of
// characters other than letters, digits, '-', '_', and '.' replaced by '_'.
func Name(s string) string {
	name := strings.ToLower(strings.TrimSpace(s))

	// remove any recognized file suffix
	if lastDot := strings.LastIndex(name, "."); lastDot != -1 {
		if formats.FromFileName(name) != formats.Unknown {
			name = name[:lastDot]
		}
	}

	isValid := func(c rune) bool {
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-' || c == '.'
	}
	var b strings.Builder
	inRun := false
	for _, c := range name {
		if isValid(c) {
			b.WriteRune(c)
			inRun = false
		} else if !inRun {
			b.WriteRune('_')
			inRun = true
		}
	}
	return b.String()
}

// splits a comma-separated topic list into keywords
func keywords(topics string) []any {
	keywords := make([]any, 0)
	for _, topic := range strings.Split(topics, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			keywords = append(keywords, topic)
		}
	}
	return keywords
}
