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

package ckan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opendatato/opendatato/portal"
)

// The portal returns far more fields than we use, and not every portal fills
// in the same ones. These functions project raw catalog records onto our
// fixed field sets; absent fields become zero values.

func resourceFromRecord(record map[string]any) portal.Resource {
	return portal.Resource{
		Id:              stringField(record, "id"),
		Name:            stringField(record, "name"),
		Format:          stringField(record, "format"),
		DatastoreActive: boolField(record, "datastore_active"),
		LastModified:    stringField(record, "last_modified"),
		PackageId:       stringField(record, "package_id"),
		Url:             stringField(record, "url"),
	}
}

func packageFromRecord(record map[string]any) portal.Package {
	pkg := portal.Package{
		Id:            stringField(record, "id"),
		Title:         stringField(record, "title"),
		Topics:        stringField(record, "topics"),
		Excerpt:       stringField(record, "excerpt"),
		Formats:       stringField(record, "formats"),
		NumResources:  intField(record, "num_resources"),
		RefreshRate:   stringField(record, "refresh_rate"),
		LastRefreshed: stringField(record, "last_refreshed"),
		Notes:         stringField(record, "notes"),
	}
	if resources, ok := record["resources"].([]any); ok {
		pkg.Resources = make([]portal.Resource, 0, len(resources))
		for _, r := range resources {
			if resource, ok := r.(map[string]any); ok {
				pkg.Resources = append(pkg.Resources, resourceFromRecord(resource))
			}
		}
		if _, found := record["num_resources"]; !found {
			pkg.NumResources = len(pkg.Resources)
		}
	}
	return pkg
}

func packagesFromRecords(records []map[string]any) []portal.Package {
	packages := make([]portal.Package, len(records))
	for i, record := range records {
		packages[i] = packageFromRecord(record)
	}
	return packages
}

func stringField(record map[string]any, key string) string {
	switch v := record[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, part := range v {
			if part != nil {
				parts = append(parts, fmt.Sprint(part))
			}
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func intField(record map[string]any, key string) int {
	switch v := record[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

func boolField(record map[string]any, key string) bool {
	switch v := record[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}
