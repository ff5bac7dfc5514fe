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

// Package datastore reads the records of live-indexed resources from a
// portal's datastore query endpoint.
package datastore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/opendatato/opendatato/data"
	"github.com/opendatato/opendatato/portal"
)

// This type reads every record of a datastore table into a frame.
type Reader struct {
	// the portal's base URL (no trailing slash)
	BaseURL string
	// the HTTP client used for every request
	Client *http.Client
}

// creates a reader for the portal at the given base URL
func NewReader(baseURL string, client *http.Client) *Reader {
	return &Reader{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  client,
	}
}

// a datastore_search result
type searchResult struct {
	Fields []struct {
		Id   string `json:"id"`
		Type string `json:"type"`
	} `json:"fields"`
	Records []map[string]any `json:"records"`
	Total   int              `json:"total"`
}

// ReadAll returns every record of the given resource's table. The first query
// asks for a single record to learn the table's total size; the second asks
// for exactly that many. Null and absent fields become empty strings.
func (r *Reader) ReadAll(ctx context.Context, resourceId string) (*data.Frame, error) {
	head, err := r.search(ctx, resourceId, 1)
	if err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("Datastore table for resource %s holds %d records",
		resourceId, head.Total))
	result, err := r.search(ctx, resourceId, head.Total)
	if err != nil {
		return nil, err
	}
	return frameFromResult(result), nil
}

func (r *Reader) endpoint() string {
	return fmt.Sprintf("%s/api/action/datastore_search", r.BaseURL)
}

func (r *Reader) search(ctx context.Context, resourceId string, limit int) (searchResult, error) {
	var result searchResult
	raw, err := portal.CallAction(ctx, r.Client, r.endpoint(), url.Values{
		"resource_id": {resourceId},
		"limit":       {strconv.Itoa(limit)},
	})
	if err != nil {
		return result, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return result, &portal.RemoteServiceError{
			Url:     r.endpoint(),
			Message: fmt.Sprintf("malformed datastore_search result: %s", err),
		}
	}
	return result, nil
}

func frameFromResult(result searchResult) *data.Frame {
	columns := make([]string, 0, len(result.Fields))
	for _, field := range result.Fields {
		columns = append(columns, field.Id)
	}
	if len(columns) == 0 {
		// no field list, so use every key appearing in any record
		keys := make(map[string]bool)
		for _, record := range result.Records {
			for key := range record {
				keys[key] = true
			}
		}
		for key := range keys {
			columns = append(columns, key)
		}
		sort.Strings(columns)
	}

	frame := data.NewFrame(columns...)
	for _, record := range result.Records {
		cells := make([]any, len(columns))
		for i, column := range columns {
			cells[i] = normalizeCell(record[column])
		}
		frame.Append(cells...)
	}
	return frame
}

func normalizeCell(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}
