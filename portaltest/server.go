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
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// This type implements a fake CKAN portal: the action API (package and
// resource lookups and searches), the datastore query endpoint, and file
// downloads. Catalog entries are raw JSON objects, exactly as the portal would
// send them.
type Portal struct {
	Server *httptest.Server
	// raw catalog entries, keyed by ID
	Packages  map[string]map[string]any
	Resources map[string]map[string]any
	// datastore tables, keyed by resource ID
	Datastore map[string]DatastoreTable
	// downloadable files, keyed by name
	Files map[string][]byte

	mu sync.Mutex
	// query strings of every datastore_search request received
	DatastoreQueries []url.Values
	// number of requests received per action
	ActionCalls map[string]int
}

// a table of records served by the fake datastore
type DatastoreTable struct {
	// the total number of records the datastore reports
	Total int
	// the column names reported in result.fields
	Fields []string
	// the records returned (at most limit of them)
	Records []map[string]any
	// if nonzero, datastore requests fail with this status
	FailStatus int
}

// creates and starts a fake portal; call Close when done with it
func NewPortal() *Portal {
	p := &Portal{
		Packages:         make(map[string]map[string]any),
		Resources:        make(map[string]map[string]any),
		Datastore:        make(map[string]DatastoreTable),
		Files:            make(map[string][]byte),
		DatastoreQueries: make([]url.Values, 0),
		ActionCalls:      make(map[string]int),
	}
	router := mux.NewRouter()
	router.HandleFunc("/api/action/datastore_search", p.datastoreSearch).Methods(http.MethodGet)
	router.HandleFunc("/api/3/action/{action}", p.action).Methods(http.MethodGet)
	router.HandleFunc("/files/{name:.+}", p.file).Methods(http.MethodGet)
	p.Server = httptest.NewServer(router)
	return p
}

// shuts down the fake portal
func (p *Portal) Close() {
	p.Server.Close()
}

// the portal's base URL
func (p *Portal) URL() string {
	return p.Server.URL
}

// makes the given bytes downloadable, returning their URL
func (p *Portal) AddFile(name string, data []byte) string {
	p.Files[name] = data
	return fmt.Sprintf("%s/files/%s", p.Server.URL, name)
}

// returns a copy of the datastore queries received so far
func (p *Portal) Queries() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	queries := make([]url.Values, len(p.DatastoreQueries))
	copy(queries, p.DatastoreQueries)
	return queries
}

// returns the number of requests received for the given action
func (p *Portal) Calls(action string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ActionCalls[action]
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	data, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func writeSuccess(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}

func writeFailure(w http.ResponseWriter, code int, errorType, message string) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error": map[string]any{
			"__type":  errorType,
			"message": message,
		},
	})
}

func (p *Portal) file(w http.ResponseWriter, r *http.Request) {
	data, found := p.Files[mux.Vars(r)["name"]]
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

func (p *Portal) datastoreSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	p.mu.Lock()
	p.DatastoreQueries = append(p.DatastoreQueries, query)
	p.mu.Unlock()

	table, found := p.Datastore[query.Get("resource_id")]
	if !found {
		writeFailure(w, http.StatusNotFound, "Not Found Error", "Resource not found")
		return
	}
	if table.FailStatus != 0 {
		writeFailure(w, table.FailStatus, "Internal Error", "datastore unavailable")
		return
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 0 {
		writeFailure(w, http.StatusConflict, "Validation Error", "invalid limit")
		return
	}
	records := table.Records
	if limit < len(records) {
		records = records[:limit]
	}
	fields := make([]map[string]any, len(table.Fields))
	for i, field := range table.Fields {
		fields[i] = map[string]any{"id": field, "type": "text"}
	}
	writeSuccess(w, map[string]any{
		"resource_id": query.Get("resource_id"),
		"fields":      fields,
		"records":     records,
		"limit":       limit,
		"total":       table.Total,
	})
}

// matches the title filter sent by package_search
var titleFilter = regexp.MustCompile(`^title:"(.*)"$`)

func (p *Portal) action(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	query := r.URL.Query()
	p.mu.Lock()
	p.ActionCalls[action]++
	p.mu.Unlock()

	switch action {
	case "resource_show":
		resource, found := p.Resources[query.Get("id")]
		if !found {
			writeFailure(w, http.StatusNotFound, "Not Found Error", "Resource was not found.")
			return
		}
		writeSuccess(w, resource)
	case "package_show":
		pkg, found := p.Packages[query.Get("id")]
		if !found {
			writeFailure(w, http.StatusNotFound, "Not Found Error", "Not found")
			return
		}
		writeSuccess(w, pkg)
	case "package_search":
		rows, _ := strconv.Atoi(query.Get("rows"))
		var title string
		if m := titleFilter.FindStringSubmatch(query.Get("fq")); m != nil {
			title = strings.ToLower(m[1])
		}
		results := make([]map[string]any, 0)
		for _, pkg := range p.sortedPackages() {
			t, _ := pkg["title"].(string)
			if strings.Contains(strings.ToLower(t), title) && len(results) < rows {
				results = append(results, pkg)
			}
		}
		writeSuccess(w, map[string]any{
			"count":   len(results),
			"sort":    "score desc, metadata_modified desc",
			"results": results,
		})
	case "current_package_list_with_resources":
		limit, err := strconv.Atoi(query.Get("limit"))
		if err != nil {
			limit = 10
		}
		packages := p.sortedPackages()
		if limit < len(packages) {
			packages = packages[:limit]
		}
		writeSuccess(w, packages)
	default:
		writeFailure(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("unknown action %s", action))
	}
}

func (p *Portal) sortedPackages() []map[string]any {
	ids := make([]string, 0, len(p.Packages))
	for id := range p.Packages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	packages := make([]map[string]any, len(ids))
	for i, id := range ids {
		packages[i] = p.Packages[id]
	}
	return packages
}
