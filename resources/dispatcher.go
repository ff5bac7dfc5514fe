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

// Package resources retrieves a resource's payload from the portal and
// decodes it into a normalized value, whatever format the portal serves it in.
package resources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/opendatato/opendatato/archives"
	"github.com/opendatato/opendatato/data"
	"github.com/opendatato/opendatato/decoders"
	"github.com/opendatato/opendatato/formats"
	"github.com/opendatato/opendatato/portal"
	"github.com/opendatato/opendatato/scratch"
)

// A RecordReader reads every record of a live-indexed resource.
type RecordReader interface {
	ReadAll(ctx context.Context, resourceId string) (*data.Frame, error)
}

// The Dispatcher decides how to retrieve a resource from its metadata and
// carries out the retrieval. Each fetch is sequential and self-contained:
// temporary files live under TempDir only for the duration of the call.
type Dispatcher struct {
	// resolves resource identifiers to metadata
	Catalog portal.Catalog
	// reads live-indexed resources
	Datastore RecordReader
	// downloads resource payloads
	Client *http.Client
	// directory holding temporary artifacts (os.TempDir() if empty)
	TempDir string
	// the portal's web site, named in unsupported-format errors
	Website string
}

// Fetch resolves the given resource's metadata through the catalog and
// retrieves its payload. Catalog failures are returned unchanged.
func (d *Dispatcher) Fetch(ctx context.Context, resourceId string) (data.Value, error) {
	resource, err := d.Catalog.ResourceMetadata(ctx, resourceId)
	if err != nil {
		return nil, err
	}
	return d.FetchResource(ctx, resource)
}

// FetchResource retrieves the payload of a resource whose metadata is already
// known. Live-indexed resources are read from the datastore regardless of
// their format; everything else is downloaded and decoded according to its
// format.
func (d *Dispatcher) FetchResource(ctx context.Context, resource portal.Resource) (data.Value, error) {
	f := fetch{
		Dispatcher: d,
		Id:         uuid.NewString(),
		Resource:   resource,
	}
	if resource.DatastoreActive {
		if d.Datastore == nil {
			return nil, fmt.Errorf("Resource %s is live-indexed but no datastore reader is configured",
				resource.Id)
		}
		f.debug("reading records from datastore")
		return d.Datastore.ReadAll(ctx, resource.Id)
	}

	kind := formats.Parse(resource.Format)
	switch {
	case kind.IsTerminal():
		f.debug(fmt.Sprintf("downloading %s file", kind))
		return f.file(ctx, kind)
	case kind == formats.SHP:
		f.debug("downloading zipped shapefile")
		return f.shapefile(ctx)
	case kind.IsContainer():
		f.debug(fmt.Sprintf("downloading %s archive", kind))
		return f.archive(ctx, kind)
	default:
		return nil, &portal.UnsupportedFormatError{
			Format:  resource.Format,
			Website: d.Website,
		}
	}
}

// the state of a single retrieval
type fetch struct {
	*Dispatcher
	// unique identifier for this retrieval, used in temporary names and logs
	Id       string
	Resource portal.Resource
}

func (f fetch) debug(msg string) {
	slog.Debug(fmt.Sprintf("Resource %s: %s", f.Resource.Id, msg), "fetch", f.Id)
}

// downloads the resource's payload into a temporary file with the given
// kind's extension; the caller must Close the file
func (f fetch) download(ctx context.Context, kind formats.Kind) (*scratch.File, error) {
	file, err := scratch.NewFile(f.TempDir, fmt.Sprintf("resource-%s-*%s", f.Id, kind.Extension()))
	if err != nil {
		return nil, err
	}
	w, err := file.Create()
	if err != nil {
		file.Close()
		return nil, err
	}
	n, err := portal.Download(ctx, f.Client, f.Resource.Url, w)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		file.Close()
		return nil, err
	}
	f.debug(fmt.Sprintf("downloaded %d bytes to %s", n, file.Path()))
	return file, nil
}

// retrieves a resource held in a single file of a terminal kind
func (f fetch) file(ctx context.Context, kind formats.Kind) (data.Value, error) {
	file, err := f.download(ctx, kind)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return decoders.Decode(file.Path(), kind)
}

// retrieves a zipped shapefile bundle, which must hold exactly one .shp member
func (f fetch) shapefile(ctx context.Context) (data.Value, error) {
	file, err := f.download(ctx, formats.ZIP)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	dir, err := archives.ExtractToScratch(file.Path(), formats.ZIP, f.TempDir)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	members, err := archives.Members(dir.Path())
	if err != nil {
		return nil, err
	}
	shapefiles := make([]string, 0, 1)
	for _, member := range members {
		if formats.FromFileName(member) == formats.SHP {
			shapefiles = append(shapefiles, member)
		}
	}
	if len(shapefiles) != 1 {
		return nil, &portal.ExtractionError{
			Archive: filepath.Base(file.Path()),
			Kind:    formats.ZIP.String(),
			Message: fmt.Sprintf("expected exactly one .shp member, found %d", len(shapefiles)),
		}
	}
	return decoders.Decode(filepath.Join(dir.Path(), filepath.FromSlash(shapefiles[0])), formats.SHP)
}

// retrieves an archive, decoding every member by its own extension
func (f fetch) archive(ctx context.Context, kind formats.Kind) (data.Value, error) {
	file, err := f.download(ctx, kind)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	dir, err := archives.ExtractToScratch(file.Path(), kind, f.TempDir)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	names, err := archives.Members(dir.Path())
	if err != nil {
		return nil, err
	}

	// Every member must be decodable before any is decoded: one unsupported
	// member fails the whole archive rather than yielding a partial result.
	kinds := make(map[string]formats.Kind, len(names))
	for _, name := range names {
		memberKind := formats.FromFileName(name)
		if !memberKind.IsDecodable() {
			return nil, &portal.UnsupportedFormatError{
				Format:  strings.TrimPrefix(filepath.Ext(name), "."),
				Member:  name,
				Website: f.Website,
			}
		}
		kinds[name] = memberKind
	}

	members := make(data.Members, len(names))
	for _, name := range names {
		value, err := decoders.Decode(filepath.Join(dir.Path(), filepath.FromSlash(name)), kinds[name])
		if err != nil {
			return nil, err
		}
		members[name] = value
	}
	f.debug(fmt.Sprintf("decoded %d archive members", len(members)))
	return members, nil
}
