package datastore

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opendatato/opendatato/portal"
	"github.com/opendatato/opendatato/portaltest"
)

func newReader(p *portaltest.Portal) *Reader {
	client := portal.SecureHttpClient(5 * time.Second)
	return NewReader(p.URL(), &client)
}

func TestReadAllQueriesTotalThenEverything(t *testing.T) {
	assert := assert.New(t)
	p := portaltest.NewPortal()
	defer p.Close()

	const total = 5733
	records := make([]map[string]any, total)
	for i := range records {
		records[i] = map[string]any{"_id": i + 1, "ward": "Ward 10", "count": 2.5}
	}
	p.Datastore["pickup"] = portaltest.DatastoreTable{
		Total:   total,
		Fields:  []string{"_id", "ward", "count"},
		Records: records,
	}

	frame, err := newReader(p).ReadAll(context.Background(), "pickup")
	assert.Nil(err)
	assert.Equal([]string{"_id", "ward", "count"}, frame.Columns)
	assert.Equal(total, frame.NumRows())
	assert.Equal([]any{int64(1), "Ward 10", 2.5}, frame.Rows[0])

	queries := p.Queries()
	assert.Len(queries, 2)
	assert.Equal("pickup", queries[0].Get("resource_id"))
	assert.Equal("1", queries[0].Get("limit"))
	assert.Equal("pickup", queries[1].Get("resource_id"))
	assert.Equal("5733", queries[1].Get("limit"))
}

func TestReadAllReplacesNulls(t *testing.T) {
	assert := assert.New(t)
	p := portaltest.NewPortal()
	defer p.Close()
	p.Datastore["sparse"] = portaltest.DatastoreTable{
		Total:  2,
		Fields: []string{"name", "notes"},
		Records: []map[string]any{
			{"name": "a", "notes": nil},
			{"name": nil},
		},
	}

	frame, err := newReader(p).ReadAll(context.Background(), "sparse")
	assert.Nil(err)
	assert.Equal([][]any{{"a", ""}, {"", ""}}, frame.Rows)
}

func TestReadAllWithoutFieldList(t *testing.T) {
	p := portaltest.NewPortal()
	defer p.Close()
	p.Datastore["bare"] = portaltest.DatastoreTable{
		Total:   1,
		Records: []map[string]any{{"b": "x", "a": 1}},
	}

	frame, err := newReader(p).ReadAll(context.Background(), "bare")
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, frame.Columns)
	assert.Equal(t, [][]any{{int64(1), "x"}}, frame.Rows)
}

func TestReadAllFailures(t *testing.T) {
	assert := assert.New(t)
	p := portaltest.NewPortal()
	defer p.Close()
	p.Datastore["down"] = portaltest.DatastoreTable{
		Total:      1,
		FailStatus: http.StatusInternalServerError,
	}
	reader := newReader(p)

	_, err := reader.ReadAll(context.Background(), "down")
	var remoteErr *portal.RemoteServiceError
	assert.True(errors.As(err, &remoteErr))
	assert.Equal(http.StatusInternalServerError, remoteErr.StatusCode)
	// no retries
	assert.Len(p.Queries(), 1)

	_, err = reader.ReadAll(context.Background(), "absent")
	assert.True(errors.As(err, &remoteErr))
	assert.Equal(http.StatusNotFound, remoteErr.StatusCode)
}
