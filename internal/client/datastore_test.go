package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatastoreClient_Query(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/1/datastore/query/abc-123/0", request.URL.Path)

		var body dkan.DatastoreQueryOptions
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, 10, body.Limit)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"results": [{"state":"CA","year":"2024"}], "count": 1}`))
	}))

	resp, err := dkanClient.Datastore().Query(context.Background(), "abc-123", 0, &dkan.DatastoreQueryOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, dkan.FlexCount(1), resp.Count)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "CA", resp.Results[0]["state"])
}

func TestDatastoreClient_QueryStringCount(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"results": [], "count": "42"}`))
	}))

	resp, err := dkanClient.Datastore().Query(context.Background(), "abc-123", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, dkan.FlexCount(42), resp.Count)
}

func TestDatastoreClient_QueryGet(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "5", request.URL.Query().Get("limit"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"results": [], "count": 0}`))
	}))

	_, err := dkanClient.Datastore().QueryGet(context.Background(), "abc-123", 0, &dkan.DatastoreQueryOptions{Limit: 5})
	require.NoError(t, err)
}

func TestDatastoreClient_QueryAll(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/1/datastore/query", request.URL.Path)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"results": [], "count": 0}`))
	}))

	_, err := dkanClient.Datastore().QueryAll(context.Background(), &dkan.DatastoreQueryOptions{Limit: 1})
	require.NoError(t, err)
}

func TestDatastoreClient_Schema(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "true", request.URL.Query().Get("schema"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"results": [],
			"count": 0,
			"schema": {"res-1": {"fields": {"state": {"type": "text"}}}}
		}`))
	}))

	resp, err := dkanClient.Datastore().Schema(context.Background(), "abc-123", 0)
	require.NoError(t, err)
	require.Contains(t, resp.Schema, "res-1")
	assert.Contains(t, resp.Schema["res-1"].Fields, "state")
}

func TestDatastoreClient_SQL(t *testing.T) {
	t.Parallel()

	t.Run("default GET delivery", func(t *testing.T) {
		t.Parallel()

		dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "/api/1/datastore/sql", request.URL.Path)
			assert.Equal(t, "[SELECT * FROM abc-123];", request.URL.Query().Get("query"))

			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`[{"state":"CA"},{"state":"NY"}]`))
		}))

		rows, err := dkanClient.Datastore().SQL(context.Background(), "[SELECT * FROM abc-123];", nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "CA", rows[0]["state"])
	})

	t.Run("POST delivery with db columns", func(t *testing.T) {
		t.Parallel()

		dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "[SELECT * FROM abc-123];", body["query"])
			assert.Equal(t, true, body["show_db_columns"])

			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`[]`))
		}))

		opts := &dkan.SQLOptions{UsePost: true, ShowDBColumns: true}

		_, err := dkanClient.Datastore().SQL(context.Background(), "[SELECT * FROM abc-123];", opts)
		require.NoError(t, err)
	})

	t.Run("empty statement", func(t *testing.T) {
		t.Parallel()

		dkanClient := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("no request expected")
		}))

		_, err := dkanClient.Datastore().SQL(context.Background(), "", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, dkan.ErrQueryRequired)
	})
}

func TestDatastoreClient_Download(t *testing.T) {
	t.Parallel()

	csv := "state,year\nCA,2024\nNY,2023\n"

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/1/datastore/query/abc-123/0/download", request.URL.Path)
		assert.Equal(t, "csv", request.URL.Query().Get("format"))

		writer.Header().Set("Content-Type", "text/csv")
		_, _ = writer.Write([]byte(csv))
	}))

	data, err := dkanClient.Datastore().Download(context.Background(), "abc-123", 0, nil)
	require.NoError(t, err)

	// The body comes back verbatim, untouched by JSON handling
	assert.Equal(t, csv, string(data))
}
