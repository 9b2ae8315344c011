package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dcgoodwin2112/dkan-client-go/internal/client"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient spins up an httptest server around handler and returns a
// client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) dkan.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dkanClient, err := client.New(&dkan.Config{BaseURL: server.URL})
	require.NoError(t, err)

	return dkanClient
}

func writeJSON(t *testing.T, writer http.ResponseWriter, payload interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(writer).Encode(payload))
}

func TestDatasetsClient_Get(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/1/metastore/schemas/dataset/items/abc-123", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		writeJSON(t, writer, dkan.Dataset{Identifier: "abc-123", Title: "Test Dataset"})
	}))

	dataset, err := dkanClient.Datasets().Get(context.Background(), "abc-123", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", dataset.Identifier)
	assert.Equal(t, "Test Dataset", dataset.Title)
}

func TestDatasetsClient_GetWithReferenceIDs(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "show-reference-ids", request.URL.RawQuery)
		writeJSON(t, writer, dkan.Dataset{Identifier: "abc-123"})
	}))

	_, err := dkanClient.Datasets().Get(context.Background(), "abc-123", &dkan.GetOptions{ShowReferenceIDs: true})
	require.NoError(t, err)
}

func TestDatasetsClient_GetRequiresIdentifier(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	}))

	_, err := dkanClient.Datasets().Get(context.Background(), "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dkan.ErrDatasetIDRequired)
}

func TestDatasetsClient_List(t *testing.T) {
	t.Parallel()

	t.Run("array response", func(t *testing.T) {
		t.Parallel()

		dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/1/metastore/schemas/dataset/items", request.URL.Path)
			writeJSON(t, writer, []dkan.Dataset{{Identifier: "a"}, {Identifier: "b"}})
		}))

		datasets, err := dkanClient.Datasets().List(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, datasets, 2)
		assert.Equal(t, "a", datasets[0].Identifier)
	})

	t.Run("id-keyed object response", func(t *testing.T) {
		t.Parallel()

		dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"b": {"identifier":"b"}, "a": {"identifier":"a"}}`))
		}))

		datasets, err := dkanClient.Datasets().List(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, datasets, 2)

		// Object key order is preserved, not sorted
		assert.Equal(t, "b", datasets[0].Identifier)
		assert.Equal(t, "a", datasets[1].Identifier)
	})
}

func TestDatasetsClient_Create(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/1/metastore/schemas/dataset/items", request.URL.Path)

		var dataset dkan.Dataset
		require.NoError(t, json.NewDecoder(request.Body).Decode(&dataset))
		assert.Equal(t, "New Dataset", dataset.Title)

		writer.WriteHeader(http.StatusCreated)
		writeJSON(t, writer, dkan.MetastoreWriteResponse{
			Endpoint:   "/api/1/metastore/schemas/dataset/items/new-id",
			Identifier: "new-id",
		})
	}))

	resp, err := dkanClient.Datasets().Create(context.Background(), &dkan.Dataset{Title: "New Dataset"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", resp.Identifier)
}

func TestDatasetsClient_Update(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Equal(t, "/api/1/metastore/schemas/dataset/items/abc-123", request.URL.Path)
		writeJSON(t, writer, dkan.MetastoreWriteResponse{Identifier: "abc-123"})
	}))

	resp, err := dkanClient.Datasets().Update(context.Background(), "abc-123", &dkan.Dataset{Title: "Updated"})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Identifier)
}

func TestDatasetsClient_Patch(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPatch, request.Method)

		var fields map[string]interface{}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&fields))
		assert.Equal(t, "Patched Title", fields["title"])

		writeJSON(t, writer, dkan.MetastoreWriteResponse{Identifier: "abc-123"})
	}))

	resp, err := dkanClient.Datasets().Patch(context.Background(), "abc-123", map[string]interface{}{"title": "Patched Title"})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Identifier)
}

func TestDatasetsClient_Delete(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodDelete, request.Method)
		assert.Equal(t, "/api/1/metastore/schemas/dataset/items/abc-123", request.URL.Path)
		writeJSON(t, writer, dkan.MetastoreWriteResponse{Message: "Dataset abc-123 has been deleted."})
	}))

	resp, err := dkanClient.Datasets().Delete(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "deleted")
}

func TestDatasetsClient_NotFound(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"message":"Error retrieving metadata: dataset missing not found."}`))
	}))

	_, err := dkanClient.Datasets().Get(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.True(t, dkan.IsNotFound(err))
}
