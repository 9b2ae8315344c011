package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchClient_Search(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/1/search", request.URL.Path)

		query := request.URL.Query()
		assert.Equal(t, "water", query.Get("fulltext"))
		assert.Equal(t, []string{"modified", "title"}, query["sort"])
		assert.Equal(t, "desc", query.Get("sort-order"))
		assert.Equal(t, "2", query.Get("page"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"total": 1, "results": [{"identifier":"abc-123","title":"Water Quality"}]}`))
	}))

	params := dkan.NewSearchParams().
		WithFulltext("water").
		WithSort("modified", "title").
		WithSortOrder("desc").
		WithPage(2)

	resp, err := dkanClient.Search().Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Water Quality", resp.Results[0].Title)
}

func TestSearchClient_SearchNilParams(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Empty(t, request.URL.RawQuery)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"total": 0, "results": []}`))
	}))

	resp, err := dkanClient.Search().Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
}

func TestSearchClient_Facets(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/1/search/facets", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"facets": [
				{"type": "theme", "values": ["Health", {"value": "Transportation", "count": 3}]},
				{"type": "keyword", "values": ["csv"]}
			]
		}`))
	}))

	facets, err := dkanClient.Search().Facets(context.Background())
	require.NoError(t, err)
	require.Len(t, facets, 2)
	assert.Equal(t, "theme", facets[0].Type)
	require.Len(t, facets[0].Values, 2)
	assert.Equal(t, "Health", facets[0].Values[0].Value)
	assert.Equal(t, "Transportation", facets[0].Values[1].Value)
	assert.Equal(t, 3, facets[0].Values[1].Count)
}

func TestSearchClient_FlattenedFacets(t *testing.T) {
	t.Parallel()

	dkanClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"facets": [
				{"type": "theme", "values": ["Health"]},
				{"type": "keyword", "values": ["csv", "open data"]},
				{"type": "publisher__name", "values": ["State of Demo"]}
			]
		}`))
	}))

	collection, err := dkanClient.Search().FlattenedFacets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Health"}, collection.Theme)
	assert.Equal(t, []string{"csv", "open data"}, collection.Keyword)
	assert.Equal(t, []string{"State of Demo"}, collection.Publisher)
}
