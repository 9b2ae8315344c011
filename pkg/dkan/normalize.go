package dkan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DecodeItems decodes a DKAN list payload into an ordered slice. Several list
// endpoints return a JSON array in some site configurations and an id-keyed
// object in others; an object is converted to a slice in its key order. Null
// and non-container values yield an empty slice.
func DecodeItems[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []T

		err := json.Unmarshal(trimmed, &items)
		if err != nil {
			return nil, fmt.Errorf("decoding item array: %w", err)
		}

		if items == nil {
			items = []T{}
		}

		return items, nil
	case '{':
		return decodeKeyedItems[T](trimmed)
	default:
		return []T{}, nil
	}
}

// decodeKeyedItems walks an id-keyed object token by token so the slice keeps
// the object's key order. A plain map unmarshal would lose it.
func decodeKeyedItems[T any](data []byte) ([]T, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	// Opening brace.
	_, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding keyed items: %w", err)
	}

	items := []T{}

	for decoder.More() {
		// Key token is discarded; only ordering matters.
		_, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding item key: %w", err)
		}

		var item T

		err = decoder.Decode(&item)
		if err != nil {
			return nil, fmt.Errorf("decoding item value: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

// CoerceCount normalizes a count field that may arrive as a JSON number or a
// base-10 numeric string.
func CoerceCount(data []byte) (int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		n, err := strconv.ParseInt(asString, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing count %q: %w", asString, err)
		}

		return int(n), nil
	}

	var asNumber float64

	err := json.Unmarshal(trimmed, &asNumber)
	if err != nil {
		return 0, fmt.Errorf("parsing count: %w", err)
	}

	return int(asNumber), nil
}

// Facet types surfaced in the flattened collection. Anything else the server
// sends is dropped.
const (
	FacetTypeTheme     = "theme"
	FacetTypeKeyword   = "keyword"
	FacetTypePublisher = "publisher"
)

// FlattenFacets reduces the facet list to a fixed-shape record with exactly
// the theme, keyword, and publisher facet types. Known types missing from the
// input still map to empty slices.
func FlattenFacets(facets []Facet) FacetCollection {
	collection := FacetCollection{
		Theme:     []string{},
		Keyword:   []string{},
		Publisher: []string{},
	}

	for _, facet := range facets {
		values := make([]string, 0, len(facet.Values))
		for _, value := range facet.Values {
			values = append(values, value.Value)
		}

		switch facet.Type {
		case FacetTypeTheme:
			collection.Theme = append(collection.Theme, values...)
		case FacetTypeKeyword:
			collection.Keyword = append(collection.Keyword, values...)
		case FacetTypePublisher, "publisher__name":
			collection.Publisher = append(collection.Publisher, values...)
		}
	}

	return collection
}
