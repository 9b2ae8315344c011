package dkan

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// SearchParams expresses /api/1/search filter options. Zero-valued fields are
// omitted from the query string entirely; Sort and SortOrder expand to one
// repeated parameter per element.
type SearchParams struct {
	Fulltext  string
	Keyword   string
	Theme     string
	Sort      []string
	SortOrder []string
	Page      int
	PageSize  int
}

// NewSearchParams creates empty search parameters.
func NewSearchParams() *SearchParams {
	return &SearchParams{}
}

// WithFulltext sets the fulltext filter.
func (p *SearchParams) WithFulltext(fulltext string) *SearchParams {
	p.Fulltext = fulltext

	return p
}

// WithKeyword sets the keyword filter.
func (p *SearchParams) WithKeyword(keyword string) *SearchParams {
	p.Keyword = keyword

	return p
}

// WithTheme sets the theme filter.
func (p *SearchParams) WithTheme(theme string) *SearchParams {
	p.Theme = theme

	return p
}

// WithSort appends a sort field.
func (p *SearchParams) WithSort(fields ...string) *SearchParams {
	p.Sort = append(p.Sort, fields...)

	return p
}

// WithSortOrder appends a sort order (asc or desc).
func (p *SearchParams) WithSortOrder(orders ...string) *SearchParams {
	p.SortOrder = append(p.SortOrder, orders...)

	return p
}

// WithPage sets the result page.
func (p *SearchParams) WithPage(page int) *SearchParams {
	p.Page = page

	return p
}

// WithPageSize sets the page size.
func (p *SearchParams) WithPageSize(size int) *SearchParams {
	p.PageSize = size

	return p
}

// ToValues converts the parameters to url.Values.
func (p *SearchParams) ToValues() url.Values {
	values := url.Values{}

	if p.Fulltext != "" {
		values.Set("fulltext", p.Fulltext)
	}

	if p.Keyword != "" {
		values.Set("keyword", p.Keyword)
	}

	if p.Theme != "" {
		values.Set("theme", p.Theme)
	}

	for _, field := range p.Sort {
		values.Add("sort", field)
	}

	for _, order := range p.SortOrder {
		values.Add("sort-order", order)
	}

	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}

	if p.PageSize > 0 {
		values.Set("page-size", strconv.Itoa(p.PageSize))
	}

	return values
}

// GetOptions controls metastore item reads.
type GetOptions struct {
	// ShowReferenceIDs asks the server to wrap nested fields in
	// {identifier, data} envelopes. Sent as a bare query flag.
	ShowReferenceIDs bool
}

// Flags returns the bare query flags for these options.
func (o *GetOptions) Flags() []string {
	if o != nil && o.ShowReferenceIDs {
		return []string{"show-reference-ids"}
	}

	return nil
}

// DatastoreCondition filters datastore rows by property.
type DatastoreCondition struct {
	Property string      `json:"property"           yaml:"property"`
	Value    interface{} `json:"value"              yaml:"value"`
	Operator string      `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// DatastoreSort orders datastore rows.
type DatastoreSort struct {
	Property string `json:"property" yaml:"property"`
	Order    string `json:"order"    yaml:"order"`
}

// DatastoreResource names one resource participating in a multi-resource query.
type DatastoreResource struct {
	ID    string `json:"id"              yaml:"id"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// DatastoreJoin joins two resources in a multi-resource query.
type DatastoreJoin struct {
	Resource  string               `json:"resource"  yaml:"resource"`
	Condition []DatastoreCondition `json:"condition" yaml:"condition"`
}

// DatastoreQueryOptions expresses a structured datastore query. It serializes
// as a JSON body under POST (the default) and as query-string parameters
// under GET.
type DatastoreQueryOptions struct {
	Limit      int                  `json:"limit,omitempty"      yaml:"limit,omitempty"`
	Offset     int                  `json:"offset,omitempty"     yaml:"offset,omitempty"`
	Properties []string             `json:"properties,omitempty" yaml:"properties,omitempty"`
	Conditions []DatastoreCondition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Sorts      []DatastoreSort      `json:"sorts,omitempty"      yaml:"sorts,omitempty"`
	Resources  []DatastoreResource  `json:"resources,omitempty"  yaml:"resources,omitempty"`
	Joins      []DatastoreJoin      `json:"joins,omitempty"      yaml:"joins,omitempty"`
	Count      *bool                `json:"count,omitempty"      yaml:"count,omitempty"`
	Results    *bool                `json:"results,omitempty"    yaml:"results,omitempty"`
	Schema     *bool                `json:"schema,omitempty"     yaml:"schema,omitempty"`
	Keys       *bool                `json:"keys,omitempty"       yaml:"keys,omitempty"`
}

// ToValues flattens the options into query-string parameters for GET
// delivery. Non-scalar values are JSON-encoded, matching how the download
// endpoints expect structured options on the URL.
func (o *DatastoreQueryOptions) ToValues() url.Values {
	values := url.Values{}

	if o == nil {
		return values
	}

	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}

	if o.Offset > 0 {
		values.Set("offset", strconv.Itoa(o.Offset))
	}

	setJSONValue(values, "properties", o.Properties)
	setJSONValue(values, "conditions", o.Conditions)
	setJSONValue(values, "sorts", o.Sorts)
	setJSONValue(values, "resources", o.Resources)
	setJSONValue(values, "joins", o.Joins)
	setBoolValue(values, "count", o.Count)
	setBoolValue(values, "results", o.Results)
	setBoolValue(values, "schema", o.Schema)
	setBoolValue(values, "keys", o.Keys)

	return values
}

func setJSONValue(values url.Values, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil || string(data) == "null" {
		return
	}

	values.Set(key, string(data))
}

func setBoolValue(values url.Values, key string, value *bool) {
	if value == nil {
		return
	}

	values.Set(key, strconv.FormatBool(*value))
}

// Download formats accepted by the datastore download endpoints.
const (
	DownloadFormatCSV  = "csv"
	DownloadFormatJSON = "json"
)

// DownloadOptions controls datastore query downloads.
type DownloadOptions struct {
	// Format of the downloaded payload; csv when empty.
	Format string

	// Query narrows the downloaded rows with the same structured options as
	// a datastore query.
	Query *DatastoreQueryOptions
}

// ToValues converts the download options to url.Values.
func (o *DownloadOptions) ToValues() url.Values {
	values := url.Values{}

	format := DownloadFormatCSV

	if o != nil {
		if o.Format != "" {
			format = o.Format
		}

		if o.Query != nil {
			values = o.Query.ToValues()
		}
	}

	values.Set("format", format)

	return values
}

// Bool returns a pointer to the given bool, for the optional toggles above.
func Bool(value bool) *bool {
	return &value
}
