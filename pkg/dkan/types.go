package dkan

import (
	"encoding/json"
)

// Ref holds a nested metastore value in either of its two on-wire shapes:
// inline, or a {identifier, data} reference envelope when the request asked
// for internal reference ids. The raw JSON is preserved as sent; callers
// branch on IsReference to pick the right accessor.
type Ref[T any] struct {
	raw json.RawMessage
}

// UnmarshalJSON stores the raw value without reshaping it.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0], data...)

	return nil
}

// MarshalJSON round-trips the value exactly as it arrived.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}

	return r.raw, nil
}

// refEnvelope is the {identifier, data} wrapper shape.
type refEnvelope struct {
	Identifier *string         `json:"identifier"`
	Data       json.RawMessage `json:"data"`
}

// IsReference reports whether the value arrived as a reference envelope.
func (r Ref[T]) IsReference() bool {
	_, ok := r.Identifier()

	return ok
}

// Identifier returns the envelope's reference id when the value is a
// reference envelope.
func (r Ref[T]) Identifier() (string, bool) {
	var env refEnvelope
	if err := json.Unmarshal(r.raw, &env); err != nil {
		return "", false
	}

	if env.Identifier == nil || env.Data == nil {
		return "", false
	}

	return *env.Identifier, true
}

// Value decodes the inline shape.
func (r Ref[T]) Value() (T, error) {
	var value T

	err := json.Unmarshal(r.raw, &value)

	return value, err
}

// ReferenceData decodes the data payload of a reference envelope.
func (r Ref[T]) ReferenceData() (T, error) {
	var value T

	var env refEnvelope
	if err := json.Unmarshal(r.raw, &env); err != nil {
		return value, err
	}

	err := json.Unmarshal(env.Data, &value)

	return value, err
}

// Raw returns the value exactly as the server sent it.
func (r Ref[T]) Raw() json.RawMessage {
	return r.raw
}

// Dataset represents a DCAT-US dataset record.
type Dataset struct {
	Identifier   string              `json:"identifier"             yaml:"identifier"`
	Title        string              `json:"title"                  yaml:"title"`
	Description  string              `json:"description"            yaml:"description"`
	AccessLevel  string              `json:"accessLevel"            yaml:"accessLevel"`
	Modified     string              `json:"modified"               yaml:"modified"`
	Issued       string              `json:"issued,omitempty"       yaml:"issued,omitempty"`
	License      string              `json:"license,omitempty"      yaml:"license,omitempty"`
	Keyword      []Ref[string]       `json:"keyword,omitempty"      yaml:"-"`
	Theme        []Ref[string]       `json:"theme,omitempty"        yaml:"-"`
	Publisher    *Ref[Publisher]     `json:"publisher,omitempty"    yaml:"-"`
	ContactPoint *ContactPoint       `json:"contactPoint,omitempty" yaml:"contactPoint,omitempty"`
	Distribution []Ref[Distribution] `json:"distribution,omitempty" yaml:"-"`
	DescribedBy  string              `json:"describedBy,omitempty"  yaml:"describedBy,omitempty"`
	Type         string              `json:"@type,omitempty"        yaml:"-"`
}

// Distribution represents one downloadable resource attached to a dataset.
type Distribution struct {
	Title       string `json:"title,omitempty"       yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Format      string `json:"format,omitempty"      yaml:"format,omitempty"`
	MediaType   string `json:"mediaType,omitempty"   yaml:"mediaType,omitempty"`
	DownloadURL string `json:"downloadURL,omitempty" yaml:"downloadURL,omitempty"`
	AccessURL   string `json:"accessURL,omitempty"   yaml:"accessURL,omitempty"`
	DescribedBy string `json:"describedBy,omitempty" yaml:"describedBy,omitempty"`
	Type        string `json:"@type,omitempty"       yaml:"-"`
}

// Publisher represents the publishing organization of a dataset.
type Publisher struct {
	Name             string `json:"name"                       yaml:"name"`
	SubOrganizationOf string `json:"subOrganizationOf,omitempty" yaml:"subOrganizationOf,omitempty"`
	Type             string `json:"@type,omitempty"            yaml:"-"`
}

// ContactPoint represents dataset contact information.
type ContactPoint struct {
	FN       string `json:"fn"              yaml:"fn"`
	HasEmail string `json:"hasEmail"        yaml:"hasEmail"`
	Type     string `json:"@type,omitempty" yaml:"-"`
}

// SearchResponse represents the /api/1/search response. The upstream total
// may arrive as a numeric string and results as an id-keyed object; both are
// normalized on decode.
type SearchResponse struct {
	Total   int       `json:"total"            yaml:"total"`
	Results []Dataset `json:"results"          yaml:"results"`
	Facets  []Facet   `json:"facets,omitempty" yaml:"facets,omitempty"`
}

// UnmarshalJSON normalizes the upstream search shape.
func (s *SearchResponse) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Total   json.RawMessage `json:"total"`
		Results json.RawMessage `json:"results"`
		Facets  []Facet         `json:"facets"`
	}

	err := json.Unmarshal(data, &envelope)
	if err != nil {
		return err
	}

	total, err := CoerceCount(envelope.Total)
	if err != nil {
		return err
	}

	results, err := DecodeItems[Dataset](envelope.Results)
	if err != nil {
		return err
	}

	s.Total = total
	s.Results = results
	s.Facets = envelope.Facets

	return nil
}

// Facet represents one aggregated facet from /api/1/search/facets.
type Facet struct {
	Type   string       `json:"type"   yaml:"type"`
	Name   string       `json:"name,omitempty" yaml:"name,omitempty"`
	Values []FacetValue `json:"values" yaml:"values"`
	Total  *FlexCount   `json:"total,omitempty" yaml:"total,omitempty"`
}

// FacetValue is one facet entry, sent upstream either as a bare string or as
// a {value, count} object.
type FacetValue struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// UnmarshalJSON accepts both facet value shapes.
func (v *FacetValue) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		v.Value = bare
		v.Count = 0

		return nil
	}

	type alias FacetValue

	var full alias

	err := json.Unmarshal(data, &full)
	if err != nil {
		return err
	}

	*v = FacetValue(full)

	return nil
}

// FacetCollection is the flattened, fixed-shape facet record. Each known
// facet type always maps to a non-nil slice.
type FacetCollection struct {
	Theme     []string `json:"theme"     yaml:"theme"`
	Keyword   []string `json:"keyword"   yaml:"keyword"`
	Publisher []string `json:"publisher" yaml:"publisher"`
}

// FlexCount is an integer that tolerates the numeric-string form DKAN emits
// in some responses.
type FlexCount int

// UnmarshalJSON accepts a JSON number or a base-10 numeric string.
func (c *FlexCount) UnmarshalJSON(data []byte) error {
	n, err := CoerceCount(data)
	if err != nil {
		return err
	}

	*c = FlexCount(n)

	return nil
}

// DatastoreQueryResponse represents a datastore query result.
type DatastoreQueryResponse struct {
	Results []map[string]interface{} `json:"results"          yaml:"results"`
	Count   FlexCount                `json:"count"            yaml:"count"`
	Schema  map[string]TableSchema   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Query   json.RawMessage          `json:"query,omitempty"  yaml:"-"`
}

// TableSchema describes one datastore resource's columns.
type TableSchema struct {
	Fields map[string]TableField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// TableField describes one datastore column.
type TableField struct {
	Type        string `json:"type,omitempty"        yaml:"type,omitempty"`
	Length      int    `json:"length,omitempty"      yaml:"length,omitempty"`
	MySQLType   string `json:"mysql_type,omitempty"  yaml:"mysql_type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// HarvestPlan represents a registered harvest source configuration.
type HarvestPlan struct {
	Identifier string               `json:"identifier"           yaml:"identifier"`
	Extract    HarvestExtractConfig `json:"extract"              yaml:"extract"`
	Transforms []string             `json:"transforms,omitempty" yaml:"transforms,omitempty"`
	Load       HarvestLoadConfig    `json:"load"                 yaml:"load"`
}

// HarvestExtractConfig describes where harvested records come from.
type HarvestExtractConfig struct {
	Type string `json:"type" yaml:"type"`
	URI  string `json:"uri"  yaml:"uri"`
}

// HarvestLoadConfig describes the load target for harvested records.
type HarvestLoadConfig struct {
	Type string `json:"type" yaml:"type"`
}

// HarvestRun represents one execution of a harvest plan.
type HarvestRun struct {
	Identifier string           `json:"identifier"       yaml:"identifier"`
	Status     HarvestRunStatus `json:"status"           yaml:"status"`
	Error      string           `json:"error,omitempty"  yaml:"error,omitempty"`
}

// HarvestRunStatus carries per-phase execution statistics.
type HarvestRunStatus struct {
	Extract string                 `json:"extract,omitempty"         yaml:"extract,omitempty"`
	Load    map[string]string      `json:"load,omitempty"            yaml:"load,omitempty"`
	Extra   map[string]interface{} `json:"extracted_items_ids,omitempty" yaml:"-"`
}

// DataDictionary represents a metastore data dictionary with a
// Frictionless-style table schema.
type DataDictionary struct {
	Identifier string             `json:"identifier" yaml:"identifier"`
	Title      string             `json:"title,omitempty" yaml:"title,omitempty"`
	Data       DataDictionaryData `json:"data"       yaml:"data"`
}

// DataDictionaryData holds the table schema body.
type DataDictionaryData struct {
	Title   string            `json:"title,omitempty"   yaml:"title,omitempty"`
	Fields  []DictionaryField `json:"fields"            yaml:"fields"`
	Indexes []DictionaryIndex `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// DictionaryField describes one column of a data dictionary.
type DictionaryField struct {
	Name        string                 `json:"name"                  yaml:"name"`
	Title       string                 `json:"title,omitempty"       yaml:"title,omitempty"`
	Type        DictionaryFieldType    `json:"type"                  yaml:"type"`
	Format      string                 `json:"format,omitempty"      yaml:"format,omitempty"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Constraints map[string]interface{} `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// DictionaryFieldType enumerates the Frictionless table-schema field types.
type DictionaryFieldType string

// Frictionless table-schema field types.
const (
	FieldTypeString    DictionaryFieldType = "string"
	FieldTypeNumber    DictionaryFieldType = "number"
	FieldTypeInteger   DictionaryFieldType = "integer"
	FieldTypeBoolean   DictionaryFieldType = "boolean"
	FieldTypeObject    DictionaryFieldType = "object"
	FieldTypeArray     DictionaryFieldType = "array"
	FieldTypeDate      DictionaryFieldType = "date"
	FieldTypeTime      DictionaryFieldType = "time"
	FieldTypeDatetime  DictionaryFieldType = "datetime"
	FieldTypeYear      DictionaryFieldType = "year"
	FieldTypeYearMonth DictionaryFieldType = "yearmonth"
	FieldTypeDuration  DictionaryFieldType = "duration"
	FieldTypeGeoPoint  DictionaryFieldType = "geopoint"
	FieldTypeGeoJSON   DictionaryFieldType = "geojson"
	FieldTypeAny       DictionaryFieldType = "any"
)

// DictionaryIndex describes a datastore index over dictionary fields.
type DictionaryIndex struct {
	Fields []DictionaryIndexField `json:"fields"         yaml:"fields"`
	Type   string                 `json:"type,omitempty" yaml:"type,omitempty"`
}

// DictionaryIndexField references a dictionary field by name.
type DictionaryIndexField struct {
	Name   string `json:"name"             yaml:"name"`
	Length int    `json:"length,omitempty" yaml:"length,omitempty"`
}

// ImportStatus represents one datastore import's state.
type ImportStatus struct {
	FileName          string `json:"fileName,omitempty"          yaml:"fileName,omitempty"`
	FileFetcherStatus string `json:"fileFetcherStatus,omitempty" yaml:"fileFetcherStatus,omitempty"`
	FileFetcherBytes  int64  `json:"fileFetcherBytes,omitempty"  yaml:"fileFetcherBytes,omitempty"`
	ImporterStatus    string `json:"importerStatus,omitempty"    yaml:"importerStatus,omitempty"`
	ImporterBytes     int64  `json:"importerBytes,omitempty"     yaml:"importerBytes,omitempty"`
	ImporterError     string `json:"importerError,omitempty"     yaml:"importerError,omitempty"`
}

// Import states reported by the datastore importer.
const (
	ImportStatusDone       = "done"
	ImportStatusInProgress = "in_progress"
	ImportStatusWaiting    = "waiting"
	ImportStatusError      = "error"
)

// Revision represents one metastore item revision.
type Revision struct {
	Identifier string `json:"identifier"          yaml:"identifier"`
	Published  bool   `json:"published"           yaml:"published"`
	Message    string `json:"message,omitempty"   yaml:"message,omitempty"`
	Modified   string `json:"modified,omitempty"  yaml:"modified,omitempty"`
	State      string `json:"state,omitempty"     yaml:"state,omitempty"`
}

// RevisionRequest creates a new revision for a metastore item.
type RevisionRequest struct {
	Message string `json:"message" yaml:"message"`
	State   string `json:"state"   yaml:"state"`
}

// Revision workflow states.
const (
	RevisionStateDraft     = "draft"
	RevisionStatePublished = "published"
	RevisionStateArchived  = "archived"
	RevisionStateHidden    = "hidden"
)

// MetastoreWriteResponse is returned by metastore create/update/patch/delete.
type MetastoreWriteResponse struct {
	Endpoint   string `json:"endpoint,omitempty"   yaml:"endpoint,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Message    string `json:"message,omitempty"    yaml:"message,omitempty"`
}

// CKANResponse is the legacy /api/3/action envelope. Result payloads are kept
// raw so legacy callers see exactly what the shim returned.
type CKANResponse struct {
	Help    string          `json:"help,omitempty"    yaml:"help,omitempty"`
	Success bool            `json:"success"           yaml:"success"`
	Result  json.RawMessage `json:"result"            yaml:"-"`
}

// DecodeResult decodes the envelope's result payload into out.
func (r *CKANResponse) DecodeResult(out interface{}) error {
	return json.Unmarshal(r.Result, out)
}
