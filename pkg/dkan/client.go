package dkan

import (
	"context"
	"time"
)

// MetastoreClients provides access to metastore resource clients.
type MetastoreClients interface {
	Datasets() DatasetsClient
	DataDictionaries() DataDictionariesClient
	Schemas() SchemasClient
	Revisions() RevisionsClient
}

// DatastoreClients provides access to datastore resource clients.
type DatastoreClients interface {
	Datastore() DatastoreClient
	Imports() ImportsClient
}

// DiscoveryClients provides access to search and facet clients.
type DiscoveryClients interface {
	Search() SearchClient
}

// OperationsClients provides access to harvest and legacy compatibility clients.
type OperationsClients interface {
	Harvests() HarvestsClient
	CKAN() CKANClient
}

// Client is the full DKAN API surface.
type Client interface {
	MetastoreClients
	DatastoreClients
	DiscoveryClients
	OperationsClients
}

// DatasetsClient operates on metastore dataset items.
type DatasetsClient interface {
	Get(ctx context.Context, identifier string, opts *GetOptions) (*Dataset, error)
	List(ctx context.Context, opts *GetOptions) ([]Dataset, error)
	Create(ctx context.Context, dataset *Dataset) (*MetastoreWriteResponse, error)
	Update(ctx context.Context, identifier string, dataset *Dataset) (*MetastoreWriteResponse, error)
	Patch(ctx context.Context, identifier string, fields map[string]interface{}) (*MetastoreWriteResponse, error)
	Delete(ctx context.Context, identifier string) (*MetastoreWriteResponse, error)
}

// SearchClient runs catalog searches and facet lookups.
type SearchClient interface {
	Search(ctx context.Context, params *SearchParams) (*SearchResponse, error)
	Facets(ctx context.Context) ([]Facet, error)
	FlattenedFacets(ctx context.Context) (*FacetCollection, error)
}

// DatastoreClient queries tabular data behind distributions.
type DatastoreClient interface {
	Query(ctx context.Context, datasetID string, index int, opts *DatastoreQueryOptions) (*DatastoreQueryResponse, error)
	QueryAll(ctx context.Context, opts *DatastoreQueryOptions) (*DatastoreQueryResponse, error)
	QueryGet(ctx context.Context, datasetID string, index int, opts *DatastoreQueryOptions) (*DatastoreQueryResponse, error)
	Schema(ctx context.Context, datasetID string, index int) (*DatastoreQueryResponse, error)
	SQL(ctx context.Context, query string, opts *SQLOptions) ([]map[string]interface{}, error)
	Download(ctx context.Context, datasetID string, index int, opts *DownloadOptions) ([]byte, error)
}

// ImportsClient manages datastore imports.
type ImportsClient interface {
	List(ctx context.Context) (map[string]ImportStatus, error)
	Get(ctx context.Context, identifier string) (*ImportStatus, error)
	Create(ctx context.Context, resourceID string) (map[string]ImportStatus, error)
	Delete(ctx context.Context, identifier string) error
	WaitForImport(ctx context.Context, identifier string, pollInterval time.Duration) (*ImportStatus, error)
}

// DataDictionariesClient manages metastore data dictionaries.
type DataDictionariesClient interface {
	Get(ctx context.Context, identifier string) (*DataDictionary, error)
	List(ctx context.Context) ([]DataDictionary, error)
	Create(ctx context.Context, dictionary *DataDictionary) (*MetastoreWriteResponse, error)
	Update(ctx context.Context, identifier string, dictionary *DataDictionary) (*MetastoreWriteResponse, error)
	Delete(ctx context.Context, identifier string) (*MetastoreWriteResponse, error)
}

// SchemasClient reads metastore schema definitions and their items.
type SchemasClient interface {
	List(ctx context.Context) (map[string]interface{}, error)
	Get(ctx context.Context, schemaID string) (map[string]interface{}, error)
	Items(ctx context.Context, schemaID string, opts *GetOptions) ([]map[string]interface{}, error)
}

// RevisionsClient manages metastore item revisions.
type RevisionsClient interface {
	List(ctx context.Context, schemaID, identifier string) ([]Revision, error)
	Get(ctx context.Context, schemaID, identifier, revisionID string) (*Revision, error)
	Create(ctx context.Context, schemaID, identifier string, request *RevisionRequest) (*MetastoreWriteResponse, error)
}

// HarvestsClient manages harvest plans and runs.
type HarvestsClient interface {
	ListPlans(ctx context.Context) ([]string, error)
	GetPlan(ctx context.Context, planID string) (*HarvestPlan, error)
	RegisterPlan(ctx context.Context, plan *HarvestPlan) (*MetastoreWriteResponse, error)
	ListRuns(ctx context.Context, planID string) ([]string, error)
	GetRun(ctx context.Context, planID, runID string) (*HarvestRun, error)
	Run(ctx context.Context, planID string) (*HarvestRun, error)
}

// CKANClient exposes the legacy /api/3/action compatibility shims.
type CKANClient interface {
	PackageList(ctx context.Context) (*CKANResponse, error)
	PackageShow(ctx context.Context, id string) (*CKANResponse, error)
	PackageSearch(ctx context.Context, query string, rows, start int) (*CKANResponse, error)
	DatastoreSearch(ctx context.Context, resourceID string, limit, offset int) (*CKANResponse, error)
	DatastoreSearchSQL(ctx context.Context, sql string) (*CKANResponse, error)
	ResourceShow(ctx context.Context, id string) (*CKANResponse, error)
	CurrentPackageListWithResources(ctx context.Context) (*CKANResponse, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// credentialKind tags the credential variants.
type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialToken
	credentialBasic
)

// Credential is the authentication material for a client, fixed at
// configuration time. The variant is chosen once by the constructor used, so
// request assembly never inspects credential shapes.
type Credential struct {
	kind     credentialKind
	token    string
	username string
	password string
}

// TokenCredential authenticates with a static bearer token.
func TokenCredential(token string) Credential {
	return Credential{kind: credentialToken, token: token}
}

// BasicCredential authenticates with HTTP basic auth.
func BasicCredential(username, password string) Credential {
	return Credential{kind: credentialBasic, username: username, password: password}
}

// NoCredential sends requests unauthenticated.
func NoCredential() Credential {
	return Credential{kind: credentialNone}
}

// IsZero reports whether no credential was configured.
func (c Credential) IsZero() bool {
	return c.kind == credentialNone
}

// Token returns the bearer token variant's token.
func (c Credential) Token() (string, bool) {
	return c.token, c.kind == credentialToken
}

// Basic returns the basic-auth variant's username and password.
func (c Credential) Basic() (string, string, bool) {
	return c.username, c.password, c.kind == credentialBasic
}

// Config represents client configuration for building a dkan.Client.
//
// BaseURL is required; a trailing slash is trimmed by dkanclient.New. Provide
// at most one credential: a token, or a username/password pair — when both are
// set the token wins. Retry settings apply only to network-layer failures;
// responses the server actually produced, including 5xx, are never retried so
// a mutating request is never replayed against a server that answered.
type Config struct {
	// BaseURL: root of the DKAN site (e.g. "https://demo.getdkan.org").
	BaseURL string

	// Token: static bearer token.
	Token string
	// Username and Password: HTTP basic auth pair.
	Username string
	Password string

	// RetryMax: attempts beyond the first for network-layer failures.
	RetryMax int
	// RetryWait: base backoff; the wait grows linearly with the attempt
	// number (RetryWait, 2×RetryWait, ...).
	RetryWait time.Duration

	// StaleTime: how long cached responses stay fresh in CachedClient.
	StaleTime time.Duration
	// CacheTime: how long cached responses are retained at all.
	CacheTime time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the transport.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Default policy values applied when the corresponding Config field is zero.
const (
	DefaultRetryMax  = 0
	DefaultRetryWait = 500 * time.Millisecond
	DefaultStaleTime = 30 * time.Second
	DefaultCacheTime = 5 * time.Minute
)

// Credential derives the tagged credential variant from the config, applying
// the token-first precedence.
func (c *Config) Credential() Credential {
	if c.Token != "" {
		return TokenCredential(c.Token)
	}

	if c.Username != "" || c.Password != "" {
		return BasicCredential(c.Username, c.Password)
	}

	return NoCredential()
}
