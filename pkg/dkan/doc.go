// Package dkan provides types, interfaces, and helpers for working with the
// DKAN open data REST API.
//
// # Overview
//
// The dkan package defines the domain types (e.g., Dataset, Distribution,
// HarvestPlan, DataDictionary) and the interfaces for resource-oriented
// clients (e.g., DatasetsClient, DatastoreClient, SearchClient). A concrete
// implementation of these clients is provided by the dkanclient package,
// which wires configuration, transport, and authentication. Most consumers
// should import dkanclient to construct a client and then interact with the
// resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
//	  "github.com/dcgoodwin2112/dkan-client-go/pkg/dkanclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := dkanclient.New(&dkan.Config{BaseURL: "https://demo.getdkan.org"})
//	  if err != nil { log.Fatal(err) }
//
//	  datasets, err := cli.Datasets().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = datasets
//	}
//
// # Queries and normalization
//
// Use SearchParams for full-text search options and DatastoreQueryOptions for
// structured datastore queries. DKAN returns list payloads as either JSON
// arrays or id-keyed objects depending on the endpoint and site version; the
// clients normalize both shapes to slices via DecodeItems, preserving the
// server's key order for keyed objects. The bracketed datastore SQL dialect
// is assembled with SQLQuery.
//
// # Errors
//
// API errors are represented by APIError. A transport failure carries
// StatusCode zero; an HTTP error carries the response status and body.
// Helpers such as IsNotFound, IsUnauthorized, and IsTransport make it easy
// to branch on common cases.
//
// # Caching
//
// The package includes a pluggable Cache abstraction with memory, NATS KV,
// and no-op backends, plus CachedClient, a thin wrapper that shares one
// cache lifecycle between consumers through mount reference counting.
//
// # Resources
//
// Resource clients cover the metastore (datasets, data dictionaries,
// schemas, revisions), the datastore (structured queries, SQL, imports,
// downloads), search with facets, harvest plans and runs, and the legacy
// CKAN compatibility actions. See the interfaces in client.go for the full
// surface area.
package dkan
