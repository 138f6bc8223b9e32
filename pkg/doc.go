// Package pkg provides the core libraries for Azure Resource Manager schema
// conformance checking.
//
// # Overview
//
// The toolkit validates a local corpus of ARM JSON Schema documents: every
// document must parse, conform to its declared draft meta-schema, compile
// under the validation engine, contain no reference cycles, and pass its
// schema-level test vectors.
//
// # Architecture
//
// The typical data flow through a corpus run:
//
//	Corpus directory
//	         ↓
//	    [loader] package (URI policy, mirror rewriting)
//	         ↓
//	    [schema] package (document model, pointers, edge extraction)
//	         ↓
//	    [schema/cycles] package (reference-cycle detection)
//	    [validate] package (meta-schema, compilation, vectors)
//	         ↓
//	    [harness] package (parallel orchestration, caching)
//	         ↓
//	    [report] package (run reports, MongoDB history)
//
// # Quick Start
//
// Check one document for reference cycles:
//
//	import (
//	    "github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
//	    "github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema/cycles"
//	)
//
//	doc, _ := schema.ParseFile("Microsoft.Storage.json")
//	if cyc := cycles.Detect(doc); cyc != nil {
//	    fmt.Println(cyc) // "#/definitions/a -> #/definitions/b -> #/definitions/a"
//	}
//
// # Main Packages
//
// [schema] - Document model: JSON pointer resolution, canonical node
// identity, and the deterministic reference-edge extraction the detector and
// graph builder share.
//
// [schema/cycles] - The cycle detector. Iterative three-color depth-first
// search over $ref and combinator edges, starting from the document root and
// every definitions entry.
//
// [refgraph] - Explicit reference-graph materialization plus Graphviz DOT,
// SVG and PNG rendering.
//
// [loader] - Schema URI policy: mirror URIs resolve into the local corpus,
// draft meta-schema URIs resolve to embedded copies, other remote URIs are
// rejected.
//
// [validate] - Boundary to the external validation engine
// (santhosh-tekuri/jsonschema): meta-schema checks, compilation, and test
// vector execution.
//
// [template] - Deployment-template linting against the root deployment
// schema, the in-process equivalent of the editor validation service.
//
// [harness] - Corpus orchestration: parallel per-document checks with
// content-hash result caching and skip-list policy.
//
// [report] - Run report types, JSON serialization, and the optional MongoDB
// run-history store.
//
// [cache] - Result cache backends: file (XDG), Redis, and null.
//
// [server] - Local HTTP viewer for run reports and reference graphs.
//
// [errors] - Structured, code-typed errors shared by CLI and server.
//
// [observability] - Optional instrumentation hooks for corpus runs and cache
// operations.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/schema/cycles    # Detector only
//
// [schema]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema
// [schema/cycles]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema/cycles
// [refgraph]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/refgraph
// [loader]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/loader
// [validate]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate
// [template]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/template
// [harness]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/harness
// [report]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report
// [cache]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/cache
// [server]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/server
// [errors]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/observability
package pkg
