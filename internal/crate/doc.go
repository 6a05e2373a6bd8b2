// Package crate packages a provenance graph.
//
// Packaging happens after the graph is closed. The graph is hashed to mint
// a run namespace, rendered as a JSON-LD document in that namespace,
// converted to the equivalent set of RDF triples and written as Turtle.
// Both documents, an RO-Crate metadata descriptor and every file the run
// touched are then written to a zip archive named after the hash:
//
//	provenance-<hash>.zip
//	  report.jsonld
//	  report.ttl
//	  ro-crate-metadata.json
//	  <touched files, scripts, workflow definition>
package crate
