// Package extractor defines the contract for pulling typed parameter and
// tool metadata out of job files, and loads the implementation a run uses.
//
// An implementation is either registered in-process by the host at startup
// (see Registry and RegisterBuiltins) or an external executable speaking the
// JSON-over-stdio protocol of ProcessExtractor. Either way its return values
// are untrusted: Checked validates every result against the embedded JSON
// Schemas in schema/ before handing typed values to the graph builder, and
// reports any breach as a *ContractViolation.
package extractor
