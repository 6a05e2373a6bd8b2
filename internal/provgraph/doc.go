// Package provgraph assembles the provenance graph of a workflow run.
//
// A Builder walks the jobs of a trace once, in start-time order, and resolves
// every step, file, parameter and tool it meets through a registry.Registry,
// so an entity referenced by several jobs becomes one node. Parameter and
// tool facts come from an extractor; without one, the graph holds only the
// workflow structure.
//
// The resulting Graph renders itself as JSON-LD node objects written in the
// metadata4ing vocabulary (see package vocab). Identifiers in the local
// scope use the "local:" prefix, which is bound to a run namespace only when
// the graph is packaged.
package provgraph
