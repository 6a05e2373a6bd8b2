// Package vocab names the vocabulary the provenance graph is written in and
// fetches the published metadata4ing JSON-LD context.
package vocab

// Namespace IRIs.
const (
	M4I    = "http://w3id.org/nfdi4ing/metadata4ing#"
	Schema = "https://schema.org/"
	RDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	OBO    = "http://purl.obolibrary.org/obo/"
	XSD    = "http://www.w3.org/2001/XMLSchema#"
	CR     = "http://mlcommons.org/croissant/"
	Units  = "http://qudt.org/vocab/unit/"
)

// Terms used as keys or @type values in graph nodes.
const (
	TermProcessingStep    = "processing step"
	TermLabel             = "label"
	TermPartOf            = "part of"
	TermHasInput          = "has input"
	TermHasOutput         = "has output"
	TermHasParameter      = "has parameter"
	TermHasEmployedTool   = "has employed tool"
	TermStartTime         = "start time"
	TermEndTime           = "end time"
	TermPosition          = "position"
	TermTool              = "tool"
	TermVersion           = "software version"
	TermTextVariable      = "text variable"
	TermNumericalVariable = "numerical variable"
	TermHasStringValue    = "has string value"
	TermHasNumericalValue = "has numerical value"
	TermHasUnit           = "has unit"
	TermDataType          = "data type"
	TermRepresents        = "represents"
	TermEncodingFormat    = "encoding format"
	TermFileObject        = "cr:FileObject"
	TermField             = "cr:Field"
	TermFieldSource       = "cr:fileObject"
	TermFieldJSONPath     = "cr:jsonPath"
	PrefixLocal           = "local"
	PrefixUnits           = "units"
)

// BaseContext returns term definitions for every term the graph builder
// emits. The published context, when available, is layered on top of it.
func BaseContext() map[string]any {
	return map[string]any{
		"m4i":    M4I,
		"schema": Schema,
		"rdfs":   RDFS,
		"obo":    OBO,
		"xsd":    XSD,
		"cr":     CR,

		TermProcessingStep:    M4I + "ProcessingStep",
		TermTool:              M4I + "Tool",
		TermTextVariable:      M4I + "TextVariable",
		TermNumericalVariable: M4I + "NumericalVariable",

		TermLabel:             RDFS + "label",
		TermPartOf:            OBO + "BFO_0000050",
		TermHasInput:          OBO + "RO_0002233",
		TermHasOutput:         OBO + "RO_0002234",
		TermRepresents:        OBO + "IAO_0000219",
		TermHasParameter:      M4I + "hasParameter",
		TermHasEmployedTool:   M4I + "hasEmployedTool",
		TermHasStringValue:    M4I + "hasStringValue",
		TermHasNumericalValue: M4I + "hasNumericalValue",
		TermHasUnit:           M4I + "hasUnit",
		TermStartTime:         map[string]any{"@id": M4I + "startTime", "@type": XSD + "dateTime"},
		TermEndTime:           map[string]any{"@id": M4I + "endTime", "@type": XSD + "dateTime"},
		TermPosition:          map[string]any{"@id": Schema + "position", "@type": XSD + "integer"},
		TermVersion:           Schema + "softwareVersion",
		TermDataType:          map[string]any{"@id": Schema + "additionalType", "@type": "@id"},
		TermEncodingFormat:    Schema + "encodingFormat",
	}
}
