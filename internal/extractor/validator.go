package extractor

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	paramsSchemaName = "params.schema.json"
	toolsSchemaName  = "tools.schema.json"
)

var (
	//go:embed schema/params.schema.json
	paramsSchemaBytes []byte

	//go:embed schema/tools.schema.json
	toolsSchemaBytes []byte
)

var (
	compiledSchemas map[string]*jsonschema.Schema
	compileOnce     sync.Once
	compileErr      error
	printer         = message.NewPrinter(language.English)
)

// issue is a single leaf validation failure.
type issue struct {
	location []string
	keyword  string
	missing  []string
	message  string
}

// getSchema compiles the embedded JSON schemas once and returns the named one.
func getSchema(name string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		sources := map[string][]byte{
			paramsSchemaName: paramsSchemaBytes,
			toolsSchemaName:  toolsSchemaBytes,
		}
		for n, raw := range sources {
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", n, err)
				return
			}
			if err := c.AddResource(n, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", n, err)
				return
			}
		}
		compiledSchemas = make(map[string]*jsonschema.Schema, len(sources))
		for n := range sources {
			s, err := c.Compile(n)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", n, err)
				return
			}
			compiledSchemas[n] = s
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return compiledSchemas[name], nil
}

// validate checks JSON bytes against a named schema and turns the first
// failure into a ContractViolation.
func validate(schemaName string, data []byte, c call) error {
	schema, err := getSchema(schemaName)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return c.violation("", "", fmt.Sprintf("result is not valid JSON: %v", err))
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("unexpected validation error type: %w", err)
	}

	issues := collectIssues(ve)
	if len(issues) == 0 {
		return c.violation("", "", ve.Error())
	}
	first := issues[0]

	var entity, key string
	if len(first.location) > 0 {
		entity = first.location[0]
	}
	switch {
	case len(first.location) > 1:
		key = first.location[1]
	case len(first.missing) > 0:
		key = strings.Join(first.missing, ", ")
	}
	msg := first.message
	if len(issues) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(issues)-1)
	}
	return c.violation(entity, key, msg)
}

// collectIssues walks the error tree and returns leaf issues sorted by
// location so the reported one does not depend on map iteration order.
func collectIssues(ve *jsonschema.ValidationError) []issue {
	var issues []issue
	var walk func(*jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) > 0 {
			for _, cause := range ve.Causes {
				walk(cause)
			}
			return
		}
		if ve.ErrorKind == nil {
			return
		}
		it := issue{
			location: ve.InstanceLocation,
			message:  ve.ErrorKind.LocalizedString(printer),
		}
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			it.keyword = kw[len(kw)-1]
		}
		if req, ok := ve.ErrorKind.(*kind.Required); ok {
			it.missing = req.Missing
		}
		issues = append(issues, it)
	}
	walk(ve)

	sort.SliceStable(issues, func(a, b int) bool {
		la := strings.Join(issues[a].location, "/")
		lb := strings.Join(issues[b].location, "/")
		if la != lb {
			return la < lb
		}
		return issues[a].keyword < issues[b].keyword
	})
	return issues
}
