package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const demoScript = `req=$(cat)
case "$req" in
  *'"describe"'*) printf '%s' '{"extractors":[{"name":"Demo","operations":["extract_params","extract_tools"]},{"name":"Half","operations":["extract_params"]}]}' ;;
  *'"extract_params"'*) printf '%s' '{"temp":{"value":20,"unit":"units:DEG_C","json-path":"/temp","data-type":"schema:Integer"}}' ;;
  *'"extract_tools"'*) printf '%s' '{"numpy":"1.2"}' ;;
esac
`

const brokenScript = `req=$(cat)
case "$req" in
  *'"describe"'*) printf '%s' '{"extractors":[{"name":"Broken","operations":["extract_params","extract_tools"]}]}' ;;
  *'"extract_params"'*) printf '%s' '{"temp":{"value":20}}' ;;
  *) printf '%s' '[1,2]' ;;
esac
`

const twoScript = `printf '%s' '{"extractors":[{"name":"A","operations":["extract_params","extract_tools"]},{"name":"B","operations":["extract_params","extract_tools"]}]}'
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extractor.sh")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestProcessExtractor_RoundTrip(t *testing.T) {
	c, err := Load(NewRegistry(), writeScript(t, demoScript), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Name() != "Demo" {
		t.Errorf("Name() = %q, want Demo", c.Name())
	}

	params, err := c.Params("prep", "anything.json")
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p, ok := params["temp"]; !ok || p.JSONPath != "/temp" || *p.Unit != "units:DEG_C" {
		t.Errorf("params = %+v", params)
	}

	tools, err := c.Tools("prep", "dependencies: [numpy=1.2]")
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	if v := tools["numpy"]; v == nil || *v != "1.2" {
		t.Errorf("tools = %v", tools)
	}
}

func TestProcessExtractor_SelectByName(t *testing.T) {
	path := writeScript(t, twoScript)

	if _, err := Load(NewRegistry(), path, ""); !errors.Is(err, ErrAmbiguousImplementation) {
		t.Errorf("Load without name error = %v, want ErrAmbiguousImplementation", err)
	}
	c, err := Load(NewRegistry(), path, "B")
	if err != nil {
		t.Fatalf("Load(B): %v", err)
	}
	if c.Name() != "B" {
		t.Errorf("Name() = %q, want B", c.Name())
	}
	if _, err := Load(NewRegistry(), path, "C"); !errors.Is(err, ErrNoImplementation) {
		t.Errorf("Load(C) error = %v, want ErrNoImplementation", err)
	}
}

func TestProcessExtractor_NoImplementation(t *testing.T) {
	path := writeScript(t, `printf '%s' '{"extractors":[{"name":"Half","operations":["extract_params"]}]}'`+"\n")
	_, err := Load(NewRegistry(), path, "")
	var ce *ConfigurationError
	if !errors.As(err, &ce) || !errors.Is(err, ErrNoImplementation) {
		t.Errorf("error = %v, want ConfigurationError wrapping ErrNoImplementation", err)
	}

	path = writeScript(t, "exit 3\n")
	if _, err := Load(NewRegistry(), path, ""); !errors.Is(err, ErrNoImplementation) {
		t.Errorf("failing describe error = %v, want ErrNoImplementation", err)
	}
}

func TestProcessExtractor_ContractViolation(t *testing.T) {
	c, err := Load(NewRegistry(), writeScript(t, brokenScript), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = c.Params("prep", "in.json")
	var cv *ContractViolation
	if !errors.As(err, &cv) {
		t.Fatalf("Params error = %v, want *ContractViolation", err)
	}
	if cv.Entity != "temp" || cv.Extractor != "Broken" {
		t.Errorf("violation = %+v", cv)
	}

	_, err = c.Tools("prep", "")
	if !errors.Is(err, ErrContractViolation) {
		t.Errorf("Tools error = %v, want ErrContractViolation for non-object output", err)
	}
}
