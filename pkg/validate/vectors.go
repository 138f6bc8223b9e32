package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Vector is one named test case for a schema: an instance document plus the
// expected validation outcome.
type Vector struct {
	Name  string `json:"name"`
	Data  any    `json:"data"`
	Valid bool   `json:"valid"`
}

// VectorResult is the outcome of running one vector.
type VectorResult struct {
	Name    string `json:"name" bson:"name"`
	Passed  bool   `json:"passed" bson:"passed"`
	Message string `json:"message,omitempty" bson:"message,omitempty"`
}

// vectorFile is the on-disk format: {"tests": [...]}.
type vectorFile struct {
	Tests []Vector `json:"tests"`
}

// VectorPath returns the conventional sibling test-vector file for a schema
// path: "<schema>.tests.json" next to the schema document.
func VectorPath(schemaPath string) string {
	return strings.TrimSuffix(schemaPath, ".json") + ".tests.json"
}

// IsVectorPath reports whether path names a test-vector file rather than a
// schema document.
func IsVectorPath(path string) bool {
	return strings.HasSuffix(path, ".tests.json")
}

// LoadVectors reads the vector file at path. A missing file yields no
// vectors and no error: most schemas carry no vectors.
func LoadVectors(path string) ([]Vector, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var vf vectorFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse vectors %s: %w", path, err)
	}
	return vf.Tests, nil
}

// RunVectors executes each vector against the compiled schema and reports
// per-vector outcomes. A vector passes when the validation verdict matches
// its Valid expectation.
func RunVectors(sch *jsonschema.Schema, vectors []Vector) []VectorResult {
	results := make([]VectorResult, 0, len(vectors))
	for _, v := range vectors {
		err := sch.Validate(v.Data)
		res := VectorResult{Name: v.Name, Passed: (err == nil) == v.Valid}
		if !res.Passed {
			if err != nil {
				res.Message = fmt.Sprintf("expected valid, got: %v", err)
			} else {
				res.Message = "expected invalid, but document validated"
			}
		}
		results = append(results, res)
	}
	return results
}
