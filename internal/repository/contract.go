package repository

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Response contracts of the LMS backend. List endpoints return plain JSON
// arrays; anything else (for example {"courses": [...]}) is a contract
// violation rather than something to guess around.
var contracts = map[string]string{
	"courses": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": {"type": "string"},
				"title": {"type": "string"},
				"categories": {"type": ["array", "null"], "items": {"type": "string"}},
				"estimatedDuration": {"type": "number", "minimum": 0}
			}
		}
	}`,
	"course": `{
		"type": "object",
		"required": ["id", "title"],
		"properties": {
			"id": {"type": "string"},
			"title": {"type": "string"}
		}
	}`,
	"enrollments": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "courseId", "progress", "enrolledAt"],
			"properties": {
				"progress": {"type": "number", "minimum": 0, "maximum": 100},
				"completed": {"type": "boolean"},
				"enrolledAt": {"type": "string"}
			}
		}
	}`,
	"submissions": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "kind", "submissionType"],
			"properties": {
				"kind": {"enum": ["assignment", "project", "quiz"]},
				"submissionType": {"enum": ["text", "link", "file"]},
				"grade": {"type": ["number", "null"]}
			}
		}
	}`,
	"users": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "email", "role"],
			"properties": {
				"role": {"enum": ["student", "instructor", "admin"]}
			}
		}
	}`,
	"logs": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "action", "createdAt"]
		}
	}`,
	"surveys": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "rating"],
			"properties": {
				"rating": {"type": "integer"}
			}
		}
	}`,
}

// ContractChecker validates backend bodies against the compiled contracts.
type ContractChecker struct {
	schemas map[string]*gojsonschema.Schema
}

func NewContractChecker() (*ContractChecker, error) {
	c := &ContractChecker{schemas: make(map[string]*gojsonschema.Schema, len(contracts))}
	for name, src := range contracts {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compiling %s contract: %w", name, err)
		}
		c.schemas[name] = schema
	}
	return c, nil
}

// Check returns nil when body satisfies the named contract. Unknown names
// are not checked.
func (c *ContractChecker) Check(name string, body []byte) error {
	schema, ok := c.schemas[name]
	if !ok {
		return nil
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%s contract: %w", name, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s contract: %s", name, strings.Join(msgs, "; "))
}
