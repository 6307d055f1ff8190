// Package schema validates imported workflow-definition documents before they
// reach the configuration store.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// workflowDefinitionSchema is the contract administrator-imported definitions
// must satisfy. It guards the invariants the resolver relies on: ordered steps,
// a known assignment type, and well-formed conditional rules.
const workflowDefinitionSchema = `{
  "type": "object",
  "required": ["key", "name", "steps"],
  "properties": {
    "key": {
      "type": "string",
      "enum": ["go-no-go", "pmp-approval", "monthly-review", "commitment-approval", "turnover-approval", "contract-tracking"]
    },
    "name": {"type": "string", "minLength": 3},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["step_order", "name", "assignment_type"],
        "properties": {
          "step_order": {"type": "integer", "minimum": 1},
          "name": {"type": "string", "minLength": 1},
          "assignment_type": {"type": "string", "enum": ["project_role", "named_person"]},
          "project_role": {"type": "string"},
          "is_conditional": {"type": "boolean"},
          "is_skippable": {"type": "boolean"},
          "feature_flag": {"type": "string"},
          "conditional_assignees": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["assignee", "priority"],
              "properties": {
                "priority": {"type": "integer"},
                "conditions": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["field", "value"],
                    "properties": {
                      "field": {"type": "string", "enum": ["division", "region", "sector"]},
                      "value": {"type": "string"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// ValidateWorkflowDefinition checks a raw definition document against the
// schema. All violations are reported together.
func ValidateWorkflowDefinition(document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(workflowDefinitionSchema)
	dataLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate workflow definition: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("invalid workflow definition: %s", strings.Join(messages, "; "))
	}

	return nil
}
