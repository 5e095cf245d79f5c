package enhance

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Enhancement is the structured result extracted from a raw completion.
// Order is preserved as returned by the model.
type Enhancement struct {
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// Parse extracts an Enhancement from the model's raw reply. Markdown code
// fences are stripped wherever they appear — the model is not guaranteed to
// emit a clean fence pair — then the remainder must be a JSON object with
// `ingredients` and `instructions` as arrays of strings. Anything else is a
// MalformedResponseError; no further repair is attempted.
func Parse(raw string) (*Enhancement, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &tree); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("not a JSON object: %v", err), Raw: raw}
	}

	ingredients, err := stringList(tree, "ingredients")
	if err != nil {
		return nil, &MalformedResponseError{Reason: err.Error(), Raw: raw}
	}
	instructions, err := stringList(tree, "instructions")
	if err != nil {
		return nil, &MalformedResponseError{Reason: err.Error(), Raw: raw}
	}

	return &Enhancement{Ingredients: ingredients, Instructions: instructions}, nil
}

// JoinedIngredients returns the ingredients in the newline-delimited
// encoding the recipe store uses for list-valued fields.
func (e *Enhancement) JoinedIngredients() string {
	return strings.Join(e.Ingredients, "\n")
}

// JoinedInstructions returns the instructions in the newline-delimited
// storage encoding.
func (e *Enhancement) JoinedInstructions() string {
	return strings.Join(e.Instructions, "\n")
}

// stringList pulls key out of the untyped tree and requires it to be an
// array of strings. The shape is validated explicitly rather than trusted.
func stringList(tree map[string]interface{}, key string) ([]string, error) {
	v, ok := tree[key]
	if !ok {
		return nil, fmt.Errorf("missing %q field", key)
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%q is not an array", key)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%q element %d is not a string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}
