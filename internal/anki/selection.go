package anki

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/snonux/copywords/internal/wordmodel"
)

// meaningPath addresses a meaning by 0-based definition, context and
// meaning index
type meaningPath struct {
	definition, context, meaning int
}

// Selection records which meanings and examples go on the cards
type Selection struct {
	all bool

	// nil example set means all examples of the meaning
	meanings map[meaningPath]map[int]bool
}

// SelectAll selects every meaning and example
func SelectAll() *Selection {
	return &Selection{all: true}
}

// ParseSelection parses a comma separated list of 1-based paths of the
// form definition.context.meaning[.example], e.g. "1.1.2,1.1.3.1". A
// meaning path without an example selects all examples of that meaning.
func ParseSelection(s string) (*Selection, error) {
	sel := &Selection{meanings: make(map[meaningPath]map[int]bool)}

	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, ".")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("invalid selection %q: expected definition.context.meaning[.example]", item)
		}

		indexes := make([]int, len(parts))
		for i, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid selection %q: %q is not a positive number", item, part)
			}
			indexes[i] = n - 1
		}

		path := meaningPath{definition: indexes[0], context: indexes[1], meaning: indexes[2]}
		examples, seen := sel.meanings[path]

		if len(indexes) == 3 {
			sel.meanings[path] = nil
			continue
		}
		if seen && examples == nil {
			continue // Already selected with all examples
		}
		if examples == nil {
			examples = make(map[int]bool)
			sel.meanings[path] = examples
		}
		examples[indexes[3]] = true
	}

	if len(sel.meanings) == 0 {
		return nil, fmt.Errorf("empty selection")
	}

	return sel, nil
}

// MeaningSelected reports whether a meaning is selected, indexes are 0-based
func (s *Selection) MeaningSelected(definition, context, meaning int) bool {
	if s.all {
		return true
	}
	_, ok := s.meanings[meaningPath{definition, context, meaning}]
	return ok
}

// ExampleSelected reports whether an example is selected, indexes are 0-based
func (s *Selection) ExampleSelected(definition, context, meaning, example int) bool {
	if s.all {
		return true
	}
	examples, ok := s.meanings[meaningPath{definition, context, meaning}]
	if !ok {
		return false
	}
	return examples == nil || examples[example]
}

// Validate checks that every selected path exists in the model
func (s *Selection) Validate(model *wordmodel.WordModel) error {
	if s.all {
		return nil
	}

	for path, examples := range s.meanings {
		if path.definition >= len(model.Definitions) {
			return fmt.Errorf("selection: definition %d does not exist", path.definition+1)
		}
		def := model.Definitions[path.definition]

		if path.context >= len(def.Contexts) {
			return fmt.Errorf("selection: context %d.%d does not exist", path.definition+1, path.context+1)
		}
		ctx := def.Contexts[path.context]

		if path.meaning >= len(ctx.Meanings) {
			return fmt.Errorf("selection: meaning %d.%d.%d does not exist",
				path.definition+1, path.context+1, path.meaning+1)
		}

		for example := range examples {
			if example >= len(ctx.Meanings[path.meaning].Examples) {
				return fmt.Errorf("selection: example %d.%d.%d.%d does not exist",
					path.definition+1, path.context+1, path.meaning+1, example+1)
			}
		}
	}

	return nil
}
