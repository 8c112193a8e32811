package domain

import (
	"fmt"

	"profile_service/errors"
)

type Priority string

const (
	Nice Priority = "nice"
	Must Priority = "must"
)

func (p Priority) Valid() bool {
	return p == Nice || p == Must
}

// Selection is one chosen option within a category.
type Selection struct {
	Label    string   `bson:"label" json:"label" mapstructure:"label"`
	Priority Priority `bson:"priority" json:"priority" mapstructure:"priority"`
	Private  bool     `bson:"private" json:"private" mapstructure:"private"`
}

func NewSelection(label string) Selection {
	return Selection{
		Label:    label,
		Priority: Nice,
		Private:  false,
	}
}

// SelectionSet maps a category to its selections. A missing key means the
// same thing as an empty list. Values are never modified in place: every
// update builds a new map and a new list for the touched category.
type SelectionSet map[Category][]Selection

// NewSelectionSet returns a set with every catalog category mapped to an
// empty list.
func NewSelectionSet() SelectionSet {
	set := make(SelectionSet, len(catalog))
	for _, category := range Categories() {
		set[category] = []Selection{}
	}
	return set
}

// Get returns a copy of the category's selections in stored order.
func (s SelectionSet) Get(category Category) []Selection {
	current := s[category]
	out := make([]Selection, len(current))
	copy(out, current)
	return out
}

func (s SelectionSet) Find(category Category, label string) (Selection, bool) {
	for _, selection := range s[category] {
		if selection.Label == label {
			return selection, true
		}
	}
	return Selection{}, false
}

// Mutator receives the current selection for a label (exists is false when
// there is none) and returns the replacement and whether to keep it.
type Mutator func(current Selection, exists bool) (next Selection, keep bool)

// WithSelection returns a new set where the selection for label in category
// has been inserted, replaced or removed by mutate. The receiver is left
// untouched. Replacements keep their position; insertions go last.
func (s SelectionSet) WithSelection(category Category, label string, mutate Mutator) SelectionSet {
	current := s[category]
	list := make([]Selection, 0, len(current)+1)
	found := false
	for _, selection := range current {
		if selection.Label != label || found {
			list = append(list, selection)
			continue
		}
		found = true
		if next, keep := mutate(selection, true); keep {
			next.Label = label
			list = append(list, next)
		}
	}
	if !found {
		if next, keep := mutate(Selection{}, false); keep {
			next.Label = label
			list = append(list, next)
		}
	}

	out := make(SelectionSet, len(s)+1)
	for key, value := range s {
		out[key] = value
	}
	out[category] = list
	return out
}

// Clone deep-copies the set. Every list in the copy is non-nil.
func (s SelectionSet) Clone() SelectionSet {
	if s == nil {
		return SelectionSet{}
	}
	out := make(SelectionSet, len(s))
	for key := range s {
		out[key] = s.Get(key)
	}
	return out
}

func (s SelectionSet) Count() int {
	total := 0
	for _, list := range s {
		total += len(list)
	}
	return total
}

// Equal compares two sets by meaning: a missing category equals an empty
// one and list order is ignored.
func (s SelectionSet) Equal(other SelectionSet) bool {
	keys := make(map[Category]struct{}, len(s)+len(other))
	for key := range s {
		keys[key] = struct{}{}
	}
	for key := range other {
		keys[key] = struct{}{}
	}
	for key := range keys {
		left, right := s[key], other[key]
		if len(left) != len(right) {
			return false
		}
		byLabel := make(map[string]Selection, len(left))
		for _, selection := range left {
			byLabel[selection.Label] = selection
		}
		for _, selection := range right {
			match, ok := byLabel[selection.Label]
			if !ok || match != selection {
				return false
			}
		}
	}
	return true
}

// Validate checks category membership, the only schema rule applied before
// a set is written.
func (s SelectionSet) Validate() error {
	for key := range s {
		if !key.Valid() {
			return fmt.Errorf("%w: %q", errors.ErrUnknownCategory, string(key))
		}
	}
	return nil
}
