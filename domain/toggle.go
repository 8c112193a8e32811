package domain

// CyclePriority applies the primary interaction on an option:
// unselected -> nice -> must -> unselected.
func CyclePriority(set SelectionSet, category Category, label string) SelectionSet {
	return set.WithSelection(category, label, func(current Selection, exists bool) (Selection, bool) {
		switch {
		case !exists:
			return NewSelection(label), true
		case current.Priority == Nice:
			current.Priority = Must
			return current, true
		default:
			return current, false
		}
	})
}

// TogglePrivacy flips the private flag of an existing selection. Without a
// selection for label the set is returned as is.
func TogglePrivacy(set SelectionSet, category Category, label string) SelectionSet {
	if _, ok := set.Find(category, label); !ok {
		return set
	}
	return set.WithSelection(category, label, func(current Selection, _ bool) (Selection, bool) {
		current.Private = !current.Private
		return current, true
	})
}

// State names the position of an option in the priority cycle.
type State string

const (
	Unselected State = "unselected"
	NiceState  State = "nice"
	MustState  State = "must"
)

func StateOf(set SelectionSet, category Category, label string) State {
	selection, ok := set.Find(category, label)
	if !ok {
		return Unselected
	}
	if selection.Priority == Must {
		return MustState
	}
	return NiceState
}
