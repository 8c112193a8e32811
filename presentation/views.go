package presentation

import (
	"profile_service/domain"
)

const (
	MustColor = "#ff6961"
	NiceColor = "#77dd77"
	LockIcon  = "lock"
)

// Badge is one rendered selection.
type Badge struct {
	Label    string          `json:"label"`
	Priority domain.Priority `json:"priority"`
	Color    string          `json:"color"`
	Private  bool            `json:"private"`
	Icon     string          `json:"icon,omitempty"`
	Tooltip  string          `json:"tooltip"`
	Known    bool            `json:"known"`
}

// Group is a category section of the summary view.
type Group struct {
	Category domain.Category `json:"category"`
	Title    string          `json:"title"`
	Icon     string          `json:"icon"`
	Badges   []Badge         `json:"badges"`
}

// Option is one catalog option as shown by the selector.
type Option struct {
	Label       string       `json:"label"`
	State       domain.State `json:"state"`
	Color       string       `json:"color,omitempty"`
	Private     bool         `json:"private"`
	LockTooltip string       `json:"lockTooltip,omitempty"`
}

// Section is a category of the selector view. Stored selections whose label
// is no longer in the catalog are listed under Other.
type Section struct {
	Category    domain.Category `json:"category"`
	Title       string          `json:"title"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
	Options     []Option        `json:"options"`
	Other       []Badge         `json:"other,omitempty"`
}

func PriorityText(priority domain.Priority) string {
	if priority == domain.Must {
		return "Must-have"
	}
	return "Nice-to-have"
}

func PriorityColor(priority domain.Priority) string {
	if priority == domain.Must {
		return MustColor
	}
	return NiceColor
}

func Tooltip(selection domain.Selection) string {
	if selection.Private {
		return "Private — " + PriorityText(selection.Priority)
	}
	return PriorityText(selection.Priority)
}

func NewBadge(category domain.Category, selection domain.Selection) Badge {
	badge := Badge{
		Label:    selection.Label,
		Priority: selection.Priority,
		Color:    PriorityColor(selection.Priority),
		Private:  selection.Private,
		Tooltip:  Tooltip(selection),
		Known:    category.HasOption(selection.Label),
	}
	if selection.Private {
		badge.Icon = LockIcon
	}
	return badge
}

// Summary renders the read-only profile view: catalog order, categories
// without selections omitted.
func Summary(set domain.SelectionSet) []Group {
	groups := []Group{}
	for _, info := range domain.Catalog() {
		selections := set.Get(info.Key)
		if len(selections) == 0 {
			continue
		}
		group := Group{
			Category: info.Key,
			Title:    info.Title,
			Icon:     info.Icon,
			Badges:   make([]Badge, 0, len(selections)),
		}
		for _, selection := range selections {
			group.Badges = append(group.Badges, NewBadge(info.Key, selection))
		}
		groups = append(groups, group)
	}
	return groups
}

// Selector renders the edit view: every category and every catalog option
// with its current cycle state.
func Selector(set domain.SelectionSet) []Section {
	sections := make([]Section, 0, len(domain.Categories()))
	for _, info := range domain.Catalog() {
		section := Section{
			Category:    info.Key,
			Title:       info.Title,
			Icon:        info.Icon,
			Description: info.Description,
			Options:     make([]Option, 0, len(info.Options)),
		}
		for _, label := range info.Options {
			option := Option{Label: label, State: domain.StateOf(set, info.Key, label)}
			if selection, ok := set.Find(info.Key, label); ok {
				option.Color = PriorityColor(selection.Priority)
				option.Private = selection.Private
				option.LockTooltip = lockTooltip(selection.Private)
			}
			section.Options = append(section.Options, option)
		}
		for _, selection := range set.Get(info.Key) {
			if !info.Key.HasOption(selection.Label) {
				section.Other = append(section.Other, NewBadge(info.Key, selection))
			}
		}
		sections = append(sections, section)
	}
	return sections
}

func lockTooltip(private bool) string {
	if private {
		return "Private"
	}
	return "Public"
}
