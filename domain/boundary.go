package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DecodeReport lists what DecodeSelectionSet had to repair.
type DecodeReport struct {
	DroppedCategories []string
	DroppedEntries    int
	CoercedPriorities int
	DuplicateLabels   int
}

func (r DecodeReport) Clean() bool {
	return len(r.DroppedCategories) == 0 && r.DroppedEntries == 0 && r.CoercedPriorities == 0 && r.DuplicateLabels == 0
}

func (r DecodeReport) String() string {
	return fmt.Sprintf("dropped categories=[%s] dropped entries=%d coerced priorities=%d duplicate labels=%d",
		strings.Join(r.DroppedCategories, ","), r.DroppedEntries, r.CoercedPriorities, r.DuplicateLabels)
}

type storedSelection struct {
	Label    string `mapstructure:"label"`
	Priority string `mapstructure:"priority"`
	Private  bool   `mapstructure:"private"`
}

// DecodeSelectionSet turns the loosely typed stored accommodations value
// (maps and slices as produced by a JSON or BSON decoder) into a typed set.
// Unknown categories and malformed entries are dropped, unknown priorities
// become nice and repeated labels keep their first occurrence. Labels that
// are not in the catalog are kept. Every catalog category is present in the
// result, empty when nothing usable was stored for it.
func DecodeSelectionSet(raw interface{}) (SelectionSet, DecodeReport) {
	var report DecodeReport
	set := NewSelectionSet()
	if raw == nil {
		return set, report
	}

	var categories map[string]interface{}
	if err := mapstructure.Decode(raw, &categories); err != nil {
		report.DroppedCategories = append(report.DroppedCategories, "*")
		return set, report
	}

	for key, value := range categories {
		category := Category(key)
		if !category.Valid() {
			report.DroppedCategories = append(report.DroppedCategories, key)
			continue
		}

		var entries []interface{}
		if err := mapstructure.Decode(value, &entries); err != nil {
			report.DroppedCategories = append(report.DroppedCategories, key)
			continue
		}

		list := make([]Selection, 0, len(entries))
		seen := make(map[string]struct{}, len(entries))
		for _, entry := range entries {
			var stored storedSelection
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &stored})
			if err != nil || entry == nil {
				report.DroppedEntries++
				continue
			}
			if err := decoder.Decode(entry); err != nil || stored.Label == "" {
				report.DroppedEntries++
				continue
			}
			if _, dup := seen[stored.Label]; dup {
				report.DuplicateLabels++
				continue
			}
			seen[stored.Label] = struct{}{}

			priority := Priority(stored.Priority)
			if !priority.Valid() {
				report.CoercedPriorities++
				priority = Nice
			}
			list = append(list, Selection{Label: stored.Label, Priority: priority, Private: stored.Private})
		}
		set[category] = list
	}
	sort.Strings(report.DroppedCategories)
	return set, report
}
