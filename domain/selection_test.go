package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile_service/domain"
	"profile_service/errors"
)

func TestCatalogHasSixCategoriesOfFiveOptions(t *testing.T) {
	catalog := domain.Catalog()
	require.Len(t, catalog, 6)
	assert.Equal(t, []domain.Category{
		domain.Physical, domain.Sensory, domain.Mental, domain.Communication, domain.Schedule, domain.Remote,
	}, domain.Categories())
	for _, info := range catalog {
		assert.Len(t, info.Options, 5, info.Key)
		assert.NotEmpty(t, info.Title)
	}

	catalog[0].Options[0] = "changed"
	assert.True(t, domain.Physical.HasOption("Wheelchair access"))
}

func TestNewSelectionSetHasEveryCategoryEmpty(t *testing.T) {
	set := domain.NewSelectionSet()
	assert.Len(t, set, 6)
	assert.Equal(t, 0, set.Count())
	assert.True(t, set.Equal(domain.SelectionSet{}))
}

func TestWithSelectionReplacesInPlaceAndAppendsNew(t *testing.T) {
	set := domain.SelectionSet{domain.Sensory: {
		{Label: "Quiet workspace", Priority: domain.Nice},
		{Label: "Natural lighting", Priority: domain.Must},
	}}

	replaced := set.WithSelection(domain.Sensory, "Quiet workspace", func(current domain.Selection, exists bool) (domain.Selection, bool) {
		assert.True(t, exists)
		current.Private = true
		return current, true
	})
	assert.Equal(t, "Quiet workspace", replaced.Get(domain.Sensory)[0].Label)
	assert.True(t, replaced.Get(domain.Sensory)[0].Private)
	assert.False(t, set.Get(domain.Sensory)[0].Private)

	added := set.WithSelection(domain.Sensory, "Scent-free policy", func(_ domain.Selection, exists bool) (domain.Selection, bool) {
		assert.False(t, exists)
		return domain.NewSelection("ignored"), true
	})
	labels := []string{}
	for _, selection := range added.Get(domain.Sensory) {
		labels = append(labels, selection.Label)
	}
	assert.Equal(t, []string{"Quiet workspace", "Natural lighting", "Scent-free policy"}, labels)
}

func TestGetReturnsCopy(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Remote, "Flexible hours")
	list := set.Get(domain.Remote)
	list[0].Priority = domain.Must
	selection, _ := set.Find(domain.Remote, "Flexible hours")
	assert.Equal(t, domain.Nice, selection.Priority)
}

func TestEqualIgnoresOrderAndMissingKeys(t *testing.T) {
	a := domain.SelectionSet{
		domain.Physical: {{Label: "A", Priority: domain.Nice}, {Label: "B", Priority: domain.Must}},
		domain.Sensory:  {},
	}
	b := domain.SelectionSet{
		domain.Physical: {{Label: "B", Priority: domain.Must}, {Label: "A", Priority: domain.Nice}},
	}
	assert.True(t, a.Equal(b))

	b[domain.Physical] = []domain.Selection{{Label: "B", Priority: domain.Must}, {Label: "A", Priority: domain.Nice, Private: true}}
	assert.False(t, a.Equal(b))
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	assert.NoError(t, domain.NewSelectionSet().Validate())
	err := domain.SelectionSet{"hobbies": {}}.Validate()
	assert.True(t, errors.Is(err, errors.ErrUnknownCategory))
}

func TestSelectionSetWireShape(t *testing.T) {
	set := domain.SelectionSet{domain.Physical: {{Label: "Wheelchair access", Priority: domain.Must, Private: true}}}
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{"physical":[{"label":"Wheelchair access","priority":"must","private":true}]}`, string(raw))
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	var missing *domain.UserProfile
	assert.Equal(t, "a@example.com", missing.DisplayName("a@example.com"))
	assert.Equal(t, "a@example.com", (&domain.UserProfile{Username: "  "}).DisplayName("a@example.com"))
	assert.Equal(t, "ada", (&domain.UserProfile{Username: "ada"}).DisplayName("a@example.com"))
}

func TestRequestValidation(t *testing.T) {
	valid := domain.ToggleRequest{Category: domain.Physical, Label: "Wheelchair access"}
	assert.NoError(t, valid.Validate())

	unknown := domain.ToggleRequest{Category: "hobbies", Label: "Chess"}
	assert.Error(t, unknown.Validate())

	blank := domain.ToggleRequest{Category: domain.Remote, Label: "   "}
	assert.Error(t, blank.Validate())

	assert.NoError(t, (&domain.UsernameChange{Username: "avery"}).Validate())
	assert.Error(t, (&domain.UsernameChange{Username: ""}).Validate())
	assert.Error(t, (&domain.UsernameChange{Username: strings.Repeat("x", 65)}).Validate())
}
