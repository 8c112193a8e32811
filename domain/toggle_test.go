package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile_service/domain"
)

const wheelchair = "Wheelchair access"

func TestCyclePriorityScenario(t *testing.T) {
	set := domain.NewSelectionSet()

	set = domain.CyclePriority(set, domain.Physical, wheelchair)
	assert.Equal(t, []domain.Selection{{Label: wheelchair, Priority: domain.Nice, Private: false}}, set.Get(domain.Physical))

	set = domain.CyclePriority(set, domain.Physical, wheelchair)
	assert.Equal(t, []domain.Selection{{Label: wheelchair, Priority: domain.Must, Private: false}}, set.Get(domain.Physical))

	set = domain.TogglePrivacy(set, domain.Physical, wheelchair)
	assert.Equal(t, []domain.Selection{{Label: wheelchair, Priority: domain.Must, Private: true}}, set.Get(domain.Physical))

	set = domain.CyclePriority(set, domain.Physical, wheelchair)
	assert.Empty(t, set.Get(domain.Physical))
	_, ok := set.Find(domain.Physical, wheelchair)
	assert.False(t, ok)
}

func TestCyclePriorityClosesAfterThreeSteps(t *testing.T) {
	base := domain.CyclePriority(domain.SelectionSet{}, domain.Sensory, "Quiet workspace")
	base = domain.CyclePriority(base, domain.Remote, "Hybrid work options")

	for _, info := range domain.Catalog() {
		for _, label := range info.Options {
			next := base
			for i := 0; i < 3; i++ {
				next = domain.CyclePriority(next, info.Key, label)
			}
			if _, selected := base.Find(info.Key, label); !selected {
				assert.True(t, base.Equal(next), "%s/%s", info.Key, label)
			}
		}
	}
}

func TestCyclePriorityVisitsEveryState(t *testing.T) {
	set := domain.SelectionSet{}
	expected := []domain.State{domain.NiceState, domain.MustState, domain.Unselected, domain.NiceState, domain.MustState, domain.Unselected}
	for _, want := range expected {
		set = domain.CyclePriority(set, domain.Mental, "Flexible deadlines")
		assert.Equal(t, want, domain.StateOf(set, domain.Mental, "Flexible deadlines"))
	}
}

func TestCyclePriorityKeepsPrivacyFromNiceToMust(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Schedule, "Split shifts")
	set = domain.TogglePrivacy(set, domain.Schedule, "Split shifts")
	set = domain.CyclePriority(set, domain.Schedule, "Split shifts")

	selection, ok := set.Find(domain.Schedule, "Split shifts")
	require.True(t, ok)
	assert.Equal(t, domain.Must, selection.Priority)
	assert.True(t, selection.Private)
}

func TestTogglePrivacyIsItsOwnInverse(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Communication, "Visual aids")
	set = domain.CyclePriority(set, domain.Communication, "Visual aids")

	twice := domain.TogglePrivacy(domain.TogglePrivacy(set, domain.Communication, "Visual aids"), domain.Communication, "Visual aids")
	assert.True(t, set.Equal(twice))

	once := domain.TogglePrivacy(set, domain.Communication, "Visual aids")
	selection, _ := once.Find(domain.Communication, "Visual aids")
	assert.True(t, selection.Private)
	assert.Equal(t, domain.Must, selection.Priority)
}

func TestTogglePrivacyWithoutSelectionIsNoop(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Physical, wheelchair)
	next := domain.TogglePrivacy(set, domain.Physical, "Elevator access")
	assert.True(t, set.Equal(next))
	_, ok := next.Find(domain.Physical, "Elevator access")
	assert.False(t, ok)
}

func TestTogglePrivacyRightAfterFirstSelectionKeepsDefaultPriority(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Remote, "Virtual meetings only")
	set = domain.TogglePrivacy(set, domain.Remote, "Virtual meetings only")

	selection, ok := set.Find(domain.Remote, "Virtual meetings only")
	require.True(t, ok)
	assert.Equal(t, domain.Nice, selection.Priority)
	assert.True(t, selection.Private)
}

func TestTransitionsLeaveOtherSelectionsAlone(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Physical, wheelchair)
	set = domain.CyclePriority(set, domain.Physical, "Elevator access")
	set = domain.TogglePrivacy(set, domain.Physical, "Elevator access")
	set = domain.CyclePriority(set, domain.Sensory, "Natural lighting")

	before := set.Clone()
	after := domain.CyclePriority(set, domain.Physical, wheelchair)
	after = domain.TogglePrivacy(after, domain.Physical, wheelchair)

	elevator, _ := after.Find(domain.Physical, "Elevator access")
	assert.Equal(t, domain.Selection{Label: "Elevator access", Priority: domain.Nice, Private: true}, elevator)
	assert.Equal(t, before.Get(domain.Sensory), after.Get(domain.Sensory))
	assert.True(t, before.Equal(set), "base set must not change")
}

func TestTransitionsDoNotMutateTheirInput(t *testing.T) {
	base := domain.CyclePriority(domain.SelectionSet{}, domain.Physical, wheelchair)
	snapshot := base.Get(domain.Physical)

	_ = domain.CyclePriority(base, domain.Physical, wheelchair)
	_ = domain.TogglePrivacy(base, domain.Physical, wheelchair)
	_ = domain.CyclePriority(base, domain.Physical, "Accessible restroom")

	assert.Equal(t, snapshot, base[domain.Physical])
	assert.Len(t, base, 1)
}

func TestCyclePriorityAcceptsLabelsOutsideCatalog(t *testing.T) {
	set := domain.CyclePriority(domain.SelectionSet{}, domain.Physical, "Standing mat")
	selection, ok := set.Find(domain.Physical, "Standing mat")
	require.True(t, ok)
	assert.Equal(t, domain.Nice, selection.Priority)
	assert.False(t, domain.Physical.HasOption("Standing mat"))
}
