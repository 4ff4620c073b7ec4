package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenScenariosWithUsersAndData_WhenExpanded_ThenUnitOrderIsDeterministic(t *testing.T) {
	scenarios := []Scenario{
		{
			Name:  "first",
			Tags:  []Tag{TagSmoke},
			Users: []string{"alice", "bob"},
			Data: []DataRecord{
				{Name: "record-1"},
				{Name: "record-2"},
			},
		},
		{
			Name: "second",
			Tags: []Tag{TagRegression},
		},
	}

	units := Expand(scenarios, nil)

	require.Len(t, units, 5)
	wantNames := []string{
		"first/alice/record-1",
		"first/alice/record-2",
		"first/bob/record-1",
		"first/bob/record-2",
		"second",
	}
	for i, want := range wantNames {
		assert.Equal(t, want, units[i].Name)
	}

	seen := map[string]bool{}
	for _, unit := range units {
		assert.NotEmpty(t, unit.ID)
		assert.False(t, seen[unit.ID], "unit IDs should be unique")
		seen[unit.ID] = true
	}
}

func Test_GivenTagFilter_WhenExpanded_ThenOnlyMatchingScenariosSurvive(t *testing.T) {
	scenarios := []Scenario{
		{Name: "smoke_only", Tags: []Tag{TagSmoke}},
		{Name: "cart_flow", Tags: []Tag{TagRegression, TagCart}},
		{Name: "checkout_flow", Tags: []Tag{TagCheckout}},
	}

	units := Expand(scenarios, []Tag{TagSmoke, TagCart})

	require.Len(t, units, 2)
	assert.Equal(t, "smoke_only", units[0].Name)
	assert.Equal(t, "cart_flow", units[1].Name)
}

func Test_GivenScenarioWithoutUsersOrData_WhenExpanded_ThenSingleUnitCreated(t *testing.T) {
	units := Expand([]Scenario{{Name: "bare", Tags: []Tag{TagSmoke}}}, nil)

	require.Len(t, units, 1)
	assert.Equal(t, "bare", units[0].Name)
	assert.Empty(t, units[0].UserKey)
	assert.Empty(t, units[0].Data.Name)
}

func Test_GivenRawTagList_WhenParsed_ThenEmptyEntriesDropped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Tag
	}{
		{name: "simple list", raw: "smoke,cart", want: []Tag{TagSmoke, TagCart}},
		{name: "whitespace and empties", raw: " smoke , ,checkout,", want: []Tag{TagSmoke, TagCheckout}},
		{name: "empty input", raw: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func Test_GivenScenario_WhenCheckedAgainstTagFilter_ThenAnyOverlapMatches(t *testing.T) {
	s := Scenario{Tags: []Tag{TagSmoke, TagLogin}}

	assert.True(t, s.HasAnyTag(nil))
	assert.True(t, s.HasAnyTag([]Tag{TagLogin}))
	assert.True(t, s.HasAnyTag([]Tag{TagCart, TagSmoke}))
	assert.False(t, s.HasAnyTag([]Tag{TagCart, TagCheckout}))
}
