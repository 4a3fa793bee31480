package matching

import (
	"testing"

	"skill-bridge/internal/domain/competency"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEligibleAllOf_StrictScenario(t *testing.T) {
	x := uuid.New()
	reqs := []Requirement{{CompetencyID: x, RequiredLevel: competency.LevelIntermediate}}

	cases := []struct {
		name   string
		levels map[uuid.UUID]competency.Level
		want   bool
	}{
		{"advanced satisfies intermediate", map[uuid.UUID]competency.Level{x: competency.LevelAdvanced}, true},
		{"equal level satisfies", map[uuid.UUID]competency.Level{x: competency.LevelIntermediate}, true},
		{"beginner is below", map[uuid.UUID]competency.Level{x: competency.LevelBeginner}, false},
		{"missing competency", map[uuid.UUID]competency.Level{uuid.New(): competency.LevelExpert}, false},
		{"unset level", map[uuid.UUID]competency.Level{x: competency.LevelUnset}, false},
		{"malformed level", map[uuid.UUID]competency.Level{x: competency.Level(42)}, false},
		{"nil profile", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EligibleAllOf(reqs, tc.levels))
			assert.Equal(t, tc.want, PolicyAllOf.Eligible(reqs, tc.levels))
		})
	}
}

func TestEligibleAllOf_NMinusOneOfNIsIneligible(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	reqs := []Requirement{
		{CompetencyID: a, RequiredLevel: competency.LevelBeginner},
		{CompetencyID: b, RequiredLevel: competency.LevelAdvanced},
		{CompetencyID: c, RequiredLevel: competency.LevelIntermediate},
	}
	full := map[uuid.UUID]competency.Level{
		a: competency.LevelBeginner,
		b: competency.LevelExpert,
		c: competency.LevelIntermediate,
	}
	assert.True(t, EligibleAllOf(reqs, full))

	for _, r := range reqs {
		partial := make(map[uuid.UUID]competency.Level, len(full))
		for k, v := range full {
			partial[k] = v
		}
		delete(partial, r.CompetencyID)
		assert.False(t, EligibleAllOf(reqs, partial), "missing %s", r.CompetencyID)

		partial[r.CompetencyID] = r.RequiredLevel - 1
		assert.False(t, EligibleAllOf(reqs, partial), "below %s", r.CompetencyID)
	}
}

func TestEligibleAllOf_CountsMatchDistinctRequirements(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	reqs := []Requirement{
		{CompetencyID: a, RequiredLevel: competency.LevelBeginner},
		{CompetencyID: a, RequiredLevel: competency.LevelAdvanced},
		{CompetencyID: b, RequiredLevel: competency.LevelBeginner},
	}
	assert.False(t, EligibleAllOf(reqs, map[uuid.UUID]competency.Level{
		a: competency.LevelIntermediate,
		b: competency.LevelBeginner,
	}))
	assert.True(t, EligibleAllOf(reqs, map[uuid.UUID]competency.Level{
		a: competency.LevelAdvanced,
		b: competency.LevelBeginner,
	}))
}

func TestEligibleAllOf_OrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	levels := map[uuid.UUID]competency.Level{a: competency.LevelExpert, b: competency.LevelExpert}
	r1 := []Requirement{{CompetencyID: a, RequiredLevel: competency.LevelExpert}, {CompetencyID: b, RequiredLevel: competency.LevelAdvanced}}
	r2 := []Requirement{r1[1], r1[0]}
	assert.Equal(t, EligibleAllOf(r1, levels), EligibleAllOf(r2, levels))
}

func TestEligible_EmptyRequirementsNeverQualify(t *testing.T) {
	levels := map[uuid.UUID]competency.Level{uuid.New(): competency.LevelExpert}
	assert.False(t, EligibleAllOf(nil, levels))
	assert.False(t, EligibleAnyOf(nil, levels))
}

func TestEligibleAnyOf(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	reqs := []Requirement{
		{CompetencyID: a, RequiredLevel: competency.LevelAdvanced},
		{CompetencyID: b, RequiredLevel: competency.LevelExpert},
	}
	assert.True(t, EligibleAnyOf(reqs, map[uuid.UUID]competency.Level{a: competency.LevelAdvanced}))
	assert.True(t, PolicyAnyOf.Eligible(reqs, map[uuid.UUID]competency.Level{a: competency.LevelBeginner, b: competency.LevelExpert}))
	assert.False(t, EligibleAnyOf(reqs, map[uuid.UUID]competency.Level{a: competency.LevelIntermediate, b: competency.LevelAdvanced}))
	assert.False(t, EligibleAnyOf(reqs, map[uuid.UUID]competency.Level{a: competency.LevelUnset}))
}

func TestPolicy_Unknown(t *testing.T) {
	a := uuid.New()
	reqs := []Requirement{{CompetencyID: a, RequiredLevel: competency.LevelBeginner}}
	assert.False(t, Policy(99).Eligible(reqs, map[uuid.UUID]competency.Level{a: competency.LevelExpert}))
	assert.Equal(t, "unknown", Policy(99).String())
}
