package effectiveness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

func table(rels ...dataset.TypeRelation) *dataset.Dataset {
	return dataset.New("test", nil, nil, nil, rels, dataset.DefaultGameConfig())
}

func ghostDarkTable() *dataset.Dataset {
	return table(
		dataset.TypeRelation{Name: "Normal", Weaknesses: []string{"Fighting"}, Immunities: []string{"Ghost"}},
		dataset.TypeRelation{Name: "Fighting", Weaknesses: []string{"Flying", "Psychic"}},
		dataset.TypeRelation{Name: "Bug", Weaknesses: []string{"Fire", "Flying"}},
		dataset.TypeRelation{
			Name:       "Ghost",
			Weaknesses: []string{"Dark", "Ghost"},
			Immunities: []string{"Normal", "Fighting"},
		},
		dataset.TypeRelation{
			Name:        "Dark",
			Weaknesses:  []string{"Fighting", "Bug"},
			Resistances: []string{"Ghost", "Dark"},
		},
	)
}

func TestCalculate_GhostDark(t *testing.T) {
	res := Calculate(ghostDarkTable(), []string{"Ghost", "Dark"})

	assert.Equal(t, []string{"Normal", "Fighting"}, res.Immune)
	assert.Equal(t, []string{"Bug"}, res.Weaknesses)
	assert.Empty(t, res.HyperEffective)
	assert.Empty(t, res.BarelyEffective)

	// Ghost x2 from Ghost and x0.5 from Dark nets neutral, as does Dark.
	assert.NotContains(t, res.Resistances, "Dark")
	assert.NotContains(t, res.Resistances, "Ghost")
	assert.NotContains(t, res.Weaknesses, "Dark")
}

func TestCalculate_ResistanceWithoutSelfWeakness(t *testing.T) {
	ds := table(
		dataset.TypeRelation{Name: "Ghost", Weaknesses: []string{"Dark"}, Immunities: []string{"Normal", "Fighting"}},
		dataset.TypeRelation{Name: "Dark", Weaknesses: []string{"Fighting", "Bug"}, Resistances: []string{"Ghost", "Dark"}},
	)

	res := Calculate(ds, []string{"Ghost", "Dark"})

	assert.Equal(t, []string{"Ghost"}, res.Resistances)
	assert.Equal(t, []string{"Bug"}, res.Weaknesses)
	assert.ElementsMatch(t, []string{"Normal", "Fighting"}, res.Immune)
}

func TestCalculate_ImmunityDominance(t *testing.T) {
	ds := table(
		dataset.TypeRelation{Name: "Flying", Weaknesses: []string{"Ice"}, Immunities: []string{"Ground"}},
		dataset.TypeRelation{Name: "Steel", Weaknesses: []string{"Ground", "Fire"}},
	)

	for _, subject := range [][]string{{"Flying", "Steel"}, {"Steel", "Flying"}} {
		res := Calculate(ds, subject)
		assert.Contains(t, res.Immune, "Ground", "subject %v", subject)
		assert.NotContains(t, res.Weaknesses, "Ground", "subject %v", subject)
	}
}

func TestCalculate_OrderIndependent(t *testing.T) {
	ds := table(
		dataset.TypeRelation{Name: "Fire", Weaknesses: []string{"Water", "Rock", "Ground"}, Resistances: []string{"Fire", "Grass", "Bug", "Steel"}},
		dataset.TypeRelation{Name: "Flying", Weaknesses: []string{"Rock", "Electric", "Ice"}, Resistances: []string{"Grass", "Bug", "Fighting"}, Immunities: []string{"Ground"}},
	)

	a := Calculate(ds, []string{"Fire", "Flying"})
	b := Calculate(ds, []string{"Flying", "Fire"})

	assert.ElementsMatch(t, a.Immune, b.Immune)
	assert.ElementsMatch(t, a.HyperEffective, b.HyperEffective)
	assert.ElementsMatch(t, a.Weaknesses, b.Weaknesses)
	assert.ElementsMatch(t, a.BarelyEffective, b.BarelyEffective)
	assert.ElementsMatch(t, a.Resistances, b.Resistances)

	assert.Equal(t, []string{"Rock"}, a.HyperEffective)
	assert.ElementsMatch(t, []string{"Grass", "Bug"}, a.BarelyEffective)
	assert.Equal(t, []string{"Ground"}, a.Immune)
}

func TestCalculate_BucketOrderFollowsTable(t *testing.T) {
	ds := table(
		dataset.TypeRelation{Name: "Water"},
		dataset.TypeRelation{Name: "Grass"},
		dataset.TypeRelation{Name: "Rock", Weaknesses: []string{"Grass", "Water"}},
	)

	res := Calculate(ds, []string{"Rock"})
	assert.Equal(t, []string{"Water", "Grass"}, res.Weaknesses)
}

func TestCalculate_UnlistedAttackersAfterTable(t *testing.T) {
	ds := table(
		dataset.TypeRelation{Name: "Fairy"},
		dataset.TypeRelation{Name: "Light", Weaknesses: []string{"Shadow", "Fairy", "Void"}},
	)

	res := Calculate(ds, []string{"Light"})
	assert.Equal(t, []string{"Fairy", "Shadow", "Void"}, res.Weaknesses)
}

func TestCalculate_SkipsUnknownTypes(t *testing.T) {
	res := Calculate(ghostDarkTable(), []string{"Cosmic", "Dark"})

	assert.Equal(t, []string{"Cosmic"}, res.Skipped)
	assert.ElementsMatch(t, []string{"Fighting", "Bug"}, res.Weaknesses)
	assert.ElementsMatch(t, []string{"Ghost", "Dark"}, res.Resistances)
}

func TestCalculate_CaseInsensitive(t *testing.T) {
	ds := table(
		dataset.TypeRelation{Name: "Water", Weaknesses: []string{"Grass", "ELECTRIC"}},
		dataset.TypeRelation{Name: "Ground", Weaknesses: []string{"grass", "Water"}, Immunities: []string{"Electric"}},
	)

	res := Calculate(ds, []string{"water", "GROUND", "Water"})

	require.Len(t, res.Subject, 2)
	assert.Equal(t, []string{"Grass"}, res.HyperEffective)
	assert.Equal(t, []string{"ELECTRIC"}, res.Immune)
}

func TestCalculate_Empty(t *testing.T) {
	res := Calculate(ghostDarkTable(), nil)

	assert.Empty(t, res.Multipliers)
	assert.Empty(t, res.Immune)
	assert.Empty(t, res.Weaknesses)
}

func TestMultiplier(t *testing.T) {
	m := Neutral().Scale(2).Scale(2)
	if m.Value() != 4 {
		t.Errorf("Expected 4, got %v", m.Value())
	}

	m = m.MakeImmune().Scale(2).Scale(0.5)
	if !m.Immune() || m.Value() != 0 {
		t.Errorf("Expected immune multiplier to stay 0, got %v", m.Value())
	}
}
