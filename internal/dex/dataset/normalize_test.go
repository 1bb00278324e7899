package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{"array", `["Overgrow", " Chlorophyll "]`, []string{"Overgrow", "Chlorophyll"}},
		{"comma string", `"Overgrow, Chlorophyll,,"`, []string{"Overgrow", "Chlorophyll"}},
		{"single string", `"Blaze"`, []string{"Blaze"}},
		{"empty string", `""`, []string{}},
		{"numbers", `[1, 2]`, []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(gjson.Parse(tt.json))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Nil(t, Tokens(gjson.Get(`{}`, "missing")))
	assert.Nil(t, Tokens(gjson.Parse(`null`)))
}

func TestParseEvolutionString(t *testing.T) {
	got := ParseEvolutionString("CHARMELEON,16,LEVEL,CHARIZARD")
	require.Len(t, got, 1)
	assert.Equal(t, Triple{Target: "CHARMELEON", Param: "16", Method: "LEVEL"}, got[0])

	got = ParseEvolutionString(" IVYSAUR , 16 , Level ,, VENUSAUR,32,Level")
	assert.Equal(t, []Triple{
		{Target: "IVYSAUR", Param: "16", Method: "Level"},
		{Target: "VENUSAUR", Param: "32", Method: "Level"},
	}, got)

	assert.Empty(t, ParseEvolutionString(""))
	assert.Empty(t, ParseEvolutionString("ONLY,TWO"))
}

func TestParseEvolutions(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    []Triple
		dropped int
	}{
		{
			name: "nested arrays",
			json: `[["VAPOREON","WATERSTONE","Item"],["JOLTEON",1,"Item"],["BROKEN","x"]]`,
			want: []Triple{
				{Target: "VAPOREON", Param: "WATERSTONE", Method: "Item"},
				{Target: "JOLTEON", Param: "1", Method: "Item"},
			},
			dropped: 2,
		},
		{
			name:    "flat array",
			json:    `["IVYSAUR","16","Level","EXTRA"]`,
			want:    []Triple{{Target: "IVYSAUR", Param: "16", Method: "Level"}},
			dropped: 1,
		},
		{
			name:    "string",
			json:    `"CHARMELEON,16,LEVEL,CHARIZARD"`,
			want:    []Triple{{Target: "CHARMELEON", Param: "16", Method: "LEVEL"}},
			dropped: 1,
		},
		{
			name: "empty",
			json: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := ParseEvolutions(gjson.Parse(tt.json))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dropped, dropped)
		})
	}
}

func TestParseStats(t *testing.T) {
	stats := parseStats(gjson.Parse(`[45, 49, "49", 45, 65, 65]`))
	require.Len(t, stats, 6)

	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"HP", "Attack", "Defense", "Sp. Atk", "Sp. Def", "Speed"}, names)
	assert.Equal(t, "45", stats[5].Value)
	assert.Equal(t, "65", stats[3].Value)

	assert.Equal(t, []Stat{{Name: "HP", Value: "100"}}, parseStats(gjson.Parse(`[100]`)))

	obj := parseStats(gjson.Parse(`{"HP": 10, "Speed": 20}`))
	assert.Equal(t, []Stat{{Name: "HP", Value: "10"}, {Name: "Speed", Value: "20"}}, obj)

	assert.Nil(t, parseStats(gjson.Parse(`[1, 2, 3]`)))
}

func TestParseSpecies(t *testing.T) {
	data := []byte(`[
		{
			"InternalName": "BULBASAUR",
			"Name": "Bulbasaur",
			"Type1": "GRASS",
			"Type2": "POISON",
			"BaseStats": [45, 49, 49, 45, 65, 65],
			"Abilities": "OVERGROW",
			"HiddenAbility": ["CHLOROPHYLL"],
			"Moves": [1, "TACKLE", 3, "GROWL"],
			"TutorMoves": "CUT,STRENGTH",
			"EggMoves": ["PETALDANCE"],
			"Compatibility": "Monster, Grass",
			"Rareness": 45,
			"Kind": "Seed",
			"Evolutions": "IVYSAUR,16,Level"
		},
		{
			"InternalName": "DITTO",
			"Type1": "NORMAL",
			"Type2": "NORMAL",
			"BaseStats": [48],
			"Forms": [{"FormName": "Shiny", "Type1": "STEEL"}]
		},
		{"Name": "No key"}
	]`)

	species, err := ParseSpecies(data)
	require.NoError(t, err)
	require.Len(t, species, 2)

	b := species[0]
	assert.Equal(t, "BULBASAUR", b.Key)
	assert.Equal(t, []string{"GRASS", "POISON"}, b.Types)
	assert.Equal(t, []string{"OVERGROW"}, b.Abilities)
	assert.Equal(t, []string{"CHLOROPHYLL"}, b.HiddenAbilities)
	assert.Equal(t, []LevelUpMove{{Level: "1", Move: "TACKLE"}, {Level: "3", Move: "GROWL"}}, b.LevelUpMoves)
	assert.Equal(t, []string{"CUT", "STRENGTH"}, b.TutorMoves)
	assert.Equal(t, []string{"Monster", "Grass"}, b.EggGroups)
	assert.Equal(t, "45", b.Profile.CatchRate)
	assert.Equal(t, "Seed", b.Profile.Kind)
	assert.Equal(t, []Triple{{Target: "IVYSAUR", Param: "16", Method: "Level"}}, b.Evolutions)
	assert.Equal(t, 0, b.Index)

	d := species[1]
	assert.Equal(t, "DITTO", d.Name)
	assert.Equal(t, []string{"NORMAL"}, d.Types)
	require.Len(t, d.Forms, 1)
	assert.Equal(t, "Shiny", d.Forms[0].Name)
	assert.Equal(t, []string{"STEEL"}, d.Forms[0].Types)
	assert.Equal(t, 1, d.Index)
}

func TestParseSpecies_Errors(t *testing.T) {
	_, err := ParseSpecies([]byte(`{"not": "an array"}`))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "species", perr.File)

	_, err = ParseSpecies([]byte(`[{`))
	assert.Error(t, err)
}

func TestParseTypes(t *testing.T) {
	arr, err := ParseTypes([]byte(`[
		{"Name": "Fire", "Weaknesses": "Water,Ground", "Resistances": ["Grass"]},
		{"Name": "Water", "Weaknesses": ["Grass"], "Immunities": []}
	]`))
	require.NoError(t, err)
	require.Len(t, arr, 2)
	assert.Equal(t, "Fire", arr[0].Name)
	assert.Equal(t, []string{"Water", "Ground"}, arr[0].Weaknesses)
	assert.Equal(t, []string{"Grass"}, arr[0].Resistances)

	obj, err := ParseTypes([]byte(`{
		"Water": {"Weaknesses": ["Grass"]},
		"Fire": {"weaknesses": ["Water"]},
		"Bug": {}
	}`))
	require.NoError(t, err)
	var names []string
	for _, rel := range obj {
		names = append(names, rel.Name)
	}
	assert.Equal(t, []string{"Water", "Fire", "Bug"}, names)
	assert.Equal(t, []string{"Water"}, obj[1].Weaknesses)

	_, err = ParseTypes([]byte(`"nope"`))
	assert.Error(t, err)
}

func TestParseMovesAndAbilities(t *testing.T) {
	moves, err := ParseMoves([]byte(`[{"InternalName":"TACKLE","Name":"Tackle","Type":"NORMAL","Category":"Physical","BaseDamage":40,"Accuracy":100}]`))
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "40", moves[0].Power)

	abilities, err := ParseAbilities([]byte(`[{"Name":"Overgrow","Description":"Powers up Grass moves."}]`))
	require.NoError(t, err)
	require.Len(t, abilities, 1)
	assert.Equal(t, "Powers up Grass moves.", abilities[0].Description)
}
