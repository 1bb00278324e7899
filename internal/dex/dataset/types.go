package dataset

import "time"

// Triple is one evolution entry as stored on the source species.
type Triple struct {
	Target string `json:"target"`
	Param  string `json:"param,omitempty"`
	Method string `json:"method,omitempty"`
}

// Stat is a single base stat in display order.
type Stat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LevelUpMove pairs a learn level with a move name.
type LevelUpMove struct {
	Level string `json:"level"`
	Move  string `json:"move"`
}

// Form is an alternate form of a species.
type Form struct {
	InternalName    string   `json:"internalName,omitempty"`
	Name            string   `json:"name"`
	Types           []string `json:"types"`
	Abilities       []string `json:"abilities"`
	HiddenAbilities []string `json:"hiddenAbilities,omitempty"`
	Stats           []Stat   `json:"stats,omitempty"`
	Moves           []string `json:"moves,omitempty"`
}

// Species is the canonical species record. All loosely typed source fields
// are normalized by the loader; nothing downstream inspects raw JSON.
type Species struct {
	Key             string        `json:"key"`
	Name            string        `json:"name"`
	Types           []string      `json:"types"`
	Abilities       []string      `json:"abilities"`
	HiddenAbilities []string      `json:"hiddenAbilities,omitempty"`
	Stats           []Stat        `json:"stats"`
	LevelUpMoves    []LevelUpMove `json:"levelUpMoves,omitempty"`
	TutorMoves      []string      `json:"tutorMoves,omitempty"`
	EggMoves        []string      `json:"eggMoves,omitempty"`
	EggGroups       []string      `json:"eggGroups,omitempty"`
	Evolutions      []Triple      `json:"evolutions,omitempty"`
	Forms           []Form        `json:"forms,omitempty"`
	Profile         Profile       `json:"profile"`

	// Index is the position of the record in the source file.
	Index int `json:"-"`
}

// Profile holds the descriptive dex fields.
type Profile struct {
	Kind       string `json:"kind,omitempty"`
	DexEntry   string `json:"dexEntry,omitempty"`
	Height     string `json:"height,omitempty"`
	Weight     string `json:"weight,omitempty"`
	BaseExp    string `json:"baseExp,omitempty"`
	CatchRate  string `json:"catchRate,omitempty"`
	Friendship string `json:"friendship,omitempty"`
	GrowthRate string `json:"growthRate,omitempty"`
	GenderRate string `json:"genderRate,omitempty"`
}

// Move is a move definition from moves.json.
type Move struct {
	InternalName string `json:"internalName"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Category     string `json:"category,omitempty"`
	Power        string `json:"power,omitempty"`
	Accuracy     string `json:"accuracy,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Ability is an ability definition from abilities.json.
type Ability struct {
	InternalName string `json:"internalName,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
}

// TypeRelation lists, for one defending type, the attacking types it is weak
// to, resists, and is immune to.
type TypeRelation struct {
	Name        string   `json:"name"`
	Weaknesses  []string `json:"weaknesses"`
	Resistances []string `json:"resistances"`
	Immunities  []string `json:"immunities"`
}

// GameConfig is the optional per-game config file.
type GameConfig struct {
	ExcludedPokemon []string `json:"excludedPokemon" yaml:"excludedPokemon"`
	AllowsForms     string   `json:"AllowsForms" yaml:"AllowsForms"`
}

// FormsAllowed reports whether alternate forms are shown for this game.
func (c GameConfig) FormsAllowed() bool {
	return c.AllowsForms != "N"
}

// DefaultGameConfig returns the config used when a game ships none.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		ExcludedPokemon: []string{},
		AllowsForms:     "Y",
	}
}

// Meta summarizes a loaded snapshot.
type Meta struct {
	Game     string    `json:"game"`
	LoadedAt time.Time `json:"loadedAt"`
	Species  int       `json:"species"`
	Moves    int       `json:"moves"`
	Types    int       `json:"types"`
}
