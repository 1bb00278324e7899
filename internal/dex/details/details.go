// Package details assembles the render-ready detail view of a species.
package details

import (
	"fmt"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/effectiveness"
	"github.com/ramonehamilton/fangame-dex/internal/dex/evolution"
	"github.com/ramonehamilton/fangame-dex/internal/dex/search"
)

// Placeholders used when data is missing.
const (
	NoDescription     = "No description."
	NoMoveDescription = "No description available"
	NoForms           = "No alternate forms."
	NotAvailable      = "N/A"
	Unknown           = "Unknown"
	NoValue           = "-"
)

// Move tabs.
const (
	TabLevelUp = "levelup"
	TabTutor   = "tutor"
	TabEgg     = "egg"
)

// AbilityInfo is an ability with its description.
type AbilityInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Known       bool   `json:"known"`
}

// MainInfo is the header of the detail view.
type MainInfo struct {
	Key             string             `json:"key"`
	Name            string             `json:"name"`
	Sprite          dataset.Sprite     `json:"sprite"`
	Types           []search.TypeBadge `json:"types"`
	Abilities       []AbilityInfo      `json:"abilities"`
	HiddenAbilities []AbilityInfo      `json:"hiddenAbilities,omitempty"`
}

// FullInfo is the dex data panel.
type FullInfo struct {
	Types      []search.TypeBadge `json:"types"`
	Kind       string             `json:"kind,omitempty"`
	Height     string             `json:"height"`
	Weight     string             `json:"weight"`
	BaseExp    string             `json:"baseExp"`
	CatchRate  string             `json:"catchRate"`
	Friendship string             `json:"friendship"`
	GrowthRate string             `json:"growthRate"`
	GenderRate string             `json:"genderRate"`
	EggGroups  []string           `json:"eggGroups"`
	DexEntry   string             `json:"dexEntry,omitempty"`
}

// FormView is one alternate form.
type FormView struct {
	Name            string             `json:"name"`
	Sprite          dataset.Sprite     `json:"sprite"`
	Types           []search.TypeBadge `json:"types"`
	Abilities       []AbilityInfo      `json:"abilities"`
	HiddenAbilities []AbilityInfo      `json:"hiddenAbilities,omitempty"`
	Stats           []dataset.Stat     `json:"stats,omitempty"`
}

// Forms is the forms panel. Message is set when there are none.
type Forms struct {
	Items   []FormView `json:"items"`
	Message string     `json:"message,omitempty"`
}

// MoveRow is one row of a move table.
type MoveRow struct {
	Name         string `json:"name"`
	Level        string `json:"level,omitempty"`
	Type         string `json:"type"`
	TypeIcon     string `json:"typeIcon,omitempty"`
	Category     string `json:"category"`
	CategoryIcon string `json:"categoryIcon,omitempty"`
	Power        string `json:"power"`
	Accuracy     string `json:"accuracy"`
	Description  string `json:"description"`
}

// MoveTab is one of the level-up, tutor and egg move tables.
type MoveTab struct {
	Tab   string    `json:"tab"`
	Title string    `json:"title"`
	Rows  []MoveRow `json:"rows"`
}

// View is the complete detail view.
type View struct {
	Game          string               `json:"game"`
	Main          MainInfo             `json:"main"`
	Info          FullInfo             `json:"info"`
	Stats         []dataset.Stat       `json:"stats"`
	Forms         Forms                `json:"forms"`
	Moves         []MoveTab            `json:"moves"`
	Evolution     *evolution.Chain     `json:"evolution,omitempty"`
	EvolutionErr  string               `json:"evolutionError,omitempty"`
	Effectiveness effectiveness.Result `json:"effectiveness"`
}

// Assembler builds detail views from one snapshot.
type Assembler struct {
	ds     *dataset.Dataset
	chains *evolution.Builder
	images dataset.Images
}

// NewAssembler creates an assembler. The evolution builder may be shared with
// other callers of the same snapshot.
func NewAssembler(ds *dataset.Dataset, chains *evolution.Builder) *Assembler {
	if chains == nil {
		chains = evolution.NewBuilder(ds)
	}
	return &Assembler{ds: ds, chains: chains, images: dataset.NewImages(ds.Game())}
}

// Build returns the detail view for a species key. An unknown key yields an
// error wrapping dataset.ErrSpeciesNotFound. A broken evolution line does not
// fail the view; the error is reported in EvolutionErr.
func (a *Assembler) Build(key string) (*View, error) {
	s, err := a.ds.Get(key)
	if err != nil {
		return nil, err
	}

	v := &View{
		Game:          a.ds.Game(),
		Main:          a.mainInfo(s),
		Info:          a.fullInfo(s),
		Stats:         s.Stats,
		Forms:         a.forms(s),
		Moves:         a.moveTabs(s),
		Effectiveness: effectiveness.Calculate(a.ds, s.Types),
	}

	chain, err := a.chains.Chain(s.Key)
	if err != nil {
		v.EvolutionErr = fmt.Sprintf("failed to build evolution chain: %v", err)
	} else {
		v.Evolution = chain
	}
	return v, nil
}

func (a *Assembler) mainInfo(s dataset.Species) MainInfo {
	return MainInfo{
		Key:             s.Key,
		Name:            s.Name,
		Sprite:          a.images.Species(s.Key, dataset.ViewFront),
		Types:           search.Badges(s.Types, a.images),
		Abilities:       a.Abilities(s.Abilities),
		HiddenAbilities: a.Abilities(s.HiddenAbilities),
	}
}

// Abilities looks up each ability, ignoring case and whitespace.
func (a *Assembler) Abilities(names []string) []AbilityInfo {
	if len(names) == 0 {
		return nil
	}
	out := make([]AbilityInfo, 0, len(names))
	for _, n := range names {
		ab, ok := a.ds.Ability(n)
		if !ok {
			out = append(out, AbilityInfo{Name: n, Description: NoDescription})
			continue
		}
		out = append(out, AbilityInfo{Name: ab.Name, Description: ab.Description, Known: true})
	}
	return out
}

func (a *Assembler) fullInfo(s dataset.Species) FullInfo {
	p := s.Profile
	return FullInfo{
		Types:      search.Badges(s.Types, a.images),
		Kind:       p.Kind,
		Height:     or(p.Height, NotAvailable),
		Weight:     or(p.Weight, NotAvailable),
		BaseExp:    or(p.BaseExp, NotAvailable),
		CatchRate:  or(p.CatchRate, NotAvailable),
		Friendship: or(p.Friendship, NotAvailable),
		GrowthRate: or(p.GrowthRate, Unknown),
		GenderRate: or(p.GenderRate, Unknown),
		EggGroups:  s.EggGroups,
		DexEntry:   p.DexEntry,
	}
}

func (a *Assembler) forms(s dataset.Species) Forms {
	if len(s.Forms) == 0 {
		return Forms{Items: []FormView{}, Message: NoForms}
	}
	out := Forms{Items: make([]FormView, 0, len(s.Forms))}
	for i, f := range s.Forms {
		out.Items = append(out.Items, FormView{
			Name:            search.FormName(f, i),
			Sprite:          a.images.Form(s.Key, i+1, len(s.Forms)),
			Types:           search.Badges(f.Types, a.images),
			Abilities:       a.Abilities(f.Abilities),
			HiddenAbilities: a.Abilities(f.HiddenAbilities),
			Stats:           f.Stats,
		})
	}
	return out
}

func (a *Assembler) moveTabs(s dataset.Species) []MoveTab {
	levelUp := MoveTab{Tab: TabLevelUp, Title: "Level Up", Rows: []MoveRow{}}
	for _, m := range s.LevelUpMoves {
		row := a.MoveRow(m.Move)
		row.Level = m.Level
		levelUp.Rows = append(levelUp.Rows, row)
	}

	tutor := MoveTab{Tab: TabTutor, Title: "Tutor", Rows: []MoveRow{}}
	for _, name := range s.TutorMoves {
		tutor.Rows = append(tutor.Rows, a.MoveRow(name))
	}

	egg := MoveTab{Tab: TabEgg, Title: "Egg Moves", Rows: []MoveRow{}}
	for _, name := range s.EggMoves {
		egg.Rows = append(egg.Rows, a.MoveRow(name))
	}

	return []MoveTab{levelUp, tutor, egg}
}

// MoveRow joins a move name with its move data, matching InternalName or Name.
func (a *Assembler) MoveRow(name string) MoveRow {
	m, ok := a.ds.Move(name)
	if !ok {
		return MoveRow{
			Name:        name,
			Type:        NotAvailable,
			Category:    NotAvailable,
			Power:       NoValue,
			Accuracy:    NoValue,
			Description: NoMoveDescription,
		}
	}

	row := MoveRow{
		Name:        or(m.Name, name),
		Type:        or(m.Type, NotAvailable),
		Category:    or(m.Category, NotAvailable),
		Power:       or(m.Power, NoValue),
		Accuracy:    or(m.Accuracy, NoValue),
		Description: or(m.Description, NoMoveDescription),
	}
	if m.Type != "" {
		row.TypeIcon = a.images.Type(dataset.CanonicalKey(m.Type))
	}
	if m.Category != "" {
		row.CategoryIcon = a.images.MoveCategory(m.Category)
	}
	return row
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
