package search

import (
	"strconv"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// Card is the listing view of a species.
type Card struct {
	Key             string         `json:"key"`
	Name            string         `json:"name"`
	Types           []TypeBadge    `json:"types"`
	Abilities       []string       `json:"abilities"`
	HiddenAbilities []string       `json:"hiddenAbilities,omitempty"`
	Stats           []dataset.Stat `json:"stats"`
	Sprite          dataset.Sprite `json:"sprite"`
	Forms           []FormCard     `json:"forms,omitempty"`
}

// TypeBadge is a type name with its icon.
type TypeBadge struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// FormCard is the listing view of an alternate form.
type FormCard struct {
	Name      string         `json:"name"`
	Types     []TypeBadge    `json:"types"`
	Abilities []string       `json:"abilities"`
	Sprite    dataset.Sprite `json:"sprite"`
}

// NewCard builds the card for a species. Forms are only present when the
// snapshot allows them.
func NewCard(s dataset.Species, images dataset.Images) Card {
	c := Card{
		Key:             s.Key,
		Name:            s.Name,
		Types:           Badges(s.Types, images),
		Abilities:       s.Abilities,
		HiddenAbilities: s.HiddenAbilities,
		Stats:           s.Stats,
		Sprite:          images.Species(s.Key, dataset.ViewFront),
	}
	for i, f := range s.Forms {
		c.Forms = append(c.Forms, FormCard{
			Name:      FormName(f, i),
			Types:     Badges(f.Types, images),
			Abilities: f.Abilities,
			Sprite:    images.Form(s.Key, i+1, len(s.Forms)),
		})
	}
	return c
}

// Cards builds cards for a listing.
func Cards(list []dataset.Species, game string) []Card {
	images := dataset.NewImages(game)
	out := make([]Card, 0, len(list))
	for _, s := range list {
		out = append(out, NewCard(s, images))
	}
	return out
}

// Badges pairs type names with their icons.
func Badges(types []string, images dataset.Images) []TypeBadge {
	out := make([]TypeBadge, 0, len(types))
	for _, t := range types {
		out = append(out, TypeBadge{Name: t, Icon: images.Type(t)})
	}
	return out
}

// FormName returns a form's display name, numbering unnamed forms from 1.
func FormName(f dataset.Form, idx int) string {
	if f.Name != "" {
		return f.Name
	}
	return "Form " + strconv.Itoa(idx+1)
}
