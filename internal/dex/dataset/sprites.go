package dataset

import (
	"fmt"
	"path"
	"strings"
)

// Sprite is an image reference plus the fallbacks a client should try in
// order when the primary image is missing.
type Sprite struct {
	Src       string   `json:"src"`
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// Sprite view folders shipped with each game.
const (
	ViewFront = "Front"
	ViewBack  = "Back"
	ViewShiny = "Shiny"
	ViewIcons = "Icons"
)

// placeholderImage is shown when every candidate fails.
const placeholderImage = "000.png"

// Images builds image paths relative to the game directory.
type Images struct {
	base string
}

// NewImages returns an image path builder for the given game.
func NewImages(game string) Images {
	return Images{base: path.Join("games", game, "images")}
}

// Species returns the sprite for a species in the given view. A "T" variant
// is tried when the plain image is missing.
func (im Images) Species(key, view string) Sprite {
	if view == "" {
		view = ViewFront
	}
	key = strings.ToUpper(key)
	return Sprite{
		Src: path.Join(im.base, view, key+".png"),
		Fallbacks: []string{
			path.Join(im.base, view, key+"T.png"),
			path.Join(im.base, view, placeholderImage),
		},
	}
}

// Form returns the sprite for the formIndex-th (1-based) of formCount forms.
// Subsequent numbered images are tried before the placeholder.
func (im Images) Form(baseKey string, formIndex, formCount int) Sprite {
	base := strings.TrimSuffix(baseKey, "T")
	s := Sprite{Src: path.Join(im.base, ViewFront, fmt.Sprintf("%s_%d.png", base, formIndex))}
	for i := formIndex + 1; i <= formCount+1; i++ {
		s.Fallbacks = append(s.Fallbacks, path.Join(im.base, ViewFront, fmt.Sprintf("%s_%d.png", base, i)))
	}
	s.Fallbacks = append(s.Fallbacks, path.Join(im.base, ViewFront, placeholderImage))
	return s
}

// Type returns the icon for a type.
func (im Images) Type(name string) string {
	return path.Join(im.base, "Types", name+".png")
}

// Item returns the icon for an item.
func (im Images) Item(name string) string {
	return path.Join(im.base, "Items", name+".png")
}

// MoveCategory returns the icon for a move category.
func (im Images) MoveCategory(category string) string {
	return path.Join(im.base, "Moves", strings.ToUpper(category)+".png")
}
