package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImages_Species(t *testing.T) {
	im := NewImages("vanguard")

	s := im.Species("bulbasaur", "")
	assert.Equal(t, "games/vanguard/images/Front/BULBASAUR.png", s.Src)
	assert.Equal(t, []string{
		"games/vanguard/images/Front/BULBASAURT.png",
		"games/vanguard/images/Front/000.png",
	}, s.Fallbacks)

	assert.Equal(t, "games/vanguard/images/Shiny/MEW.png", im.Species("MEW", ViewShiny).Src)
}

func TestImages_Form(t *testing.T) {
	s := NewImages("ss2").Form("ROTOMT", 2, 3)

	assert.Equal(t, "games/ss2/images/Front/ROTOM_2.png", s.Src)
	assert.Equal(t, []string{
		"games/ss2/images/Front/ROTOM_3.png",
		"games/ss2/images/Front/ROTOM_4.png",
		"games/ss2/images/Front/000.png",
	}, s.Fallbacks)
}

func TestImages_Icons(t *testing.T) {
	im := NewImages("ss2")

	assert.Equal(t, "games/ss2/images/Types/FIRE.png", im.Type("FIRE"))
	assert.Equal(t, "games/ss2/images/Items/FIRESTONE.png", im.Item("FIRESTONE"))
	assert.Equal(t, "games/ss2/images/Moves/PHYSICAL.png", im.MoveCategory("Physical"))
}
