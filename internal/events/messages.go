package events

import (
	"time"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// Event types.
const (
	DatasetLoaded       = "dataset:loaded"
	DatasetReloaded     = "dataset:reloaded"
	DatasetReloadFailed = "dataset:reload_failed"
	SelectionChanged    = "selection:changed"
)

// DatasetLoadedEvent is the payload for dataset:loaded and dataset:reloaded.
type DatasetLoadedEvent struct {
	Game     string    `json:"game"`
	Species  int       `json:"species"`
	Moves    int       `json:"moves"`
	Types    int       `json:"types"`
	LoadedAt time.Time `json:"loadedAt"`
}

// DatasetErrorEvent is the payload for dataset:reload_failed.
type DatasetErrorEvent struct {
	Game  string `json:"game"`
	Error string `json:"error"`
}

// SelectionChangedEvent is the payload for selection:changed.
type SelectionChangedEvent struct {
	Game string `json:"game"`
	Key  string `json:"key"`
}

// DatasetHooks returns store hooks that dispatch dataset lifecycle events.
func DatasetHooks(d *EventDispatcher) dataset.Hooks {
	return dataset.Hooks{
		OnLoad: func(meta dataset.Meta, reloaded bool) {
			eventType := DatasetLoaded
			if reloaded {
				eventType = DatasetReloaded
			}
			d.Dispatch(New(eventType, DatasetLoadedEvent{
				Game:     meta.Game,
				Species:  meta.Species,
				Moves:    meta.Moves,
				Types:    meta.Types,
				LoadedAt: meta.LoadedAt,
			}))
		},
		OnError: func(game string, err error) {
			d.Dispatch(New(DatasetReloadFailed, DatasetErrorEvent{Game: game, Error: err.Error()}))
		},
	}
}
