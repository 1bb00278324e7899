package events

import (
	"log"
	"strings"
)

// LogObserver writes dataset events to the standard logger.
type LogObserver struct {
	name     string
	prefixes []string
}

// NewLogObserver creates an observer that logs events whose type starts with
// one of the given prefixes. No prefixes means every event.
func NewLogObserver(prefixes ...string) *LogObserver {
	return &LogObserver{
		name:     "LogObserver",
		prefixes: prefixes,
	}
}

// OnEvent logs the event.
func (o *LogObserver) OnEvent(event Event) error {
	switch p := event.Payload.(type) {
	case DatasetLoadedEvent:
		log.Printf("[%s] %s: %s (%d species, %d moves, %d types)", o.name, event.Type, p.Game, p.Species, p.Moves, p.Types)
	case DatasetErrorEvent:
		log.Printf("[%s] %s: %s: %s", o.name, event.Type, p.Game, p.Error)
	default:
		log.Printf("[%s] %s", o.name, event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LogObserver) GetName() string {
	return o.name
}

// ShouldHandle matches the configured prefixes.
func (o *LogObserver) ShouldHandle(eventType string) bool {
	if len(o.prefixes) == 0 {
		return true
	}
	for _, p := range o.prefixes {
		if strings.HasPrefix(eventType, p) {
			return true
		}
	}
	return false
}

var _ Observer = (*LogObserver)(nil)

// GameWatcher starts watching a game's data files.
type GameWatcher interface {
	Watch(game string) error
}

// WatchObserver begins watching each game the first time it is loaded, so
// only games someone has opened are reloaded on change.
type WatchObserver struct {
	watcher GameWatcher
}

// NewWatchObserver creates a WatchObserver.
func NewWatchObserver(watcher GameWatcher) *WatchObserver {
	return &WatchObserver{watcher: watcher}
}

// OnEvent starts watching the loaded game.
func (o *WatchObserver) OnEvent(event Event) error {
	p, ok := Payload[DatasetLoadedEvent](event)
	if !ok {
		return nil
	}
	return o.watcher.Watch(p.Game)
}

// GetName returns the observer's name.
func (o *WatchObserver) GetName() string {
	return "WatchObserver"
}

// ShouldHandle accepts first loads only.
func (o *WatchObserver) ShouldHandle(eventType string) bool {
	return eventType == DatasetLoaded
}

var _ Observer = (*WatchObserver)(nil)
