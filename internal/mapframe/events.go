package mapframe

// EventType identifies a change the renderer should react to.
type EventType int

const (
	// EventUnitsChanged carries the new unit.Snapshot.
	EventUnitsChanged EventType = iota
	// EventSelectionChanged carries a SelectionEvent.
	EventSelectionChanged
	// EventMeasurementChanged carries the current measure.Reading.
	EventMeasurementChanged
	// EventMapChanged carries the current battlefield.Dimensions.
	EventMapChanged
	// EventBackgroundChanged carries the new background imageload.Handle.
	EventBackgroundChanged
)

func (e EventType) String() string {
	switch e {
	case EventUnitsChanged:
		return "units-changed"
	case EventSelectionChanged:
		return "selection-changed"
	case EventMeasurementChanged:
		return "measurement-changed"
	case EventMapChanged:
		return "map-changed"
	case EventBackgroundChanged:
		return "background-changed"
	default:
		return "unknown"
	}
}

// EventListener is a callback for frame events.
type EventListener func(data interface{})

type event struct {
	kind EventType
	data interface{}
}

// On registers an event listener for the specified event type.
func (f *Frame) On(kind EventType, listener EventListener) {
	f.lmu.Lock()
	defer f.lmu.Unlock()
	f.listeners[kind] = append(f.listeners[kind], listener)
}

// Emit triggers all listeners for the specified event type.
func (f *Frame) Emit(kind EventType, data interface{}) {
	f.lmu.RLock()
	listeners := f.listeners[kind]
	f.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// queue defers an event until the frame lock is released. Callers hold f.mu.
func (f *Frame) queue(kind EventType, data interface{}) {
	f.pending = append(f.pending, event{kind: kind, data: data})
}
