package game

// EventType names a state change
type EventType string

const (
	EventRosterChanged     EventType = "roster_changed"
	EventCategoriesChanged EventType = "categories_changed"
	EventGameStarted       EventType = "game_started"
	EventCardToggled       EventType = "card_toggled"
	EventAllCardsSeen      EventType = "all_cards_seen"
	EventTimerStarted      EventType = "timer_started"
	EventTimerPaused       EventType = "timer_paused"
	EventTimerTick         EventType = "timer_tick"
	EventPlayerEliminated  EventType = "player_eliminated"
	EventGameEnded         EventType = "game_ended"
	EventRestarted         EventType = "restarted"
	EventReset             EventType = "reset"
)

// Event describes a change, with the timer and result as of that change
type Event struct {
	Type          EventType
	PlayerID      string
	TimeRemaining int
	TimerRunning  bool
	Result        Result
	Reason        string
}

// Listener receives engine events. It is called without the engine lock held
// and may call back into the engine.
type Listener func(Event)

// emit queues an event for delivery once the lock is released
func (e *Engine) emit(typ EventType, playerID string) {
	if e.listener == nil {
		return
	}
	e.pending = append(e.pending, Event{
		Type:          typ,
		PlayerID:      playerID,
		TimeRemaining: e.timeRemaining,
		TimerRunning:  e.timerRunning,
		Result:        e.result,
		Reason:        e.reason,
	})
}

// unlock releases the engine lock and then delivers queued events
func (e *Engine) unlock() {
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, ev := range pending {
		e.listener(ev)
	}
}
