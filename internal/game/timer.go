package game

import (
	"context"
	"fmt"
)

// StartTimer (re)starts the round countdown, replacing any running tick source
func (e *Engine) StartTimer() error {
	e.mu.Lock()
	defer e.unlock()

	if e.location == "" {
		return ErrGameNotStarted
	}
	if e.result != ResultNone {
		return ErrGameOver
	}

	e.cancelGraceLocked()
	e.startTimerLocked()
	return nil
}

// PauseTimer stops ticking and keeps the remaining time. A pending round
// start is dropped; ResumeTimer starts the countdown instead.
func (e *Engine) PauseTimer() {
	e.mu.Lock()
	defer e.unlock()

	e.cancelGraceLocked()
	if !e.timerRunning {
		return
	}
	e.stopTimerLocked()
	e.emit(EventTimerPaused, "")
}

// ResumeTimer restarts a paused countdown. It does nothing if the timer is
// already running, time is up or the game is over.
func (e *Engine) ResumeTimer() bool {
	e.mu.Lock()
	defer e.unlock()

	if e.timerRunning || e.timeRemaining <= 0 || e.location == "" || e.result != ResultNone {
		return false
	}
	e.startTimerLocked()
	return true
}

// StopTimer halts the countdown and drops any pending round start
func (e *Engine) StopTimer() {
	e.mu.Lock()
	defer e.unlock()

	running := e.timerRunning
	e.cancelTimersLocked()
	if running {
		e.emit(EventTimerPaused, "")
	}
}

// scheduleRoundLocked starts the countdown once the reveal grace has passed
func (e *Engine) scheduleRoundLocked() {
	e.cancelGraceLocked()
	session := e.session
	e.grace = e.clock.AfterFunc(e.rules.RevealGrace, func() {
		e.beginRound(session)
	})
}

func (e *Engine) beginRound(session uint64) {
	e.mu.Lock()
	defer e.unlock()

	if session != e.session || e.result != ResultNone || e.timerRunning || !e.allFinishedLocked() {
		return
	}
	e.grace = nil
	e.startTimerLocked()
}

func (e *Engine) startTimerLocked() {
	e.stopTimerLocked()

	ctx, cancel := context.WithCancel(context.Background())
	e.timerGen++
	e.timerCancel = cancel
	e.timerRunning = true
	if e.startedAt.IsZero() {
		e.startedAt = e.clock.Now()
	}

	go e.runTicker(ctx, e.clock.NewTicker(tickInterval), e.timerGen)
	e.emit(EventTimerStarted, "")
}

func (e *Engine) stopTimerLocked() {
	if e.timerCancel != nil {
		e.timerCancel()
		e.timerCancel = nil
	}
	e.timerRunning = false
}

func (e *Engine) cancelGraceLocked() {
	if e.grace != nil {
		e.grace.Stop()
		e.grace = nil
	}
}

func (e *Engine) cancelTimersLocked() {
	e.stopTimerLocked()
	e.cancelGraceLocked()
}

func (e *Engine) runTicker(ctx context.Context, ticker Ticker, gen uint64) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !e.tick(gen) {
				return
			}
		}
	}
}

// tick decrements the countdown. Ticks from a replaced tick source are
// dropped. It reports whether the tick source should keep running.
func (e *Engine) tick(gen uint64) bool {
	e.mu.Lock()
	defer e.unlock()

	if gen != e.timerGen || !e.timerRunning {
		return false
	}

	e.timeRemaining--
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.endGameLocked(ResultSpyWins, ReasonTimeExpired)
		return false
	}
	e.emit(EventTimerTick, "")
	return true
}

// FormatTime renders seconds as minutes:seconds, e.g. 125 -> "2:05"
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
