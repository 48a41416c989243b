package game

import (
	"time"
)

func (g *Game) cancelReconnectionTimer() {
	if g.reconnectionTimerCancel != nil {
		close(g.reconnectionTimerCancel)
		g.reconnectionTimerCancel = nil
	}
	g.disconnected.Store(false)
}

func (g *Game) handlePlayerDisconnected() {
	if g.IsDisconnected() {
		return
	}
	g.disconnected.Store(true)
	timeoutSec := g.Config.ReconnectTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = 120
	}
	g.ReconnectionDeadline = time.Now().Add(time.Duration(timeoutSec) * time.Second)
	g.reconnectionTimerCancel = make(chan struct{})
	cancel := g.reconnectionTimerCancel
	go func() {
		select {
		case <-time.After(time.Duration(timeoutSec) * time.Second):
			select {
			case g.Actions <- Action{Type: ActionReconnectionTimeout}:
			case <-g.Done:
			}
		case <-cancel:
		}
	}()
}

func (g *Game) handleReconnectionTimeout() {
	// Rejoin may have won the race against the timer.
	if !g.IsDisconnected() {
		return
	}
	g.cancelReconnectionTimer()
	g.end(nil, EndReconnectTimeout)
}

func (g *Game) handleRejoinCompleted(newSend chan []byte) {
	g.cancelReconnectionTimer()
	if g.Player != nil && newSend != nil {
		g.Player.Send = newSend
	}
	g.sendState()
}
