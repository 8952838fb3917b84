package discord

import (
	"sync/atomic"
	"time"

	"github.com/osse101/ChocoboBot_Go/internal/metrics"
)

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Connected        bool      `json:"connected"`
	Uptime           string    `json:"uptime"`
	CommandsReceived int64     `json:"commands_received"`
	LastCommandTime  time.Time `json:"last_command_time,omitempty"`
}

var (
	startTime       = time.Now()
	commandCounter  atomic.Int64
	lastCommandTime atomic.Int64
)

// RecordCommand counts a handled command
func RecordCommand(name string) {
	commandCounter.Add(1)
	lastCommandTime.Store(time.Now().UnixNano())
	metrics.DiscordCommands.WithLabelValues(name).Inc()
}

// Health reports the gateway connection and command counters
func (b *Bot) Health() HealthStatus {
	status := HealthStatus{
		Connected:        b.Session != nil && b.Session.DataReady,
		Uptime:           time.Since(startTime).Round(time.Second).String(),
		CommandsReceived: commandCounter.Load(),
	}
	if last := lastCommandTime.Load(); last > 0 {
		status.LastCommandTime = time.Unix(0, last)
	}
	return status
}
