package mqtt

import "time"

// ScheduleMessage is the payload published after each optimal solve so that
// downstream consumers (home automation, dashboards) can act on the dispatch.
type ScheduleMessage struct {
	RunID       string               `json:"run_id"`
	Scenario    string               `json:"scenario"`
	Variant     string               `json:"variant"`
	Objective   float64              `json:"objective"`
	Hours       int                  `json:"hours"`
	Series      map[string][]float64 `json:"series"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Publisher pushes solved schedules to an external broker.
type Publisher interface {
	// PublishSchedule publishes the schedule for its scenario and returns
	// once the broker has accepted the message.
	PublishSchedule(msg ScheduleMessage) error

	// Close releases the underlying connection.
	Close()
}
