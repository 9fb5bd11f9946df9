// Package models defines the domain types for Herald.
package models

import "time"

// StateRequired is the creation-event state that puts a labor in scope
// for digesting. Labors created in any other state are ignored.
const StateRequired = "required"

// NoQuestID is the sentinel quest id used to group labors that have no
// associated quest. It is never the id of a real quest.
const NoQuestID = 0

// Quest is a tracked initiative that may originate one or more labors.
// Quests are read as an immutable snapshot for the duration of a run.
type Quest struct {
	ID          int       `json:"id"`
	Creator     string    `json:"creator"`
	Description string    `json:"description"`
	Embarked    time.Time `json:"embarked"`
}

// EventType categorises an event; State is the part the digest cares about.
type EventType struct {
	Category string `json:"category"`
	State    string `json:"state"`
}

// Event records a state transition on a labor. Every labor carries its
// creation event so the digest can tell required work from the rest.
type Event struct {
	ID        int       `json:"id"`
	Hostname  string    `json:"hostname"`
	EventType EventType `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
}

// Labor is an individual outstanding task tied to a host. QuestID is
// NoQuestID when the labor was opened outside any quest.
type Labor struct {
	ID            int    `json:"id"`
	QuestID       int    `json:"questId"`
	Hostname      string `json:"hostname"`
	CreationEvent Event  `json:"creationEvent"`
}

// Required reports whether the labor's creation event marks it as
// needing attention.
func (l Labor) Required() bool {
	return l.CreationEvent.EventType.State == StateRequired
}
