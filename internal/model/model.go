// Package model defines the core entities of the event-triage system:
// events, their AI analysis payloads, contact assignments and follow-up
// state, plus the derived calendar and stakeholder projections.
package model

import "time"

// Priority is the triage priority assigned by the analysis step.
type Priority string

const (
	PriorityHigh       Priority = "High"
	PriorityMedium     Priority = "Medium"
	PriorityLow        Priority = "Low"
	PriorityIrrelevant Priority = "Irrelevant"
)

// ValidPriority reports whether p is one of the known priority literals.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityIrrelevant:
		return true
	}
	return false
}

// Status is the follow-up workflow stage. The literals are persisted
// verbatim; do not rename them.
type Status string

const (
	StatusToRespond   Status = "To Respond"
	StatusOnHold      Status = "Responsed - On hold for updates"
	StatusToBeBriefed Status = "Confirmation - To be briefed"
	StatusPrepReady   Status = "Prep ready"
	StatusCompleted   Status = "Completed - No follow up"
	StatusCompletedFU Status = "Completed - Follow Up"
	StatusMOsComms    Status = "MOs comms"
	StatusNotRelevant Status = "Not Relevant"
)

// Statuses lists every workflow stage in pipeline order.
var Statuses = []Status{
	StatusToRespond,
	StatusOnHold,
	StatusToBeBriefed,
	StatusPrepReady,
	StatusCompleted,
	StatusCompletedFU,
	StatusMOsComms,
	StatusNotRelevant,
}

// ValidStatus reports whether s is one of the known workflow stages.
func ValidStatus(s Status) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// RepresentativeRole describes the assigned representative's role at the event.
type RepresentativeRole string

const (
	RoleSpeaker      RepresentativeRole = "Speaker"
	RoleParticipant  RepresentativeRole = "Participant"
	RoleActivityHost RepresentativeRole = "Activity Host"
	RoleOther        RepresentativeRole = "Other"
)

// AnalysisResult is the structured metadata extracted from an invitation
// by the AI collaborator. Date fields are plain YYYY-MM-DD strings; a
// malformed or empty Date excludes the event from calendar placement but
// is never an error.
type AnalysisResult struct {
	Sender            string   `json:"sender" yaml:"sender"`
	SenderEmail       string   `json:"senderEmail,omitempty" yaml:"senderEmail,omitempty"`
	Subject           string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	Institution       string   `json:"institution" yaml:"institution"`
	EventName         string   `json:"eventName" yaml:"eventName"`
	Theme             string   `json:"theme" yaml:"theme"`
	Description       string   `json:"description" yaml:"description"`
	Priority          Priority `json:"priority" yaml:"priority"`
	PriorityScore     int      `json:"priorityScore" yaml:"priorityScore"` // 0-100
	PriorityReasoning string   `json:"priorityReasoning,omitempty" yaml:"priorityReasoning,omitempty"`
	Date              string   `json:"date" yaml:"date"`
	Venue             string   `json:"venue" yaml:"venue"`
	InitialDeadline   string   `json:"initialDeadline,omitempty" yaml:"initialDeadline,omitempty"`
	FinalDeadline     string   `json:"finalDeadline,omitempty" yaml:"finalDeadline,omitempty"`
	LinkedActivities  []string `json:"linkedActivities" yaml:"linkedActivities"`
	RegistrationLink  string   `json:"registrationLink,omitempty" yaml:"registrationLink,omitempty"`
	ProgrammeLink     string   `json:"programmeLink,omitempty" yaml:"programmeLink,omitempty"`
}

// Contact is a standalone directory entry. Its lifecycle is independent of
// events: deleting a contact unassigns it from events rather than cascading.
type Contact struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
	Role         string `json:"role" yaml:"role"`
	Organization string `json:"organization" yaml:"organization"`
	Notes        string `json:"notes" yaml:"notes"`
}

// ContactAssignment embeds a snapshot of a Contact on an event plus
// event-specific assignment fields. The snapshot is only synchronized with
// the contact directory through an explicit propagation step.
type ContactAssignment struct {
	ContactID    string             `json:"contactId,omitempty" yaml:"contactId,omitempty"`
	PolContact   string             `json:"polContact" yaml:"polContact"`
	Name         string             `json:"name" yaml:"name"`
	Email        string             `json:"email" yaml:"email"`
	Role         string             `json:"role" yaml:"role"`
	Organization string             `json:"organization" yaml:"organization"`
	RepRole      RepresentativeRole `json:"repRole" yaml:"repRole"`
	Notes        string             `json:"notes" yaml:"notes"`
}

// CommsPack bundles the communication-ready fields prepared around an event.
type CommsPack struct {
	Remarks        string `json:"remarks" yaml:"remarks"`
	Representative string `json:"representative" yaml:"representative"`
	DatePlace      string `json:"datePlace" yaml:"datePlace"`
	AdditionalInfo string `json:"additionalInfo" yaml:"additionalInfo"`
	PosterData     string `json:"posterData,omitempty" yaml:"posterData,omitempty"`
}

// FollowUpState tracks where an event sits in the staff workflow.
type FollowUpState struct {
	Status         Status    `json:"status" yaml:"status"`
	Briefing       string    `json:"briefing" yaml:"briefing"`
	PrepResources  string    `json:"prepResources" yaml:"prepResources"`
	PostEventNotes string    `json:"postEventNotes" yaml:"postEventNotes"`
	CommsPack      CommsPack `json:"commsPack" yaml:"commsPack"`
}

// Event is the root aggregate. Created on successful analysis, mutated in
// place by staff edits, deleted explicitly by id. The in-memory event store
// is the only long-lived owner.
type Event struct {
	ID           string            `json:"id" yaml:"id"`
	CreatedAt    time.Time         `json:"createdAt" yaml:"createdAt"`
	OriginalText string            `json:"originalText" yaml:"originalText"`
	Analysis     AnalysisResult    `json:"analysis" yaml:"analysis"`
	Contact      ContactAssignment `json:"contact" yaml:"contact"`
	FollowUp     FollowUpState     `json:"followUp" yaml:"followUp"`
}

// DayBucket holds the events whose analysis date matches one calendar day.
type DayBucket struct {
	Date       time.Time `json:"date"`
	DateString string    `json:"dateString"` // YYYY-MM-DD
	Events     []*Event  `json:"events"`
}

// WeekBucket is a Monday-aligned 7-day window. Events is the flattened list
// for the whole week, kept alongside Days for dual consumption.
type WeekBucket struct {
	Number int         `json:"number"` // 1-based within the requested year
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"` // inclusive
	Events []*Event    `json:"events"`
	Days   []DayBucket `json:"days"` // exactly 7
}

// StakeholderGroup is the per-institution engagement rollup.
type StakeholderGroup struct {
	Name            string   `json:"name"`
	AllEvents       []*Event `json:"allEvents"`
	CompletedEvents []*Event `json:"completedEvents"`
	Themes          []string `json:"themes"`
	Papers          []string `json:"papers"`
}
