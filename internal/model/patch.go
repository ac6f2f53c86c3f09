package model

// Partial-update structs for staff edits. Each field is a pointer: nil means
// "leave unchanged". Patches are applied by explicit field copy rather than
// generic shallow-merge so invariants survive — LinkedActivities stays a
// list, enum fields stay enums.

// AnalysisPatch updates fields of an AnalysisResult.
type AnalysisPatch struct {
	Sender            *string   `json:"sender,omitempty"`
	SenderEmail       *string   `json:"senderEmail,omitempty"`
	Subject           *string   `json:"subject,omitempty"`
	Institution       *string   `json:"institution,omitempty"`
	EventName         *string   `json:"eventName,omitempty"`
	Theme             *string   `json:"theme,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Priority          *Priority `json:"priority,omitempty"`
	PriorityScore     *int      `json:"priorityScore,omitempty"`
	PriorityReasoning *string   `json:"priorityReasoning,omitempty"`
	Date              *string   `json:"date,omitempty"`
	Venue             *string   `json:"venue,omitempty"`
	InitialDeadline   *string   `json:"initialDeadline,omitempty"`
	FinalDeadline     *string   `json:"finalDeadline,omitempty"`
	LinkedActivities  []string  `json:"linkedActivities,omitempty"`
	RegistrationLink  *string   `json:"registrationLink,omitempty"`
	ProgrammeLink     *string   `json:"programmeLink,omitempty"`
}

// Apply copies the set fields of the patch onto a.
func (p AnalysisPatch) Apply(a *AnalysisResult) {
	setString(&a.Sender, p.Sender)
	setString(&a.SenderEmail, p.SenderEmail)
	setString(&a.Subject, p.Subject)
	setString(&a.Institution, p.Institution)
	setString(&a.EventName, p.EventName)
	setString(&a.Theme, p.Theme)
	setString(&a.Description, p.Description)
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.PriorityScore != nil {
		a.PriorityScore = *p.PriorityScore
	}
	setString(&a.PriorityReasoning, p.PriorityReasoning)
	setString(&a.Date, p.Date)
	setString(&a.Venue, p.Venue)
	setString(&a.InitialDeadline, p.InitialDeadline)
	setString(&a.FinalDeadline, p.FinalDeadline)
	if p.LinkedActivities != nil {
		a.LinkedActivities = append([]string(nil), p.LinkedActivities...)
	}
	setString(&a.RegistrationLink, p.RegistrationLink)
	setString(&a.ProgrammeLink, p.ProgrammeLink)
}

// ContactPatch updates fields of a ContactAssignment. ClearContactID
// detaches the assignment from the directory while keeping the snapshot.
type ContactPatch struct {
	ContactID      *string             `json:"contactId,omitempty"`
	ClearContactID bool                `json:"clearContactId,omitempty"`
	PolContact     *string             `json:"polContact,omitempty"`
	Name           *string             `json:"name,omitempty"`
	Email          *string             `json:"email,omitempty"`
	Role           *string             `json:"role,omitempty"`
	Organization   *string             `json:"organization,omitempty"`
	RepRole        *RepresentativeRole `json:"repRole,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
}

// Apply copies the set fields of the patch onto c.
func (p ContactPatch) Apply(c *ContactAssignment) {
	if p.ClearContactID {
		c.ContactID = ""
	} else if p.ContactID != nil {
		c.ContactID = *p.ContactID
	}
	setString(&c.PolContact, p.PolContact)
	setString(&c.Name, p.Name)
	setString(&c.Email, p.Email)
	setString(&c.Role, p.Role)
	setString(&c.Organization, p.Organization)
	if p.RepRole != nil {
		c.RepRole = *p.RepRole
	}
	setString(&c.Notes, p.Notes)
}

// CommsPackPatch updates fields of a CommsPack.
type CommsPackPatch struct {
	Remarks        *string `json:"remarks,omitempty"`
	Representative *string `json:"representative,omitempty"`
	DatePlace      *string `json:"datePlace,omitempty"`
	AdditionalInfo *string `json:"additionalInfo,omitempty"`
	PosterData     *string `json:"posterData,omitempty"`
}

// Apply copies the set fields of the patch onto cp.
func (p CommsPackPatch) Apply(cp *CommsPack) {
	setString(&cp.Remarks, p.Remarks)
	setString(&cp.Representative, p.Representative)
	setString(&cp.DatePlace, p.DatePlace)
	setString(&cp.AdditionalInfo, p.AdditionalInfo)
	setString(&cp.PosterData, p.PosterData)
}

// FollowUpPatch updates fields of a FollowUpState.
type FollowUpPatch struct {
	Status         *Status         `json:"status,omitempty"`
	Briefing       *string         `json:"briefing,omitempty"`
	PrepResources  *string         `json:"prepResources,omitempty"`
	PostEventNotes *string         `json:"postEventNotes,omitempty"`
	CommsPack      *CommsPackPatch `json:"commsPack,omitempty"`
}

// Apply copies the set fields of the patch onto f.
func (p FollowUpPatch) Apply(f *FollowUpState) {
	if p.Status != nil {
		f.Status = *p.Status
	}
	setString(&f.Briefing, p.Briefing)
	setString(&f.PrepResources, p.PrepResources)
	setString(&f.PostEventNotes, p.PostEventNotes)
	if p.CommsPack != nil {
		p.CommsPack.Apply(&f.CommsPack)
	}
}

// EventPatch is the top-level partial update accepted by the API.
type EventPatch struct {
	OriginalText *string        `json:"originalText,omitempty"`
	Analysis     *AnalysisPatch `json:"analysis,omitempty"`
	Contact      *ContactPatch  `json:"contact,omitempty"`
	FollowUp     *FollowUpPatch `json:"followUp,omitempty"`
}

// Apply copies the set fields of the patch onto e.
func (p EventPatch) Apply(e *Event) {
	setString(&e.OriginalText, p.OriginalText)
	if p.Analysis != nil {
		p.Analysis.Apply(&e.Analysis)
	}
	if p.Contact != nil {
		p.Contact.Apply(&e.Contact)
	}
	if p.FollowUp != nil {
		p.FollowUp.Apply(&e.FollowUp)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
