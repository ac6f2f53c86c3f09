package model

// Clone returns a deep copy of the event with no shared mutable
// substructure. Manual field copy is deliberately used instead of a generic
// deep-clone: the only heap-shared field is LinkedActivities.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	out.Analysis = e.Analysis.Clone()
	return &out
}

// Clone returns a copy of the analysis with its own LinkedActivities slice.
func (a AnalysisResult) Clone() AnalysisResult {
	out := a
	if a.LinkedActivities != nil {
		out.LinkedActivities = make([]string, len(a.LinkedActivities))
		copy(out.LinkedActivities, a.LinkedActivities)
	} else {
		out.LinkedActivities = []string{}
	}
	return out
}

// Clone returns a copy of the contact.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
