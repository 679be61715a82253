// Package types contains the activity records and result types shared by
// the store, the service and the HTTP layer.
package types

import "slices"

// Activity is one extracurricular offering. MaxParticipants is advisory.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// Clone returns a deep copy. The copy always has a non-nil roster so it
// encodes as [] rather than null.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// Has reports whether email is on the roster.
func (a Activity) Has(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Directory maps activity name to activity.
type Directory map[string]Activity

// Clone deep-copies every activity.
func (d Directory) Clone() Directory {
	out := make(Directory, len(d))
	for name, a := range d {
		out[name] = a.Clone()
	}
	return out
}

// Result is the success payload of a roster change.
type Result struct {
	Message string
}
