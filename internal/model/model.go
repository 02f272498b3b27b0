// Package model defines the core domain types for the activity signup system.
package model

// Activity represents an extracurricular activity students can join.
// The activity name is the catalog key, so it is not serialized as a field;
// clients receive the catalog as a name-keyed JSON object.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Remaining returns the number of open spots. MaxParticipants is advisory:
// it is reported to clients but not enforced on signup.
func (a *Activity) Remaining() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsRegistered reports whether email is already on the roster.
// Membership is exact string match; no normalization is applied.
func (a *Activity) IsRegistered(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// MessageResponse is the success envelope for signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope. The front-end reads the
// "detail" key, so the name is part of the wire contract.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
