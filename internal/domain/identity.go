package domain

import "fmt"

// UserRef identifies the acting user on payment confirmations and
// outcomes. The payer reported by the external payment transport may be
// anonymous (an opaque id with no handle), so the handle is explicitly
// optional instead of being faked with an empty placeholder identity.
type UserRef struct {
	// ID is the stable user identifier; always present.
	ID string `json:"id"`
	// Handle is the user's public handle, when the transport knows it.
	Handle string `json:"handle,omitempty"`
}

// KnownUser builds a reference for a user whose handle is known.
func KnownUser(id, handle string) UserRef { return UserRef{ID: id, Handle: handle} }

// AnonymousUser builds a reference for a payer known only by id.
func AnonymousUser(id string) UserRef { return UserRef{ID: id} }

// Known reports whether the reference carries a public handle.
func (u UserRef) Known() bool { return u.Handle != "" }

// Display renders the reference for operator-facing notifications:
// "@handle" when the handle is known, "user:<id>" otherwise.
func (u UserRef) Display() string {
	if u.Known() {
		return "@" + u.Handle
	}
	return fmt.Sprintf("user:%s", u.ID)
}
