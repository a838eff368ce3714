package entity

import "github.com/google/uuid"

// RemoteID tags a row that may not have a backend identifier yet.
// Unconfirmed writes (nudges, crushes appended locally before the
// backend responds) start Pending and are reconciled to Confirmed once
// the canonical id arrives.
type RemoteID struct {
	Local  uuid.UUID `json:"local_id"`
	Server uint      `json:"server_id,omitempty"`
}

func PendingID() RemoteID {
	return RemoteID{Local: uuid.New()}
}

func ConfirmedID(serverID uint) RemoteID {
	return RemoteID{Server: serverID}
}

func (r RemoteID) Confirmed() bool { return r.Server != 0 }

// Confirm attaches the canonical id the backend assigned.
func (r *RemoteID) Confirm(serverID uint) { r.Server = serverID }

// Is matches against either identifier, so callers can address a row
// before and after reconciliation with the same handle.
func (r RemoteID) Is(other RemoteID) bool {
	if r.Server != 0 && other.Server != 0 {
		return r.Server == other.Server
	}
	return r.Local == other.Local
}
