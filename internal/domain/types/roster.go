package types

// Snapshot is the payload of the "init" event: the local participant's name
// and every connected participant.
type Snapshot struct {
	Name  Username   `json:"name"`
	Users []Username `json:"users"`
}

// Rename is the payload of a broadcast "change:name" event.
type Rename struct {
	OldName Username `json:"oldName"`
	NewName Username `json:"newName"`
}

// RenameRequest is the payload of a client-sent "change:name" request.
type RenameRequest struct {
	Name Username `json:"name"`
}
