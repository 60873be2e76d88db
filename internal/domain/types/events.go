package types

// Event names are the wire contract with the chat server.
const (
	EventInit          = "init"
	EventMessage       = "message"
	EventDeleteMessage = "deleteMessage"
	EventUserJoined    = "user:joined"
	EventUserLeft      = "user:left"
	EventChangeName    = "change:name"
	EventGetMessages   = "getMessages"
	EventAck           = "ack"
)
