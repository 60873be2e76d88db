package domain

import (
	interfaces "sealchat/internal/domain/interfaces"
	types "sealchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username        = types.Username
	Endpoint        = types.Endpoint
	MessageID       = types.MessageID
	Millis          = types.Millis
	Message         = types.Message
	OutgoingMessage = types.OutgoingMessage
	RenderedMessage = types.RenderedMessage
	Snapshot        = types.Snapshot
	Rename          = types.Rename
	RenameRequest   = types.RenameRequest
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	EventHandler  = interfaces.EventHandler
	Channel       = interfaces.Channel
	Dialer        = interfaces.Dialer
	EndpointStore = interfaces.EndpointStore
	ChatService   = interfaces.ChatService
)

// Event names re-exported for callers that only import domain.
const (
	EventInit          = types.EventInit
	EventMessage       = types.EventMessage
	EventDeleteMessage = types.EventDeleteMessage
	EventUserJoined    = types.EventUserJoined
	EventUserLeft      = types.EventUserLeft
	EventChangeName    = types.EventChangeName
	EventGetMessages   = types.EventGetMessages
	EventAck           = types.EventAck
)
