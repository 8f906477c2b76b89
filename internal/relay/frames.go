package relay

import "github.com/3sol-fa/RoofConstructionManager/pkg/domain"

// Frame types used for dispatch. Every frame is one JSON object tagged with
// a "type" field.
const (
	TypeAuthenticate  = "authenticate"
	TypeAuthenticated = "authenticated"
	TypeChatMessage   = "chat_message"
	TypeNewMessage    = "new_message"
	TypeTaskUpdate    = "task_update"
)

// inboundFrame is the union of fields a client may send.
type inboundFrame struct {
	Type      string `json:"type"`
	Token     string `json:"token,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	Content   string `json:"content,omitempty"`
}

type authAckFrame struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

type newMessageFrame struct {
	Type    string                   `json:"type"`
	Message domain.MessageWithSender `json:"message"`
}

type taskUpdateFrame struct {
	Type string      `json:"type"`
	Task domain.Task `json:"task"`
}
