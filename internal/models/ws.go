package models

// ControlMessage is an inbound websocket frame from a client.
// Supported types: "subscribe", "unsubscribe".
type ControlMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// Envelope is an outbound websocket frame. Data carries the published
// payload fields plus a "timestamp" key added at broadcast time.
type Envelope struct {
	Channel string                 `json:"channel"`
	Data    map[string]interface{} `json:"data"`
}

// Entity channels mutation events are published on.
const (
	ChannelClientUpdates      = "client-updates"
	ChannelJobUpdates         = "job-updates"
	ChannelCandidateUpdates   = "candidate-updates"
	ChannelApplicationUpdates = "application-updates"
)
