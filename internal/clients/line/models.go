package line

// Webhook event types delivered by the LINE platform
const (
	EventTypeMessage  = "message"
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"
	EventTypePostback = "postback"
)

// Message content types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

// WebhookRequest is the body of a webhook delivery
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event
type Event struct {
	Type       string    `json:"type"`
	ReplyToken string    `json:"replyToken"`
	Timestamp  int64     `json:"timestamp"`
	Source     Source    `json:"source"`
	Message    *Message  `json:"message,omitempty"`
	Postback   *Postback `json:"postback,omitempty"`
}

// Source identifies where an event came from
type Source struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// Message is the message payload of a message event
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Postback is the payload of a postback event (rich menu, buttons)
type Postback struct {
	Data string `json:"data"`
}

// Profile is a LINE user profile
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}
