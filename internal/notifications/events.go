// Package notifications provides real-time event delivery over Redis
// pub/sub and websockets.
package notifications

import "encoding/json"

// Event types pushed to connected clients.
const (
	EventPostLiked      = "post.liked"
	EventCommentLiked   = "comment.liked"
	EventCommentCreated = "comment.created"
	EventReplyCreated   = "reply.created"
)

// Event is the envelope every websocket message uses.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LikeEventPayload describes a like landing on (or leaving) a target.
type LikeEventPayload struct {
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
	ActorID    uint   `json:"actor_id"`
	Liked      bool   `json:"liked"`
	LikeCount  int    `json:"like_count"`
}

// CommentEventPayload describes a new comment or reply.
type CommentEventPayload struct {
	CommentID uint  `json:"comment_id"`
	PostID    uint  `json:"post_id"`
	ParentID  *uint `json:"parent_id,omitempty"`
	ActorID   uint  `json:"actor_id"`
}

// NewEvent builds the wire form of an event. Marshal errors are impossible
// for the payload types above, but the signature keeps callers honest.
func NewEvent(eventType string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	ev := Event{Type: eventType, Payload: raw}
	data, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
