package models

import "time"

const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

type Subscriber struct {
	Email        string    `json:"email" db:"email"`
	SubscribedAt time.Time `json:"subscribed_at" db:"subscribed_at"`
	Status       string    `json:"status" db:"status"`
}

type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// Stats backs the admin dashboard counters.
type Stats struct {
	Projects          int64 `json:"projects"`
	PublishedPosts    int64 `json:"published_posts"`
	DraftPosts        int64 `json:"draft_posts"`
	UnreadMessages    int64 `json:"unread_messages"`
	ActiveSubscribers int64 `json:"active_subscribers"`
}
