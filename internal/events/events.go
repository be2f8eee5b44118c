// Package events carries identity state changes from whoever observes them
// (sign-in and sign-out handlers) to the session bridge.
package events

import (
	"context"
	"time"
)

type Kind string

const (
	KindSignedIn  Kind = "signed_in"
	KindSignedOut Kind = "signed_out"
)

// StateChange is one identity transition of one user.
type StateChange struct {
	Kind   Kind      `json:"kind"`
	UserID string    `json:"userId"`
	Email  string    `json:"email,omitempty"`
	At     time.Time `json:"at"`
}

func SignedIn(userID, email string) StateChange {
	return StateChange{Kind: KindSignedIn, UserID: userID, Email: email, At: time.Now().UTC()}
}

func SignedOut(userID, email string) StateChange {
	return StateChange{Kind: KindSignedOut, UserID: userID, Email: email, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, ev StateChange) error
}

// Subscriber delivers events in publish order until ctx is done, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan StateChange, error)
}

type Stream interface {
	Publisher
	Subscriber
}
