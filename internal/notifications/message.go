package notifications

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the template a message renders with.
type Kind string

const (
	KindProjectApproved Kind = "project_approved"
	KindProjectRejected Kind = "project_rejected"
	KindUserWelcome     Kind = "user_welcome"
	KindUserRejected    Kind = "user_rejected"
)

// Message is one queued notification job. Delivery is best-effort and
// decoupled from the moderation transition that produced it.
type Message struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessage(kind Kind, recipient, subject, body string) Message {
	return Message{
		ID:        uuid.New().String(),
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

func ProjectApproved(recipient, title string) Message {
	return newMessage(KindProjectApproved, recipient,
		"Your project has been approved",
		fmt.Sprintf("Good news! Your project %q has been approved and is now live on the platform.", title))
}

func ProjectRejected(recipient, title, reason string) Message {
	return newMessage(KindProjectRejected, recipient,
		"Your project was not approved",
		fmt.Sprintf("Your project %q was not approved. Reason: %s", title, reason))
}

func UserWelcome(recipient, firstName string) Message {
	return newMessage(KindUserWelcome, recipient,
		"Welcome to RaiseHub",
		fmt.Sprintf("Hi %s, your account has been approved. You can now sign in and get started.", firstName))
}

func UserRejected(recipient, reason string) Message {
	return newMessage(KindUserRejected, recipient,
		"Your registration was declined",
		fmt.Sprintf("Your registration could not be approved. Reason: %s", reason))
}
