package dbmongo

import (
	"time"
)

// Message is one physical copy of a sent message. A single logical send
// produces two copies with distinct IDs: one filed under the sender's
// conversation path (owner=sender, peer=recipient) and one under the
// recipient's (owner=recipient, peer=sender). The copies share sender,
// recipient, text and timestamp but are otherwise independent: deleting
// one does not touch its twin.
type Message struct {
	ID          string    `bson:"_id" json:"id"`
	OwnerID     string    `bson:"owner_id" json:"-"`
	PeerID      string    `bson:"peer_id" json:"-"`
	SenderID    string    `bson:"sender_id" json:"senderId"`
	RecipientID string    `bson:"recipient_id" json:"recipientId"`
	Text        string    `bson:"text" json:"text"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
