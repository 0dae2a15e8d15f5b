package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pingchat/internal/dbmongo"
)

// ConversationRepository owns the physical path convention: a
// conversation between A and B is stored as two independent sets of
// copies in the messages collection, one keyed (owner=A, peer=B) and
// one keyed (owner=B, peer=A). Each user reads only their own subtree.
type ConversationRepository interface {
	// Append writes both physical copies of one logical message in a
	// single atomic batch and returns the sender-side copy. Either both
	// copies are durably written or neither is.
	Append(ctx context.Context, senderID, recipientID, text string) (*dbmongo.Message, error)
	// List returns the owner's copy of the conversation, ascending by
	// creation time.
	List(ctx context.Context, ownerID, peerID string) ([]*dbmongo.Message, error)
	// Subscribe establishes a live query over the owner's conversation
	// path. An initial snapshot is delivered on establishment.
	Subscribe(ctx context.Context, ownerID, peerID string) (*Subscription, error)
	// Delete removes exactly one physical copy, and only from the
	// owner's subtree; the twin copy is not located or removed. Deleting
	// an id outside the owner's subtree is a no-op.
	Delete(ctx context.Context, ownerID, messageID string) error
}

type conversationRepo struct {
	client   *mongo.Client
	messages *mongo.Collection
}

func NewConversationRepository(mc *dbmongo.MongoClient) ConversationRepository {
	return &conversationRepo{
		client:   mc.Client,
		messages: mc.Messages,
	}
}

func (r *conversationRepo) Append(ctx context.Context, senderID, recipientID, text string) (*dbmongo.Message, error) {
	now := time.Now().UTC()

	senderCopy := &dbmongo.Message{
		ID:          uuid.NewString(),
		OwnerID:     senderID,
		PeerID:      recipientID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   now,
	}
	recipientCopy := &dbmongo.Message{
		ID:          uuid.NewString(),
		OwnerID:     recipientID,
		PeerID:      senderID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   now,
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.messages.InsertOne(sc, senderCopy); err != nil {
			return nil, err
		}
		if _, err := r.messages.InsertOne(sc, recipientCopy); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("dual write failed: %w", err)
	}

	return senderCopy, nil
}

func (r *conversationRepo) List(ctx context.Context, ownerID, peerID string) ([]*dbmongo.Message, error) {
	filter := bson.M{"owner_id": ownerID, "peer_id": peerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []*dbmongo.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (r *conversationRepo) Subscribe(ctx context.Context, ownerID, peerID string) (*Subscription, error) {
	// Delete events carry no full document, so they cannot be filtered
	// by conversation path server-side; they pass through and the
	// re-queried snapshot decides whether anything changed.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "operationType", Value: "delete"}},
			bson.D{
				{Key: "fullDocument.owner_id", Value: ownerID},
				{Key: "fullDocument.peer_id", Value: peerID},
			},
		}}}}},
	}

	stream, err := r.messages.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	// The stream's lifetime is bound to the cancellation handle, not to
	// the establishing request.
	streamCtx, cancel := context.WithCancel(context.Background())
	sub := NewSubscription(cancel)
	go pump(streamCtx, stream, sub, func(ctx context.Context) ([]*dbmongo.Message, error) {
		return r.List(ctx, ownerID, peerID)
	}, ownerID, peerID)

	return sub, nil
}

// changeStream is the slice of mongo.ChangeStream the pump consumes.
type changeStream interface {
	Next(ctx context.Context) bool
	Close(ctx context.Context) error
}

// pump re-queries the conversation after every change event and hands
// the full snapshot to the subscription, starting with an initial
// snapshot on establishment. When the stream ends for any reason, the
// subscription is cancelled so consumers observe termination instead of
// waiting on a dead handle.
func pump(ctx context.Context, stream changeStream, sub *Subscription, snapshot func(context.Context) ([]*dbmongo.Message, error), ownerID, peerID string) {
	defer sub.Cancel()
	defer stream.Close(context.Background())

	messages, err := snapshot(ctx)
	if err != nil {
		log.Printf("initial snapshot failed for %s/%s: %v", ownerID, peerID, err)
	} else if !sub.deliver(messages) {
		return
	}

	for stream.Next(ctx) {
		messages, err := snapshot(ctx)
		if err != nil {
			log.Printf("snapshot refresh failed for %s/%s: %v", ownerID, peerID, err)
			continue
		}
		if !sub.deliver(messages) {
			return
		}
	}
}

func (r *conversationRepo) Delete(ctx context.Context, ownerID, messageID string) error {
	_, err := r.messages.DeleteOne(ctx, bson.M{"_id": messageID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
