package feed

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliblock43/point-property-hub/models"
)

const retailDelay = 5 * time.Second

// Tailer follows the MongoDB change stream of each watched collection and
// publishes row-level events into the hub. Requires the deployment to run as
// a replica set (change streams are unavailable on standalone servers).
type Tailer struct {
	db  *mongo.Database
	hub *Hub
}

type changeDocument struct {
	OperationType string   `bson:"operationType"`
	FullDocument  bson.Raw `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

func NewTailer(db *mongo.Database, hub *Hub) *Tailer {
	return &Tailer{db: db, hub: hub}
}

// Run tails every watched collection until ctx is cancelled.
func (t *Tailer) Run(ctx context.Context) {
	for _, name := range WatchedCollections() {
		go t.tail(ctx, name)
	}
}

func (t *Tailer) tail(ctx context.Context, collection string) {
	var resumeToken bson.Raw
	for {
		if ctx.Err() != nil {
			return
		}

		opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
		if resumeToken != nil {
			opts.SetResumeAfter(resumeToken)
		}

		stream, err := t.db.Collection(collection).Watch(ctx, mongo.Pipeline{}, opts)
		if err != nil {
			log.Printf("feed: failed to open change stream for %s: %v", collection, err)
			// a failed open invalidates any saved token
			resumeToken = nil
			select {
			case <-ctx.Done():
				return
			case <-time.After(retailDelay):
			}
			continue
		}

		for stream.Next(ctx) {
			var change changeDocument
			if err := stream.Decode(&change); err != nil {
				log.Printf("feed: failed to decode change on %s: %v", collection, err)
				continue
			}
			event, ok := mapChange(collection, change)
			if !ok {
				continue
			}
			t.hub.Publish(event)
			resumeToken = stream.ResumeToken()
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("feed: change stream for %s ended: %v", collection, err)
		}
		stream.Close(context.Background())
	}
}

// mapChange converts a raw change-stream document into a wire event. Inserts
// and updates carry the full record; deletes carry only the identity.
func mapChange(collection string, change changeDocument) (Event, bool) {
	switch change.OperationType {
	case "insert":
		record, err := decodeRecord(collection, change.FullDocument)
		if err != nil {
			log.Printf("feed: dropping insert on %s: %v", collection, err)
			return Event{}, false
		}
		return Event{Kind: KindInsert, Collection: collection, ID: change.DocumentKey.ID, Record: record}, true
	case "update", "replace":
		// fullDocument is absent when the row was deleted between the
		// update commit and the lookup; skip, the delete event follows
		if len(change.FullDocument) == 0 {
			return Event{}, false
		}
		record, err := decodeRecord(collection, change.FullDocument)
		if err != nil {
			log.Printf("feed: dropping update on %s: %v", collection, err)
			return Event{}, false
		}
		return Event{Kind: KindUpdate, Collection: collection, ID: change.DocumentKey.ID, Record: record}, true
	case "delete":
		return Event{Kind: KindDelete, Collection: collection, ID: change.DocumentKey.ID}, true
	}
	return Event{}, false
}

// decodeRecord re-marshals the stored document through its model type so the
// wire payload has the same JSON shape the HTTP API returns.
func decodeRecord(collection string, raw bson.Raw) (json.RawMessage, error) {
	var value interface{}
	switch collection {
	case CollectionProperties:
		value = &models.Property{}
	case CollectionBlogPosts:
		value = &models.BlogPost{}
	case CollectionMessages:
		value = &models.ContactMessage{}
	default:
		value = &bson.M{}
	}
	if err := bson.Unmarshal(raw, value); err != nil {
		return nil, err
	}
	return json.Marshal(value)
}
