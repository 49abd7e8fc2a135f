package feed

import (
	"encoding/json"
)

type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// Watched collection names. One logical subscription exists per collection.
const (
	CollectionProperties = "properties"
	CollectionBlogPosts  = "blog_posts"
	CollectionMessages   = "contact_messages"
)

func WatchedCollections() []string {
	return []string{CollectionProperties, CollectionBlogPosts, CollectionMessages}
}

func IsWatched(name string) bool {
	for _, c := range WatchedCollections() {
		if c == name {
			return true
		}
	}
	return false
}

// Event is a row-level change notification. Record carries the full document
// for inserts and updates; for deletes only ID is set, matching what the
// underlying change stream reports for a removed row.
type Event struct {
	Kind       Kind            `json:"kind"`
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Record     json.RawMessage `json:"record,omitempty"`
}
