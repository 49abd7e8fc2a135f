package reconcile

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/aliblock43/point-property-hub/feed"
)

func activeView() *View[record] {
	return NewView(recordID, func(r record) bool { return r.Status == "active" })
}

func TestViewResetAppliesPredicate(t *testing.T) {
	v := activeView()
	v.Reset(sampleList())

	items := v.Items()
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestViewDiscardsInsertFailingPredicate(t *testing.T) {
	v := activeView()
	v.Reset(sampleList())

	v.ApplyEvent(Event[record]{Kind: feed.KindInsert, ID: "d", Record: record{ID: "d", Status: "draft"}})
	assert.Equal(t, 2, v.Len())

	v.ApplyEvent(Event[record]{Kind: feed.KindInsert, ID: "e", Record: record{ID: "e", Status: "active"}})
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, "e", v.Items()[0].ID)
}

func TestViewRemovesRecordLeavingPredicate(t *testing.T) {
	v := activeView()
	v.Reset(sampleList())

	// "b" is sold: it must disappear from the active view
	v.ApplyEvent(Event[record]{Kind: feed.KindUpdate, ID: "b", Record: record{ID: "b", Name: "beta", Status: "sold"}})

	items := v.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "a", items[0].ID)
}

func TestViewUpdateForAbsentRecordIsDropped(t *testing.T) {
	v := activeView()
	v.Reset(sampleList())

	// "c" was filtered out at reset; an update keeping it invisible stays a no-op
	v.ApplyEvent(Event[record]{Kind: feed.KindUpdate, ID: "c", Record: record{ID: "c", Status: "sold"}})
	assert.Equal(t, 2, v.Len())
}

func TestViewUpdateBringingRecordIntoViewIsDropped(t *testing.T) {
	v := activeView()
	v.Reset(sampleList())

	// "c" becomes active but was never in this view's list; per the merge
	// policy an update without a matching identity is dropped, the next
	// bulk read picks it up
	v.ApplyEvent(Event[record]{Kind: feed.KindUpdate, ID: "c", Record: record{ID: "c", Status: "active"}})
	assert.Equal(t, 2, v.Len())
}

func TestViewNilPredicateAdmitsAll(t *testing.T) {
	v := NewView(recordID, nil)
	v.Reset(sampleList())
	assert.Equal(t, 3, v.Len())
}

type message struct {
	ID     string
	Status string
}

func TestUnreadBadgeScenario(t *testing.T) {
	v := NewView(func(m message) string { return m.ID }, nil)
	v.Reset([]message{
		{ID: "m1", Status: "unread"},
		{ID: "m2", Status: "unread"},
		{ID: "m3", Status: "read"},
	})

	unread := func(m message) bool { return m.Status == "unread" }
	assert.Equal(t, 2, v.CountWhere(unread))

	// admin opens m1: the confirmed update event flows back through the feed
	v.ApplyEvent(Event[message]{Kind: feed.KindUpdate, ID: "m1", Record: message{ID: "m1", Status: "read"}})

	assert.Equal(t, 1, v.CountWhere(unread))
	assert.Equal(t, "read", v.Items()[0].Status)
}
