package store

import (
	"testing"
	"time"

	"parishcms/internal/models"
)

func TestEventStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)

	slug := "store-test-create-event"
	t.Cleanup(func() { cleanEvents(t, db, slug) })

	loc := "Parish Hall"
	ev, err := events.Create(&models.Event{
		Slug:        slug,
		Title:       "Harvest Supper",
		Description: "Annual supper.",
		EventDate:   "2030-10-05",
		Location:    &loc,
		Status:      models.StatusPublished,
		Recurring:   models.RecurNone,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ev.ID == 0 {
		t.Error("expected non-zero id")
	}

	found, err := events.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != ev.ID {
		t.Fatal("expected event by slug")
	}
	if found.Location == nil || *found.Location != loc {
		t.Errorf("location: got %v, want %q", found.Location, loc)
	}

	missing, err := events.FindByID(ev.ID + 100000)
	if err != nil {
		t.Fatalf("FindByID (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestEventStoreUpcomingFilter(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)

	pastSlug := "store-test-past-event"
	futureSlug := "store-test-future-event"
	t.Cleanup(func() { cleanEvents(t, db, pastSlug, futureSlug) })

	past := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	future := time.Now().AddDate(0, 0, 30).Format("2006-01-02")

	if _, err := events.Create(&models.Event{
		Slug: pastSlug, Title: "Past", Description: "x",
		EventDate: past, Status: models.StatusPublished, Recurring: models.RecurNone,
	}); err != nil {
		t.Fatalf("Create past: %v", err)
	}
	if _, err := events.Create(&models.Event{
		Slug: futureSlug, Title: "Future", Description: "x",
		EventDate: future, Status: models.StatusPublished, Recurring: models.RecurNone,
	}); err != nil {
		t.Fatalf("Create future: %v", err)
	}

	upcoming, err := events.List(EventFilter{PublishedOnly: true, Upcoming: true, Limit: 500})
	if err != nil {
		t.Fatalf("List upcoming: %v", err)
	}

	var sawPast, sawFuture bool
	for _, e := range upcoming {
		switch e.Slug {
		case pastSlug:
			sawPast = true
		case futureSlug:
			sawFuture = true
		}
	}
	if sawPast {
		t.Error("upcoming listing must exclude past events")
	}
	if !sawFuture {
		t.Error("upcoming listing must include future events")
	}
}

func TestEventStoreOrderedByDate(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)

	earlySlug := "store-test-order-early"
	lateSlug := "store-test-order-late"
	t.Cleanup(func() { cleanEvents(t, db, earlySlug, lateSlug) })

	// Insert out of order.
	if _, err := events.Create(&models.Event{
		Slug: lateSlug, Title: "Late", Description: "x",
		EventDate: "2031-12-01", Status: models.StatusDraft, Recurring: models.RecurNone,
	}); err != nil {
		t.Fatalf("Create late: %v", err)
	}
	if _, err := events.Create(&models.Event{
		Slug: earlySlug, Title: "Early", Description: "x",
		EventDate: "2031-01-01", Status: models.StatusDraft, Recurring: models.RecurNone,
	}); err != nil {
		t.Fatalf("Create early: %v", err)
	}

	list, err := events.List(EventFilter{Status: models.StatusDraft, Limit: 500})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	earlyIdx, lateIdx := -1, -1
	for i, e := range list {
		switch e.Slug {
		case earlySlug:
			earlyIdx = i
		case lateSlug:
			lateIdx = i
		}
	}
	if earlyIdx == -1 || lateIdx == -1 {
		t.Fatal("expected both test events in listing")
	}
	if earlyIdx > lateIdx {
		t.Error("events must be ordered soonest first")
	}
}

func TestEventStoreUpdate(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)

	slug := "store-test-update-event"
	t.Cleanup(func() { cleanEvents(t, db, slug) })

	ev, err := events.Create(&models.Event{
		Slug: slug, Title: "Before", Description: "x",
		EventDate: "2030-06-01", Status: models.StatusDraft, Recurring: models.RecurNone,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ev.Title = "After"
	ev.Status = models.StatusPublished
	ev.Recurring = models.RecurWeekly
	if err := events.Update(ev); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, _ := events.FindByID(ev.ID)
	if found.Title != "After" {
		t.Errorf("title: got %q, want %q", found.Title, "After")
	}
	if found.Status != models.StatusPublished {
		t.Errorf("status: got %q", found.Status)
	}
	if found.Recurring != models.RecurWeekly {
		t.Errorf("recurring: got %q", found.Recurring)
	}
}

func TestEventStoreCount(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)

	slug := "store-test-count-event"
	t.Cleanup(func() { cleanEvents(t, db, slug) })

	before, err := events.Count(EventFilter{Status: models.StatusDraft})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if _, err := events.Create(&models.Event{
		Slug: slug, Title: "Counted", Description: "x",
		EventDate: "2030-03-03", Status: models.StatusDraft, Recurring: models.RecurNone,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	after, err := events.Count(EventFilter{Status: models.StatusDraft})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before+1 {
		t.Errorf("count: got %d, want %d", after, before+1)
	}
}
