package event

import "context"

// Repository defines the data access contract for events.
type Repository interface {
	// Create inserts the event and its person links.
	Create(ctx context.Context, event *Event) error
	// Update rewrites the event's own columns. Person links are untouched.
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)

	// List returns dated events matching filter ordered by start sort key,
	// together with the total number of matches.
	List(ctx context.Context, filter ListFilter) ([]*Event, int, error)
	// ListByPerson returns every event linked to personID, undated last.
	ListByPerson(ctx context.Context, personID string) ([]*Event, error)

	// FindImported returns the person event previously ingested from sourceID
	// under title, or dberr.ErrNotFound.
	FindImported(ctx context.Context, title, sourceID, personID string) (*Event, error)
	LinkPerson(ctx context.Context, eventID, personID string) error
}
