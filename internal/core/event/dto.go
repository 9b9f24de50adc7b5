package event

import (
	"time"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
	"github.com/taibuivan/lineage/pkg/slice"
)

// Response is the JSON representation of an [Event].
type Response struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Category    Category            `json:"category"`
	CreatorID   string              `json:"creator_id"`
	SourceID    *string             `json:"source_id"`
	PersonIDs   []string            `json:"person_ids"`
	StartDate   *fuzzydate.Response `json:"start_date"`
	EndDate     *fuzzydate.Response `json:"end_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func ToResponse(event *Event) *Response {
	personIDs := event.PersonIDs
	if personIDs == nil {
		personIDs = []string{}
	}

	return &Response{
		ID:          event.ID,
		Title:       event.Title,
		Slug:        event.Slug,
		Description: event.Description,
		Category:    event.Category,
		CreatorID:   event.CreatorID,
		SourceID:    event.SourceID,
		PersonIDs:   personIDs,
		StartDate:   fuzzydate.ToResponse(event.StartDate),
		EndDate:     fuzzydate.ToResponse(event.EndDate),
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func ToResponses(events []*Event) []*Response {
	if events == nil {
		return []*Response{}
	}
	return slice.Map(events, ToResponse)
}
