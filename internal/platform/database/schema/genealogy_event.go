package schema

// GenealogyEventTable represents the 'genealogy.event' table
type GenealogyEventTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Description string
	Category    string
	CreatorID   string
	SourceID    string
	StartDateID string
	EndDateID   string
	CreatedAt   string
	UpdatedAt   string
}

// GenealogyEvent is the schema definition for genealogy.event
var GenealogyEvent = GenealogyEventTable{
	Table:       "genealogy.event",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Category:    "category",
	CreatorID:   "creatorid",
	SourceID:    "sourceid",
	StartDateID: "startdateid",
	EndDateID:   "enddateid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t GenealogyEventTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Description, t.Category, t.CreatorID, t.SourceID,
		t.StartDateID, t.EndDateID, t.CreatedAt, t.UpdatedAt,
	}
}
