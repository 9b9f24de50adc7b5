package fuzzydate

import "context"

// Repository defines the data access contract for fuzzy dates.
type Repository interface {
	// FindOrCreate stores date unless a row with the same original text
	// already exists. The boolean reports whether a new row was inserted.
	FindOrCreate(ctx context.Context, date *FuzzyDate) (*FuzzyDate, bool, error)
	GetByID(ctx context.Context, id string) (*FuzzyDate, error)
	GetByOriginalText(ctx context.Context, text string) (*FuzzyDate, error)
}
