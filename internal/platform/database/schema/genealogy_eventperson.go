package schema

// GenealogyEventPersonTable represents the 'genealogy.eventperson' table
type GenealogyEventPersonTable struct {
	Table    string
	EventID  string
	PersonID string
}

// GenealogyEventPerson is the schema definition for genealogy.eventperson
var GenealogyEventPerson = GenealogyEventPersonTable{
	Table:    "genealogy.eventperson",
	EventID:  "eventid",
	PersonID: "personid",
}

func (t GenealogyEventPersonTable) Columns() []string { return []string{t.EventID, t.PersonID} }
