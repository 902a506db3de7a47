package models

// ColumnInfo carries the annotated schema of a single column as produced by
// the scanner and consumed by the synthesis prompts.
type ColumnInfo struct {
	SchemaOrgProperty string `json:"schemaOrgProperty,omitempty"`
	SchemaOrgType     string `json:"schemaOrgType,omitempty"`
	Description       string `json:"description,omitempty"`
	Type              string `json:"type,omitempty"`
	Comment           string `json:"col_comment,omitempty"`
}

// TableCandidate is one table surfaced by similarity search as plausibly
// relevant to a question. Score is the similarity reported by the index,
// higher is better. The same shape (with Score zero) is stored as the
// metadata document in the vector index.
type TableCandidate struct {
	Database string                `json:"db"`
	Table    string                `json:"table"`
	Comment  string                `json:"comment,omitempty"`
	Schema   map[string]ColumnInfo `json:"schema"`
	Score    float64               `json:"-"`
}

// UsedTable identifies a table referenced by a generated SQL statement.
type UsedTable struct {
	Database string `json:"db"`
	Table    string `json:"table"`
}
