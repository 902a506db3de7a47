// Package models defines the data structures flowing through the
// text-to-SQL pipeline.
package models

// Query is one natural-language question against a registered datasource.
// It is immutable and lives for a single synthesis+execution attempt.
type Query struct {
	Question     string
	DataSourceID string
}

// Intent is the structured extraction of a question's analytical goal.
//
// The retrieval-facing fields (Kind, Metrics, Attributes, SearchText) must
// stay free of literal filter values: embedding similarity against table
// descriptions degrades when values like "2024" or "Europe" pollute the
// search text. The logic fields (Filters, TimeConstraints) keep exact values
// because SQL generation needs them to build correct predicates.
type Intent struct {
	Kind            string   `json:"intent"`
	Metrics         []string `json:"metrics"`
	Attributes      []string `json:"attributes"`
	Filters         []string `json:"filters"`
	TimeConstraints []string `json:"time_constraints"`
	SearchText      string   `json:"search_text"`
}
