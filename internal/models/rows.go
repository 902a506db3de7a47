package models

// Row is one executed result row with all values stringified by the
// datasource driver. SQL NULL surfaces as the literal string "NULL"; the
// execution validator's triviality check depends on this.
type Row map[string]string
