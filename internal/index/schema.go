package index

// schemaSQL defines the index schema. %d is the HNSW dimension.
//
// table_doc rows carry (collection, generation); collection_alias names the
// generation readers should see. A rescan writes the next generation and
// publishes it with a single alias upsert, so a query racing a rescan reads
// either the old complete generation or the new complete one, never a
// partially populated set.
const schemaSQL = `
    -- ==========================================================================
    -- TABLE DOCUMENTS (one row per annotated table, per generation)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS table_doc SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS collection ON table_doc TYPE string;
    DEFINE FIELD IF NOT EXISTS generation ON table_doc TYPE int;
    DEFINE FIELD IF NOT EXISTS db_name ON table_doc TYPE string;
    DEFINE FIELD IF NOT EXISTS tbl_name ON table_doc TYPE string;
    DEFINE FIELD IF NOT EXISTS description ON table_doc TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON table_doc TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS metadata ON table_doc TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created ON table_doc TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS table_doc_collection ON table_doc FIELDS collection, generation;
    DEFINE INDEX IF NOT EXISTS table_doc_embedding ON table_doc FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;

    -- ==========================================================================
    -- COLLECTION ALIAS (active generation per datasource collection)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS collection_alias SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS collection ON collection_alias TYPE string;
    DEFINE FIELD IF NOT EXISTS generation ON collection_alias TYPE int;
    DEFINE FIELD IF NOT EXISTS published ON collection_alias TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS collection_alias_unique ON collection_alias FIELDS collection UNIQUE;
`
