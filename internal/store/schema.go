package store

// schema is the single source of truth for the flip-finder database.
// runs holds one row per pipeline execution, deals the ranked results.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    area        TEXT NOT NULL DEFAULT '',
    budget      REAL NOT NULL DEFAULT 0,
    min_roi     REAL NOT NULL DEFAULT 0,
    fetched     INTEGER NOT NULL DEFAULT 0,
    duplicates  INTEGER NOT NULL DEFAULT 0,
    ranked      INTEGER NOT NULL DEFAULT 0,
    excluded    INTEGER NOT NULL DEFAULT 0,
    qualifying  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS deals (
    id               TEXT PRIMARY KEY,
    run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    rank             INTEGER NOT NULL DEFAULT 0,
    property_id      TEXT NOT NULL,
    address          TEXT NOT NULL,
    status           TEXT NOT NULL,
    list_price       REAL NOT NULL DEFAULT 0,
    arv              REAL NOT NULL DEFAULT 0,
    repair_costs     REAL NOT NULL DEFAULT 0,
    renovation_level TEXT NOT NULL DEFAULT '',
    closing_costs    REAL NOT NULL DEFAULT 0,
    holding_costs    REAL NOT NULL DEFAULT 0,
    total_investment REAL NOT NULL DEFAULT 0,
    profit           REAL NOT NULL DEFAULT 0,
    roi              REAL NOT NULL DEFAULT 0,
    max_purchase     REAL NOT NULL DEFAULT 0,
    meets_70_rule    INTEGER NOT NULL DEFAULT 0,
    qualifies        INTEGER NOT NULL DEFAULT 0,
    score            REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_deals_run ON deals(run_id, rank);
CREATE INDEX IF NOT EXISTS idx_deals_address ON deals(address);
`
