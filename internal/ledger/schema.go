package ledger

const schemaV1 = `
CREATE TABLE IF NOT EXISTS builds (
    build_id        INTEGER PRIMARY KEY AUTOINCREMENT,
    repository      TEXT NOT NULL,
    version_name    TEXT NOT NULL,
    version_code    INTEGER NOT NULL,
    channel         TEXT NOT NULL,
    tag             TEXT,
    commit_hash     TEXT,
    recorded_at     TEXT NOT NULL,
    UNIQUE(repository, version_name, version_code)
);

CREATE INDEX IF NOT EXISTS idx_builds_repository_code
    ON builds(repository, version_code DESC);
CREATE INDEX IF NOT EXISTS idx_builds_recorded
    ON builds(recorded_at DESC);
`
