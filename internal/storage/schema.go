package storage

const schema = `
-- The 'cards' table stores every flashcard and its review state.
-- Timestamps are seconds since the Unix epoch.
CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    level INTEGER NOT NULL DEFAULT 0 CHECK (level BETWEEN 0 AND 11),
    time_created REAL NOT NULL,
    last_reviewed REAL NOT NULL,
    fingerprint TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS cards_fingerprint ON cards(fingerprint);

-- 'meta' holds the id counter. It only ever grows, so ids are never reused.
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

INSERT OR IGNORE INTO meta (key, value) VALUES ('next_id', 0);

-- 'review_log' records each applied review outcome.
CREATE TABLE IF NOT EXISTS review_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    card_id INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    level_before INTEGER NOT NULL,
    level_after INTEGER NOT NULL,
    reviewed_at REAL NOT NULL
);
`
