package sqlite

// schema mirrors db/migrations for single node runs. Timestamps are unix
// milliseconds; booleans are 0 or 1.
const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
    id              TEXT    PRIMARY KEY,
    name            TEXT    NOT NULL,
    template_ref    TEXT    NOT NULL,
    filter_spec     TEXT    NOT NULL,
    status          TEXT    NOT NULL CHECK (status IN ('draft', 'scheduled', 'sending', 'sent', 'failed', 'cancelled')),
    recipient_count INTEGER NOT NULL DEFAULT 0,
    sent_count      INTEGER NOT NULL DEFAULT 0,
    failed_count    INTEGER NOT NULL DEFAULT 0,
    bounced_count   INTEGER NOT NULL DEFAULT 0,
    retry_count     INTEGER NOT NULL DEFAULT 0,
    max_retries     INTEGER NOT NULL DEFAULT 3,
    auto_retry      INTEGER NOT NULL DEFAULT 0,
    retry_after     INTEGER,
    scheduled_at    INTEGER,
    snapshot_at     INTEGER,
    started_at      INTEGER,
    completed_at    INTEGER,
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL,
    CHECK (sent_count >= 0 AND failed_count >= 0 AND bounced_count >= 0
        AND sent_count + failed_count + bounced_count <= recipient_count)
);

CREATE INDEX IF NOT EXISTS campaigns_status_idx ON campaigns (status);

CREATE TABLE IF NOT EXISTS deliveries (
    id            TEXT    PRIMARY KEY,
    campaign_id   TEXT    NOT NULL REFERENCES campaigns (id) ON DELETE CASCADE,
    email         TEXT    NOT NULL,
    name          TEXT    NOT NULL DEFAULT '',
    user_id       TEXT    NOT NULL DEFAULT '',
    status        TEXT    NOT NULL CHECK (status IN ('pending', 'sending', 'sent', 'failed', 'bounced')),
    error_message TEXT,
    error_class   TEXT,
    attempts      INTEGER NOT NULL DEFAULT 0,
    claimed_at    INTEGER,
    sent_at       INTEGER,
    failed_at     INTEGER,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL,
    UNIQUE (campaign_id, email)
);

CREATE INDEX IF NOT EXISTS deliveries_status_campaign_idx ON deliveries (status, campaign_id);
CREATE INDEX IF NOT EXISTS deliveries_claimed_idx ON deliveries (claimed_at) WHERE status = 'sending';

CREATE TABLE IF NOT EXISTS subscribers (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    email        TEXT    NOT NULL UNIQUE,
    name         TEXT    NOT NULL DEFAULT '',
    user_id      TEXT    NOT NULL DEFAULT '',
    tags         TEXT    NOT NULL DEFAULT '[]',
    unsubscribed INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL
);
`
