package mysql

// Repeated misses bump hits and seen_at; first_seen keeps the original time.
const upsertMissSQL = `
INSERT INTO deeplink_misses
  (property_id, kind, code, locale, hits, first_seen, seen_at)
VALUES
  (?, ?, ?, ?, 1, ?, ?)
ON DUPLICATE KEY UPDATE
  hits    = hits + 1,
  seen_at = VALUES(seen_at)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; served by idx_misses_seen.
const recentMissesSQL = `
SELECT property_id, kind, code, locale, hits, seen_at
FROM deeplink_misses
WHERE property_id = ? AND seen_at >= ?
ORDER BY seen_at DESC, kind, code
LIMIT ?
`

const purgeMissesSQL = `
DELETE FROM deeplink_misses
WHERE seen_at < ?
`
