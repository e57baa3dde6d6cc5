package storage

import "bakuscan/models"

// ScanStore records identification results per browser session.
type ScanStore interface {
	// Append stores a scan for the session, evicting the oldest records
	// once the per-session cap is reached.
	Append(sessionID string, scan *models.ScanRecord)
	// Recent returns up to limit scans for the session, newest first.
	Recent(sessionID string, limit int) []*models.ScanRecord
}
