// Package models holds the domain values and database row shapes of the
// legacy session subsystem. Domain values are immutable snapshots built at
// load/create time; the rows remain the system of record.
package models

import "time"

// Session is a server-tracked authenticated login with a validity window.
// The identifier is opaque and store-assigned, never client-supplied.
type Session struct {
	ID             string
	StartTime      time.Time
	EndTime        time.Time
	User           *User
	Authorizations Authorizations
	IPAddress      string
}

// SessionRow mirrors the legacy sessions table. EndTime is epoch seconds;
// zero means "no expiry set yet".
type SessionRow struct {
	SessionID   string
	UserID      string
	LastReissue int64
	StartTime   int64
	EndTime     int64
}

// AuditRow records the network context in which a session was created.
// Written once, 1:1 with a session row.
type AuditRow struct {
	SessionID      string
	IPAddr         string
	RemoteHost     string
	TrackingCookie string
}
