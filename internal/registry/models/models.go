// Package models holds the registry metadata that event construction needs.
// Storage and retrieval of buckets and flows live outside this service; these
// types only describe an action's subject at the moment it is recorded.
package models

import "time"

// Bucket is a named container for versioned artifacts.
type Bucket struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Flow is a versioned artifact stored in a bucket.
type Flow struct {
	ID          string
	BucketID    string
	Name        string
	Description string
	CreatedAt   time.Time
}

// FlowVersion describes one committed version of a flow.
type FlowVersion struct {
	BucketID  string
	FlowID    string
	Version   int
	Comment   string
	CreatedAt time.Time
}
