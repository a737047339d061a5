// Package models defines server-side data models persisted in the database.
package models

import "time"

// Owner is the subset of User embedded into a file record.
type Owner struct {
	ID       string
	FullName string
	Email    string
}

// File is the metadata document of a stored object. The binary content lives
// in object storage under BucketFileID.
type File struct {
	ID   string
	Name string
	// Type is one of document, image, video, audio or other.
	Type         string
	Extension    string
	Size         int64
	URL          string
	Owner        Owner
	AccountID    string
	// Users holds the emails of viewers the file is shared with. It never
	// contains the owner's email.
	Users        []string
	BucketFileID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PendingUpload marks an object that may exist in the bucket without a
// document referencing it.
type PendingUpload struct {
	BucketFileID string
	OwnerID      string
	// Attempts counts failed sweeps of this record.
	Attempts     int
	CreatedAt    time.Time
}
