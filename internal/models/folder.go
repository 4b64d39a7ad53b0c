// Package models provides data model definitions for the Trans Invert backend.
package models

import "fmt"

// Folder organizes practice texts into a tree. ParentID is nil for root folders.
type Folder struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// Validate checks the required folder fields.
func (f *Folder) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("folder: missing id")
	}
	if f.Name == "" {
		return fmt.Errorf("folder %s: missing name", f.ID)
	}
	return nil
}

// Clone returns a deep copy of the folder.
func (f *Folder) Clone() *Folder {
	c := *f
	if f.ParentID != nil {
		p := *f.ParentID
		c.ParentID = &p
	}
	return &c
}
