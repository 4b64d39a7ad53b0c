package service

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/store"
	"github.com/yalin/transinvert/backend/internal/uuid"
)

// FolderNode is a folder plus its children, for the tree endpoint.
type FolderNode struct {
	*models.Folder
	Children []*FolderNode `json:"children"`
}

// CreateFolder creates a folder, optionally under a parent.
func (s *Service) CreateFolder(name string, parentID *string) (*models.Folder, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrInvalid, "folder name must not be empty")
	}

	folder := &models.Folder{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	err := s.update(func(c *store.Collections) error {
		if parentID != nil {
			if _, ok := c.Folders[*parentID]; !ok {
				return apperrors.New(apperrors.ErrFolderNotFound,
					fmt.Sprintf("parent folder %s does not exist", *parentID))
			}
			folder.ParentID = parentID
		}
		c.Folders[folder.ID] = folder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// UpdateFolder renames a folder and/or moves it under a new parent.
// Moves that would create a cycle in the parent chain are rejected.
func (s *Service) UpdateFolder(id, name string, parentID *string) (*models.Folder, error) {
	var out *models.Folder
	err := s.update(func(c *store.Collections) error {
		folder, ok := c.Folders[id]
		if !ok {
			return apperrors.New(apperrors.ErrFolderNotFound, fmt.Sprintf("folder %s not found", id))
		}
		if parentID != nil {
			if _, ok := c.Folders[*parentID]; !ok {
				return apperrors.New(apperrors.ErrFolderNotFound,
					fmt.Sprintf("parent folder %s does not exist", *parentID))
			}
			if createsCycle(c.Folders, id, *parentID) {
				return apperrors.New(apperrors.ErrFolderCycle,
					fmt.Sprintf("moving folder %s under %s would create a cycle", id, *parentID))
			}
		}
		if name != "" {
			folder.Name = name
		}
		folder.ParentID = parentID
		out = folder
		return nil
	})
	return out, err
}

// ListFolders returns all folders sorted by name.
func (s *Service) ListFolders() ([]*models.Folder, error) {
	var out []*models.Folder
	err := s.view(func(c *store.Collections) error {
		for _, f := range c.Folders {
			out = append(out, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FolderTree returns the folder hierarchy rooted at the top-level folders.
func (s *Service) FolderTree() ([]*FolderNode, error) {
	var roots []*FolderNode
	err := s.view(func(c *store.Collections) error {
		nodes := make(map[string]*FolderNode, len(c.Folders))
		for id, f := range c.Folders {
			nodes[id] = &FolderNode{Folder: f, Children: []*FolderNode{}}
		}
		for id, node := range nodes {
			if node.ParentID == nil {
				roots = append(roots, node)
				continue
			}
			parent, ok := nodes[*node.ParentID]
			if !ok {
				// Orphaned parent link, surface at the root.
				roots = append(roots, node)
				continue
			}
			parent.Children = append(parent.Children, nodes[id])
		}
		sortTree(roots)
		return nil
	})
	return roots, err
}

// DeleteFolder removes a folder. Its texts move to the root and its child
// folders are re-parented to the deleted folder's parent.
func (s *Service) DeleteFolder(id string) error {
	return s.update(func(c *store.Collections) error {
		folder, ok := c.Folders[id]
		if !ok {
			return apperrors.New(apperrors.ErrFolderNotFound, fmt.Sprintf("folder %s not found", id))
		}
		for _, t := range c.Texts {
			if t.FolderID != nil && *t.FolderID == id {
				t.FolderID = nil
			}
		}
		for _, f := range c.Folders {
			if f.ParentID != nil && *f.ParentID == id {
				f.ParentID = folder.ParentID
			}
		}
		delete(c.Folders, id)
		return nil
	})
}

// createsCycle reports whether setting folder's parent to newParent would
// close a loop in the parent chain.
func createsCycle(folders map[string]*models.Folder, id, newParent string) bool {
	seen := make(map[string]bool)
	current := newParent
	for {
		if current == id {
			return true
		}
		if seen[current] {
			// Pre-existing loop above the target; refuse to attach to it.
			return true
		}
		seen[current] = true
		f, ok := folders[current]
		if !ok || f.ParentID == nil {
			return false
		}
		current = *f.ParentID
	}
}

func sortTree(nodes []*FolderNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortTree(n.Children)
	}
}
