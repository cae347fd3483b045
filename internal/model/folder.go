package model

import (
	"strings"
	"time"
)

// Folder is a node in a user's folder tree.
// Path is the cached chain of ancestor names, e.g. "/reports/2024".
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChildPath returns the path of a folder named name directly under parentPath.
// An empty parentPath denotes the root.
func ChildPath(parentPath, name string) string {
	if parentPath == "" || parentPath == "/" {
		return "/" + name
	}
	return strings.TrimSuffix(parentPath, "/") + "/" + name
}

// RebasePath replaces the oldPrefix of path with newPrefix.
// Paths that do not live under oldPrefix are returned unchanged.
func RebasePath(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	if strings.HasPrefix(path, oldPrefix+"/") {
		return newPrefix + path[len(oldPrefix):]
	}
	return path
}
