// Package cmd provides shared constructors for the engine's binaries.
package cmd

import (
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/persistence/file"
)

// NewPersistence builds a persistence layer from a database URL. The engine
// ships a file:// provider; the URL scheme is kept so a record-store backed
// provider can slot in without touching callers.
func NewPersistence(databaseURL string) persistence.Persistence {
	return file.NewPersistence(databaseURL)
}
