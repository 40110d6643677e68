// Package docio is the persistence adapter for a robot's document set. It
// loads the three mate views and the URDF fresh per operation, and enforces
// the backup-then-write policy: before any document is overwritten, a
// byte-identical backup copy is durably written; if a backup fails, nothing
// is written at all.
package docio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"robomend/internal/config"
	"robomend/internal/logging"
	"robomend/internal/mates"
	"robomend/internal/urdf"
)

// Adapter errors.
var (
	// ErrDocumentUnavailable wraps a failed document load.
	ErrDocumentUnavailable = errors.New("document unavailable")

	// ErrBackupFailed signals a failed backup copy; the mutation it was
	// guarding is aborted with zero documents written.
	ErrBackupFailed = errors.New("backup failed")
)

// RobotDir resolves document paths for one robot and carries the backup
// policy. It holds no document state; every load is a fresh parse.
type RobotDir struct {
	dir          string
	docs         config.DocumentsConfig
	backupSuffix string
}

// NewRobotDir builds the adapter for robotsDir/robot.
func NewRobotDir(robotsDir, robot string, cfg *config.Config) *RobotDir {
	return &RobotDir{
		dir:          filepath.Join(robotsDir, robot),
		docs:         cfg.Documents,
		backupSuffix: cfg.Backup.Suffix,
	}
}

// Dir returns the robot directory.
func (r *RobotDir) Dir() string {
	return r.dir
}

// ViewPath returns the document path for a mate view.
func (r *RobotDir) ViewPath(k mates.ViewKind) string {
	switch k {
	case mates.ViewMateValues:
		return filepath.Join(r.dir, r.docs.MateValues)
	case mates.ViewFeatures:
		return filepath.Join(r.dir, r.docs.Features)
	default:
		return filepath.Join(r.dir, r.docs.Assembly)
	}
}

// URDFPath returns the kinematic description path.
func (r *RobotDir) URDFPath() string {
	return filepath.Join(r.dir, r.docs.URDF)
}

// LoadViews parses the three mate view documents. A view that cannot be
// loaded carries its error as data; callers decide whether a partial set is
// usable (extraction does, renames only need the views that exist).
func (r *RobotDir) LoadViews() *mates.Views {
	views := &mates.Views{
		MateValues: r.loadView(mates.ViewMateValues),
		Features:   r.loadView(mates.ViewFeatures),
		Assembly:   r.loadView(mates.ViewAssembly),
	}
	return views
}

func (r *RobotDir) loadView(k mates.ViewKind) mates.Document {
	path := r.ViewPath(k)
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Documents("view %s unavailable: %v", k, err)
		return mates.Document{Err: fmt.Errorf("%w: %s: %v", ErrDocumentUnavailable, path, err)}
	}
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		logging.Documents("view %s unparsable: %v", k, err)
		return mates.Document{Err: fmt.Errorf("%w: invalid JSON in %s: %v", ErrDocumentUnavailable, path, err)}
	}
	return mates.Document{Root: root}
}

// LoadURDF parses the robot's kinematic description.
func (r *RobotDir) LoadURDF() (*urdf.Document, error) {
	doc, err := urdf.ParseFile(r.URDFPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnavailable, err)
	}
	return doc, nil
}

// Backup writes a byte-identical copy of path under its derived backup name
// and syncs it to disk. Overwrites any previous backup.
func (r *RobotDir) Backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrBackupFailed, path, err)
	}
	backupPath := path + r.backupSuffix

	f, err := os.OpenFile(backupPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrBackupFailed, backupPath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrBackupFailed, backupPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: syncing %s: %v", ErrBackupFailed, backupPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrBackupFailed, backupPath, err)
	}

	logging.Backup("created %s", backupPath)
	return nil
}

// SaveViews persists all three mutated view documents. Every available view
// is backed up first; a single backup failure aborts with zero writes, so a
// reader never finds a half-saved triple without its pre-mutation copies.
// The writes themselves are staged to temporary files and committed by
// rename, so a failed write also leaves every original in place.
func (r *RobotDir) SaveViews(views *mates.Views) error {
	// Backups for the whole set before any overwrite.
	for _, k := range mates.AllViews {
		if !views.Get(k).Available() {
			continue
		}
		if err := r.Backup(r.ViewPath(k)); err != nil {
			return err
		}
	}

	var staged []string
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	for _, k := range mates.AllViews {
		doc := views.Get(k)
		if !doc.Available() {
			continue
		}
		tmp, err := stageJSON(r.ViewPath(k), doc.Root)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, tmp)
	}

	for i, k := range availableViews(views) {
		path := r.ViewPath(k)
		if err := os.Rename(staged[i], path); err != nil {
			cleanup()
			return fmt.Errorf("failed to commit %s: %w", path, err)
		}
		logging.Documents("saved %s", path)
	}
	return nil
}

// availableViews lists the view kinds SaveViews will write, in canonical
// order.
func availableViews(views *mates.Views) []mates.ViewKind {
	var kinds []mates.ViewKind
	for _, k := range mates.AllViews {
		if views.Get(k).Available() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SaveURDF persists the mutated kinematic description, backup first.
func (r *RobotDir) SaveURDF(doc *urdf.Document) error {
	path := r.URDFPath()
	if err := r.Backup(path); err != nil {
		return err
	}
	if err := doc.WriteFile(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	logging.Documents("saved %s", path)
	return nil
}

// stageJSON writes a document to a temporary sibling of path and returns
// the temporary name. Two-space indentation matches the exporter; object
// keys come out sorted, which is a semantically equal but not byte-equal
// rendering of what the exporter wrote.
func stageJSON(path string, root map[string]any) (string, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return tmp, nil
}
