// Package backup implements the on-disk backup ledger (C13): it lists the
// backup copies internal/patch writes under <root>/.tsugix/backup/<stamp>/.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/tsugix/tsugix/internal/model"
)

const backupDirName = ".tsugix/backup"

const timestampLayout = "20060102_150405"

// List enumerates every backup under root's backup directory. Records come
// out in lexical order: timestamp directories oldest first, then file paths
// within each. Directories whose name is not a timestamp are skipped.
func List(root string) ([]model.BackupRecord, error) {
	base := filepath.Join(root, backupDirName)

	stampDirs, err := os.ReadDir(base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []model.BackupRecord
	for _, stampDir := range stampDirs {
		if !stampDir.IsDir() {
			continue
		}
		stamp, err := time.ParseInLocation(timestampLayout, stampDir.Name(), time.Local)
		if err != nil {
			continue
		}

		stampPath := filepath.Join(base, stampDir.Name())
		err = filepath.WalkDir(stampPath, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, relErr := filepath.Rel(stampPath, path)
			if relErr != nil {
				return nil
			}
			records = append(records, model.BackupRecord{
				OriginalPath: rel,
				BackupPath:   path,
				Timestamp:    stamp,
				Hash:         hashFile(path),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// hashFile returns the hex-encoded SHA-256 of path's contents, or "" if it
// can't be read — a backup a caller can't hash is still worth listing.
func hashFile(path string) string {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from WalkDir over our own backup tree
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
