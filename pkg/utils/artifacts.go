/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: artifacts.go
Description: Utility for writing output artifacts. Every artifact is staged to a temporary
file beside its target and only renamed into place once all of them were staged, so a
failed run never leaves one artifact updated and the other stale.
*/

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Artifact is one output file
type Artifact struct {
	Path string
	Data []byte
}

// WriteArtifacts writes all artifacts or none of them. Parent directories are
// created as needed.
func WriteArtifacts(artifacts ...Artifact) error {
	// Ensure every target directory exists before staging anything
	for _, a := range artifacts {
		if a.Path == "" {
			return fmt.Errorf("artifact path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory for %s: %w", a.Path, err)
		}
	}

	pending := make([]*renameio.PendingFile, 0, len(artifacts))
	defer func() {
		for _, pf := range pending {
			pf.Cleanup()
		}
	}()

	for _, a := range artifacts {
		pf, err := renameio.NewPendingFile(a.Path, renameio.WithPermissions(0644))
		if err != nil {
			return fmt.Errorf("failed to stage %s: %w", a.Path, err)
		}
		pending = append(pending, pf)

		if _, err := pf.Write(a.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
	}

	for i, pf := range pending {
		if err := pf.CloseAtomicallyReplace(); err != nil {
			return fmt.Errorf("failed to replace %s: %w", artifacts[i].Path, err)
		}
	}

	return nil
}
