package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// WriteManifest records the run's inputs, resolved areas, and produced
// artifacts as indented JSON next to the other outputs. The manifest does
// not list itself as an artifact.
func (w *Writer) WriteManifest(manifest *model.RunManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal manifest")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return eris.Wrap(err, "report: create output root")
	}
	path := filepath.Join(w.root, FileManifest)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	w.record(path)
	return nil
}
