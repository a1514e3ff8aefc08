package release

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"relbot/internal/pkg/fs"

	"github.com/pkg/errors"
)

// WriteSnapshot stores the notification payload as indented JSON in the
// temporary directory and returns the file path.
func WriteSnapshot(filesystem fs.Filesystem, runID string, n Notification) (string, error) {
	data, err := json.MarshalIndent(n, "", "    ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(filesystem.TempDir(), fmt.Sprintf("relbot-notification-%s.json", runID))
	err = filesystem.WriteFile(path, data, 0644)
	if err != nil {
		return "", errors.Wrap(err, "cannot write notification snapshot")
	}

	return path, nil
}
