// Package outfile implements the filename disambiguation scheme shared by
// the report builder and the host-transfer tracker: each artifact is
// written under the smallest non-negative sequence number not already
// present on disk.
package outfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Create opens a new file named "<prefix>_<N><ext>" in dir, where N is the
// smallest non-negative integer for which no such file exists at probe
// time. As noted in the design notes this is a probe-then-open loop: under
// concurrent writers from multiple processes it can race onto the same
// name. Acceptable here because kernel ends are serialized by the host
// that drives this plugin.
func Create(dir, prefix, ext string) (*os.File, string, error) {
	for n := 0; ; n++ {
		name := filepath.Join(dir, fmt.Sprintf("%s_%d%s", prefix, n, ext))
		if _, err := os.Stat(name); os.IsNotExist(err) {
			f, err := os.Create(name)
			if err != nil {
				return nil, "", fmt.Errorf("outfile: create %s: %w", name, err)
			}
			return f, name, nil
		}
	}
}
