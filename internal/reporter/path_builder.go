package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
)

// OutputPathBuilder names output files <dir>/<prefix>_<timestamp>.<ext>.
type OutputPathBuilder struct {
	dir    string
	prefix string
	layout string
	now    func() time.Time
}

// NewOutputPathBuilder creates a path builder from the output section.
func NewOutputPathBuilder(cfg config.OutputConfig) *OutputPathBuilder {
	return &OutputPathBuilder{
		dir:    cfg.OutputDir,
		prefix: cfg.FilePrefix,
		layout: cfg.TimestampLayout,
		now:    time.Now,
	}
}

// Dir returns the output directory.
func (b *OutputPathBuilder) Dir() string {
	return b.dir
}

// Build returns a path for ext that does not exist yet. Two runs within the
// same second get "_1", "_2", ... suffixes.
func (b *OutputPathBuilder) Build(ext string) string {
	base := fmt.Sprintf("%s_%s", b.prefix, b.now().Format(b.layout))
	path := filepath.Join(b.dir, base+"."+ext)
	for i := 1; pathExists(path); i++ {
		path = filepath.Join(b.dir, fmt.Sprintf("%s_%d.%s", base, i, ext))
	}
	return path
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
