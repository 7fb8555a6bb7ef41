package urlhandler

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(fallbackDir string) *InputResolver {
	cfg := config.NewDefaultInputConfig()
	cfg.FallbackDir = fallbackDir
	return NewInputResolver(cfg, zerolog.Nop())
}

func TestInputResolver_ResolveInputPath(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "Inputs")
	require.NoError(t, os.MkdirAll(fallback, 0755))

	direct := filepath.Join(dir, "direct.txt")
	require.NoError(t, os.WriteFile(direct, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(fallback, "urls.txt"), []byte("y"), 0644))

	resolver := newTestResolver(fallback)

	got, err := resolver.ResolveInputPath(direct)
	require.NoError(t, err)
	assert.Equal(t, direct, got)

	got, err = resolver.ResolveInputPath(filepath.Join("somewhere", "else", "urls.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fallback, "urls.txt"), got)

	_, err = resolver.ResolveInputPath("missing.txt")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	// a directory is not an input file
	_, err = resolver.ResolveInputPath(fallback)
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestInputResolver_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "  https://a.com/?x=1  \n\n\t\nhttp://b.com/?y=2\r\n   \nlast-line-no-newline"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	src, err := newTestResolver("").Open(path)
	require.NoError(t, err)
	defer src.Close()

	lines := slices.Collect(src.Lines())
	require.NoError(t, src.Err())
	assert.Equal(t, []string{"https://a.com/?x=1", "http://b.com/?y=2", "last-line-no-newline"}, lines)
	assert.Equal(t, 6, src.LinesRead())
	assert.Equal(t, path, src.Name())
}

func TestInputResolver_Stdin(t *testing.T) {
	resolver := newTestResolver("").WithStdin(strings.NewReader("http://a.com/?q=1\n\nhttp://b.com\n"), func() bool { return false })

	src, err := resolver.Open("")
	require.NoError(t, err)

	assert.Equal(t, "stdin", src.Name())
	assert.Equal(t, []string{"http://a.com/?q=1", "http://b.com"}, slices.Collect(src.Lines()))
	assert.NoError(t, src.Close())
}

func TestInputResolver_NoInput(t *testing.T) {
	resolver := newTestResolver("").WithStdin(strings.NewReader(""), func() bool { return true })

	_, err := resolver.Open("")
	assert.True(t, errors.Is(err, errorwrapper.ErrNoInput))
}

func TestInputResolver_OpenMissingFile(t *testing.T) {
	_, err := newTestResolver(t.TempDir()).Open("nope.txt")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLineSource_EarlyStop(t *testing.T) {
	src := NewLineSource("test", strings.NewReader("a\nb\nc\n"), 0, zerolog.Nop())

	var got []string
	for line := range src.Lines() {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, src.LinesRead())
}

func TestLineSource_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", 4096)
	src := NewLineSource("test", strings.NewReader("ok\n"+long+"\nafter\n"), 1024, zerolog.Nop())

	lines := slices.Collect(src.Lines())

	assert.Equal(t, []string{"ok"}, lines)
	assert.True(t, errors.Is(src.Err(), ErrReadingFile))
}
