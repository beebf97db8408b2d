package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePublisher_Publish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	p := NewFilePublisher(dir, newTestRenderer(t))
	d := sampleDigest()

	require.NoError(t, p.Publish(context.Background(), d))

	path := p.Path(d)
	assert.Equal(t, filepath.Join(dir, "funding-digest-2025-03-01.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
	assert.Contains(t, string(data), "Voi gets funding")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	assert.Equal(t, "file", p.Name())
}

func TestFilePublisher_Publish_ReplacesSameDay(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePublisher(dir, newTestRenderer(t))

	d := sampleDigest()
	require.NoError(t, p.Publish(context.Background(), d))

	d.Events = nil
	require.NoError(t, p.Publish(context.Background(), d))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")

	data, err := os.ReadFile(p.Path(d))
	require.NoError(t, err)
	assert.Contains(t, string(data), "No new Swedish startup funding events found.")
}

func TestFilePublisher_Publish_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	p := NewFilePublisher(filepath.Join(file, "reports"), newTestRenderer(t))
	err := p.Publish(context.Background(), sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create report dir")
}
