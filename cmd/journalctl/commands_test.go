package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSlugCommand(t *testing.T) {
	out, err := run(t, "slug", "Hello, World!")
	require.NoError(t, err)
	assert.Equal(t, "hello-world\n", out)

	_, err = run(t, "slug", "!!!")
	assert.Error(t, err)

	_, err = run(t, "slug")
	assert.Error(t, err)
}

func TestYouTubeIDCommand(t *testing.T) {
	out, err := run(t, "youtube-id", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ\nhttps://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg\n", out)

	_, err = run(t, "youtube-id", "https://vimeo.com/12345")
	assert.Error(t, err)
}

func TestMigrateGotoRejectsBadVersion(t *testing.T) {
	_, err := run(t, "migrate", "goto", "latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}
