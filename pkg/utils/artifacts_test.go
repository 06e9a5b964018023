/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: artifacts_test.go
Description: Tests for staged artifact writes.
*/

package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Sunnigen/godot-wfc/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "out", "rules.tres")
	js := filepath.Join(dir, "rules.json")

	err := utils.WriteArtifacts(
		utils.Artifact{Path: text, Data: []byte("adjacency_rules = {\n}")},
		utils.Artifact{Path: js, Data: []byte("{}")},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(text)
	require.NoError(t, err)
	assert.Equal(t, "adjacency_rules = {\n}", string(data))

	data, err = os.ReadFile(js)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	info, err := os.Stat(js)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteArtifactsReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, utils.WriteArtifacts(utils.Artifact{Path: path, Data: []byte("new")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteArtifactsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	first := filepath.Join(dir, "rules.tres")
	err := utils.WriteArtifacts(
		utils.Artifact{Path: first, Data: []byte("text")},
		utils.Artifact{Path: filepath.Join(blocker, "rules.json"), Data: []byte("{}")},
	)
	require.Error(t, err)

	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err), "first artifact must not be written")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no staged files may be left behind")
}

func TestWriteArtifactsEmptyPath(t *testing.T) {
	err := utils.WriteArtifacts(utils.Artifact{Data: []byte("x")})
	assert.Error(t, err)
}
