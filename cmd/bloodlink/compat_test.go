package main

import (
	"strings"
	"testing"

	"bloodlink/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	out := matrix(types.AllBloodTypes)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 9)

	assert.Equal(t, []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"AB+", "x", "x", "x", "x", "x", "x", "x", "x"}, strings.Fields(lines[5]))
	assert.Equal(t, []string{"O-", ".", ".", ".", ".", ".", ".", ".", "x"}, strings.Fields(lines[8]))
}

func TestOpenFileStorage(t *testing.T) {
	files, err := openFileStorage(t.Context(), &types.Config{StorageBackend: "none"})
	require.NoError(t, err)
	assert.Nil(t, files)

	files, err = openFileStorage(t.Context(), &types.Config{StorageBackend: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, files)

	_, err = openFileStorage(t.Context(), &types.Config{StorageBackend: "s3"})
	assert.Error(t, err)

	_, err = openFileStorage(t.Context(), &types.Config{StorageBackend: "ftp"})
	assert.Error(t, err)
}
