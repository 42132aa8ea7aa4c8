package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/adapters/file"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_DefaultBasePath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".specloom", "sessions"), store.BasePath)
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	state := &domain.State{
		Version:   domain.StateVersion,
		UISystem:  domain.SwiftUI,
		RootID:    "0:1",
		Nodes:     map[string]*domain.Node{"0:1": {ID: "0:1", Name: "Root", Type: "FRAME"}},
		Order:     []string{"0:1"},
		Decisions: make(map[string]*domain.Decision),
	}
	require.NoError(t, store.Save(ctx, "s1", state))
	require.NoError(t, store.Save(ctx, "s1", state)) // overwrite path

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1.json", entries[0].Name())
}
