package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brmartins/catalog-crawler/internal/models"
)

func TestWriteCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "products.json")

	store := New()

	product := models.NewProduct()
	product.Code = "7412001"
	product.Name = "Vestido Midi Floral"

	err := store.Write(path, []models.Product{*product})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []models.Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "7412001", decoded[0].Code)
	assert.Equal(t, product.ID, decoded[0].ID)
}

func TestWriteOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skus.json")

	store := New()

	require.NoError(t, store.Write(path, []string{"a", "b", "c"}))
	require.NoError(t, store.Write(path, []string{"d"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"d"}, decoded)
}

func TestWriteIndentsOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	store := New()
	require.NoError(t, store.Write(path, []models.CatalogItem{{Category: "Vestidos", SkuCode: "VMF-PRETO-38"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")

	// No leftover temp file.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRequiresPath(t *testing.T) {
	store := New()
	assert.Error(t, store.Write("", []string{}))
}
