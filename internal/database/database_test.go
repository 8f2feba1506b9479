package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petgenie/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_RequiresPath(t *testing.T) {
	_, err := NewDB(Config{})
	assert.Error(t, err)
}

func TestNewDB_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := NewDB(Config{DatabasePath: path})
	require.NoError(t, err)
	db.Close()
}

func TestClientRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)

	client := &models.Client{
		Name:  "Sarah Johnson",
		Email: "sarah@example.com",
		Phone: "555-0100",
		Pets:  []models.Pet{{Name: "Max"}, {Name: "Bella"}},
	}
	require.NoError(t, db.Clients.Create(client))
	require.NotEmpty(t, client.ID, "missing id must be generated")

	got, err := db.Clients.Get(client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", got.Name)
	assert.Equal(t, "sarah@example.com", got.Email)
	require.Len(t, got.Pets, 2)
	assert.Equal(t, "Max", got.Pets[0].Name)
	assert.NotZero(t, got.Pets[0].ID)
}

func TestClientRepository_GetUnknown(t *testing.T) {
	db := testDB(t)

	_, err := db.Clients.Get("nope")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientRepository_ListOrderedByName(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Clients.Create(&models.Client{Name: "zoe"}))
	require.NoError(t, db.Clients.Create(&models.Client{Name: "Adam"}))
	require.NoError(t, db.Clients.Create(&models.Client{Name: "Mia"}))

	clients, err := db.Clients.List()
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Adam", clients[0].Name)
	assert.Equal(t, "Mia", clients[1].Name)
	assert.Equal(t, "zoe", clients[2].Name)
}

func TestClientRepository_UpdateReplacesPets(t *testing.T) {
	db := testDB(t)

	client := &models.Client{Name: "Tom", Pets: []models.Pet{{Name: "Rex"}}}
	require.NoError(t, db.Clients.Create(client))

	client.Name = "Tom Baker"
	client.Pets = []models.Pet{{Name: "Rex"}, {Name: "Daisy"}}
	require.NoError(t, db.Clients.Update(client))

	got, err := db.Clients.Get(client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tom Baker", got.Name)
	require.Len(t, got.Pets, 2)
	assert.Equal(t, "Daisy", got.Pets[1].Name)
}

func TestClientRepository_UpdateUnknown(t *testing.T) {
	db := testDB(t)

	err := db.Clients.Update(&models.Client{ID: "nope", Name: "Ghost"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientRepository_DeleteCascades(t *testing.T) {
	db := testDB(t)

	client := &models.Client{Name: "Tom", Pets: []models.Pet{{Name: "Rex"}}}
	require.NoError(t, db.Clients.Create(client))
	require.NoError(t, db.Mappings.Set("rex", client.ID))

	require.NoError(t, db.Clients.Delete(client.ID))

	_, err := db.Clients.Get(client.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)

	// Mapping rows go with the client.
	_, ok, err := db.Mappings.Get("rex")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, db.Clients.Delete(client.ID), ErrClientNotFound)
}

func TestMappingRepository_Upsert(t *testing.T) {
	db := testDB(t)

	a := &models.Client{Name: "A"}
	b := &models.Client{Name: "B"}
	require.NoError(t, db.Clients.Create(a))
	require.NoError(t, db.Clients.Create(b))

	require.NoError(t, db.Mappings.Set("fluffy", a.ID))
	require.NoError(t, db.Mappings.Set("fluffy", b.ID))

	id, ok, err := db.Mappings.Get("fluffy")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b.ID, id)
}

func TestMappingRepository_GetMissing(t *testing.T) {
	db := testDB(t)

	_, ok, err := db.Mappings.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMappingRepository_RemoveIsIdempotent(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, db.Mappings.Remove("never existed"))
}

func TestMappingRepository_RemoveForClient(t *testing.T) {
	db := testDB(t)

	a := &models.Client{Name: "A"}
	b := &models.Client{Name: "B"}
	require.NoError(t, db.Clients.Create(a))
	require.NoError(t, db.Clients.Create(b))

	require.NoError(t, db.Mappings.Set("fluffy", a.ID))
	require.NoError(t, db.Mappings.Set("max", a.ID))
	require.NoError(t, db.Mappings.Set("rex", b.ID))

	require.NoError(t, db.Mappings.RemoveForClient(a.ID))

	mappings, err := db.Mappings.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"rex": b.ID}, mappings)
}

func TestTemplateRepository_RoundTrip(t *testing.T) {
	db := testDB(t)

	tpl := &models.VisitTemplate{Name: "Long Walk", ServiceType: models.ServiceWalk, DurationMinutes: 60}
	require.NoError(t, db.Templates.Create(tpl))
	require.NotEmpty(t, tpl.ID)

	got, err := db.Templates.Get(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Long Walk", got.Name)
	assert.Equal(t, models.ServiceWalk, got.ServiceType)
	assert.Equal(t, 60, got.DurationMinutes)

	list, err := db.Templates.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, db.Templates.Delete(tpl.ID))
	_, err = db.Templates.Get(tpl.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, db.Templates.Delete(tpl.ID), ErrTemplateNotFound)
}
