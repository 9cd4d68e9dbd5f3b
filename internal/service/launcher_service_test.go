package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolver/internal/domain"
	"resolver/internal/recordstore/memory"
	"resolver/internal/resolver"
	"resolver/internal/service"
)

func writeJSON(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func newService(t *testing.T) (*service.LauncherServiceImpl, *memory.Storage) {
	t.Helper()
	st := memory.NewStorage()
	return service.NewLauncherService(st, resolver.New(), nil), st
}

const mixed = `[
	{"id": 1, "email": "john.doe@example.com", "enabled": true, "disable_pgp": false},
	{"id": 2, "email": "jane@example.com", "enabled": false, "disable_pgp": false},
	{"id": 5, "email": "me@x.com", "nb_alias": 2, "verified": true, "default": true},
	{"suffix": "@sl.io", "is_premium": false, "is_custom": false},
	{}
]`

func TestImportRecords_ClassifiesAndStores(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := writeJSON(t, t.TempDir(), "records.json", mixed)

	summary, err := svc.ImportRecords(ctx, []string{p})
	require.NoError(t, err)
	assert.Equal(t, "imported 2 aliases, 1 mailbox, 1 domain", summary)

	aliases, err := st.Records(ctx, domain.Alias)
	require.NoError(t, err)
	assert.Len(t, aliases, 2)
	domains, err := st.Records(ctx, domain.Domain)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "@sl.io", domains[0].String("suffix"))
}

func TestImportRecords_MergesByID(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", `[{"id": 1, "email": "old@x.com", "disable_pgp": false}, {"id": 2, "email": "keep@x.com", "disable_pgp": false}]`)

	_, err := svc.ImportRecords(ctx, []string{filepath.Join(dir, "a.json")})
	require.NoError(t, err)

	p := writeJSON(t, dir, "b.json", `[{"id": 1, "email": "new@x.com", "disable_pgp": true}]`)
	summary, err := svc.ImportRecords(ctx, []string{p})
	require.NoError(t, err)
	assert.Equal(t, "imported 1 alias", summary)

	aliases, err := st.Records(ctx, domain.Alias)
	require.NoError(t, err)
	require.Len(t, aliases, 2)
	assert.Equal(t, "keep@x.com", aliases[0].String("email"))
	assert.Equal(t, "new@x.com", aliases[1].String("email"))
}

func TestImportRecords_Globs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	dir := t.TempDir()
	writeJSON(t, dir, "aliases.json", `[{"id": 1, "email": "a@x.com", "disable_pgp": false}]`)
	writeJSON(t, dir, "contacts.json", `[{"id": 9, "contact": "bob@shop.com", "reverse_alias": "r", "reverse_alias_address": "r@sl.io"}]`)

	summary, err := svc.ImportRecords(ctx, []string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)
	assert.Equal(t, "imported 1 alias, 1 contact", summary)
}

func TestImportRecords_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	dir := t.TempDir()

	_, err := svc.ImportRecords(ctx, nil)
	assert.EqualError(t, err, "no record files found")

	_, err = svc.ImportRecords(ctx, []string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	bad := writeJSON(t, dir, "bad.json", `{"id": 1}`)
	_, err = svc.ImportRecords(ctx, []string{bad})
	assert.ErrorContains(t, err, "decode")

	empty := writeJSON(t, dir, "empty.json", `[]`)
	summary, err := svc.ImportRecords(ctx, []string{empty})
	require.NoError(t, err)
	assert.Equal(t, "nothing to import", summary)
}

func TestQuery_EmptyCacheHint(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	res, err := svc.Query(ctx, "john")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "No aliases...", res[0].DisplayName)
	assert.Empty(t, res[0].Type)
	assert.False(t, res[0].Actionable)

	// contacts alone do not count as a populated cache
	require.NoError(t, st.Replace(ctx, domain.Contact, []domain.Record{{"id": 1.0, "contact": "bob@shop.com"}}))
	res, err = svc.Query(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "No aliases...", res[0].DisplayName)
}

func TestQuery_ResolvesAgainstStore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := writeJSON(t, t.TempDir(), "records.json", mixed)
	_, err := svc.ImportRecords(ctx, []string{p})
	require.NoError(t, err)

	res, err := svc.Query(ctx, "john doe toggle")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "1", res[0].ID)
	assert.Equal(t, "toggle", res[0].Command)
	assert.True(t, res[0].Actionable)
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := writeJSON(t, t.TempDir(), "records.json", mixed)
	_, err := svc.ImportRecords(ctx, []string{p})
	require.NoError(t, err)

	got, err := svc.Describe(ctx, domain.Action{ID: "1", Type: domain.Alias, Command: "toggle"}.Encode())
	require.NoError(t, err)
	assert.Equal(t, "Toggle John Doe@example Com", got)

	got, err = svc.Describe(ctx, domain.Action{ID: "1", Type: domain.Alias, Command: "contact", Params: []string{"bob@y.org"}}.Encode())
	require.NoError(t, err)
	assert.Equal(t, "Contact John Doe@example Com (bob@y.org)", got)

	got, err = svc.Describe(ctx, domain.Action{ID: "404", Type: domain.Alias, Command: "delete"}.Encode())
	require.NoError(t, err)
	assert.Equal(t, "Delete Item", got)

	_, err = svc.Describe(ctx, "garbage")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := writeJSON(t, t.TempDir(), "records.json", mixed)
	_, err := svc.ImportRecords(ctx, []string{p})
	require.NoError(t, err)

	statuses, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 4)
	counts := map[domain.EntityType]int{}
	for _, st := range statuses {
		counts[st.Type] = st.Count
		assert.True(t, st.UpdatedAt.IsZero(), "memory store keeps no update times")
	}
	assert.Equal(t, map[domain.EntityType]int{domain.Alias: 2, domain.Mailbox: 1, domain.Domain: 1, domain.Contact: 0}, counts)
}
