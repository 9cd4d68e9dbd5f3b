package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolver/internal/domain"
	"resolver/internal/entity"
)

func TestClassify_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.Record
		want domain.EntityType
	}{
		{"pgp flag wins over premium", domain.Record{"is_premium": true, "disable_pgp": false}, domain.Alias},
		{"premium wins over alias count", domain.Record{"nb_alias": 3, "is_premium": false}, domain.Domain},
		{"alias count wins over reverse alias", domain.Record{"reverse_alias": "x", "nb_alias": 1}, domain.Mailbox},
		{"reverse alias", domain.Record{"reverse_alias": "x", "contact": "a@b.com"}, domain.Contact},
		{"null flag still counts", domain.Record{"disable_pgp": nil, "is_premium": true}, domain.Alias},
		{"nothing distinguishing", domain.Record{"email": "a@b.com"}, domain.Alias},
		{"empty", domain.Record{}, domain.Alias},
		{"nil", nil, domain.Alias},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				assert.Equal(t, tt.want, entity.Classify(tt.rec))
			}
		})
	}
}

func TestSearchKey(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.Record
		typ  domain.EntityType
		want string
	}{
		{
			name: "alias",
			rec:  domain.Record{"email": "john.doe@example.com"},
			typ:  domain.Alias,
			want: "john.doe@example.com john.doe example.com",
		},
		{
			name: "alias with latest contact",
			rec: domain.Record{
				"email":           "john.doe@example.com",
				"latest_activity": map[string]any{"contact": map[string]any{"email": "bob@proton-mail.com"}},
			},
			typ:  domain.Alias,
			want: "john.doe@example.com john.doe example.com proton",
		},
		{
			name: "alias with null activity",
			rec:  domain.Record{"email": "a@b.com", "latest_activity": nil},
			typ:  domain.Alias,
			want: "a@b.com a b.com",
		},
		{"mailbox", domain.Record{"email": "me@x.com"}, domain.Mailbox, "me x.com"},
		{"domain with at", domain.Record{"suffix": "@sl.io"}, domain.Domain, "sl.io"},
		{"domain plain", domain.Record{"suffix": ".abc@sl.io"}, domain.Domain, "sl.io"},
		{"contact", domain.Record{"contact": "john.smith@x.com"}, domain.Contact, "smith x.com john.smith@x.com"},
		{"contact without at", domain.Record{"contact": "nobody"}, domain.Contact, "nobody"},
		{"missing alias email", domain.Record{"id": 1}, domain.Alias, ""},
		{"missing suffix", domain.Record{}, domain.Domain, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.SearchKey(tt.rec, tt.typ))
		})
	}
}

func TestEmailDomain(t *testing.T) {
	name, tld := entity.EmailDomain("bob@mail.acme.co.uk")
	assert.Equal(t, "acme", name)
	assert.Equal(t, "co.uk", tld)

	name, tld = entity.EmailDomain("x@localhost")
	assert.Empty(t, name)
	assert.Empty(t, tld)
}

func TestAnnotate(t *testing.T) {
	rec := domain.Record{"suffix": "@sl.io", "is_premium": true}
	it := entity.Annotate(rec, domain.Domain)
	assert.Equal(t, "sl.io", it.Name)
	assert.Equal(t, "@sl.io", it.ID)
	assert.Equal(t, "sl.io", it.Key)
	assert.Equal(t, "icons/domain.png", it.Icon)
	assert.Len(t, rec, 2, "annotation must not add fields to the record")

	items := entity.AnnotateAll([]domain.Record{nil, {"id": 7.0, "email": "a@b.com"}, {}}, domain.Alias)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ID)
}

func TestMerge(t *testing.T) {
	a1 := domain.Record{"id": 1.0, "email": "a1@x.com"}
	a2 := domain.Record{"id": 2.0, "email": "a2@x.com"}
	a3 := domain.Record{"id": 3.0, "email": "a3@x.com"}
	a2new := domain.Record{"id": 2.0, "email": "a2-new@x.com"}
	a4 := domain.Record{"id": 4.0, "email": "a4@x.com"}

	existing := []domain.Record{a1, a2, a3}
	fresh := []domain.Record{a2new, a4}
	merged := entity.Merge(existing, fresh, "id")

	require.Len(t, merged, 4)
	assert.Equal(t, []string{"a1@x.com", "a3@x.com", "a2-new@x.com", "a4@x.com"},
		[]string{merged[0].String("email"), merged[1].String("email"), merged[2].String("email"), merged[3].String("email")})

	// inputs untouched
	assert.Len(t, existing, 3)
	assert.Equal(t, "a2@x.com", existing[1].String("email"))
	assert.Len(t, fresh, 2)
}

func TestMerge_EmptyInputs(t *testing.T) {
	assert.Empty(t, entity.Merge(nil, nil, "id"))
	recs := []domain.Record{{"suffix": "a.io"}, nil}
	assert.Len(t, entity.Merge(recs, nil, "suffix"), 1)
	assert.Len(t, entity.Merge(nil, recs, "suffix"), 1)
}

func TestSubtitle(t *testing.T) {
	alias := domain.Record{"enabled": true, "mailbox": map[string]any{"email": "me@x.com"}}
	assert.Equal(t, "  👍🏼 enabled  📧 me@x.com", entity.Subtitle(alias, domain.Alias))

	mailbox := domain.Record{"verified": false, "default": true}
	assert.Equal(t, "  ✅ not verified  🥇 default", entity.Subtitle(mailbox, domain.Mailbox))

	contact := domain.Record{"enabled": false, "alias": nil, "reverse_alias_address": "r@sl.io"}
	assert.Equal(t, "  👎 disabled  📨 none  📧 r@sl.io", entity.Subtitle(contact, domain.Contact))

	assert.Empty(t, entity.Subtitle(domain.Record{}, domain.Domain))
}

func TestNotifyName(t *testing.T) {
	assert.Equal(t, "John Doe@example Com", entity.NotifyName(domain.Record{"email": "john.doe@example.com"}))
	assert.Equal(t, "Bob Smith@x Com", entity.NotifyName(domain.Record{"contact": "bob-smith@x.com"}))
	assert.Equal(t, "John Doe@x Com", entity.NotifyName(domain.Record{"email": "JOHN.DOE@X.COM"}))
	assert.Equal(t, "Émile Zola@x Fr", entity.NotifyName(domain.Record{"email": "émile.zola@x.fr"}))
	assert.Equal(t, "Item", entity.NotifyName(domain.Record{}))
}

func TestKnownField(t *testing.T) {
	assert.True(t, entity.KnownField(domain.Contact, "reverse_alias_address"))
	assert.False(t, entity.KnownField(domain.Mailbox, "reverse_alias_address"))
}
