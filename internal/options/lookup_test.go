package options

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
)

func TestLookupDefaults(t *testing.T) {
	l := NewLookup(nil)

	assert.Equal(t, domain.SharingScopeNone, l.SharingScope())
	assert.True(t, l.Bool(domain.OptionEmailNotifications))
	assert.Empty(t, l.String(domain.OptionExternalIdentifier))
	assert.Empty(t, l.StringSet(domain.OptionDataGroups))
	assert.Empty(t, l.OrderedStringSet(domain.OptionLanguages))
	assert.False(t, l.Has(domain.OptionLanguages))
}

func TestLookupStoredValues(t *testing.T) {
	l := NewLookup(map[domain.OptionKey]string{
		domain.OptionSharingScope:       "SPONSORS_AND_PARTNERS",
		domain.OptionEmailNotifications: "false",
		domain.OptionExternalIdentifier: "ext-1",
		domain.OptionDataGroups:         "group_b,group_a",
		domain.OptionLanguages:          "fr,en,fr",
	})

	assert.Equal(t, domain.SharingScopeSponsorsAndPartners, l.SharingScope())
	assert.False(t, l.Bool(domain.OptionEmailNotifications))
	assert.Equal(t, "ext-1", l.String(domain.OptionExternalIdentifier))
	assert.Equal(t, []string{"group_a", "group_b"}, l.StringSet(domain.OptionDataGroups))
	assert.Equal(t, []string{"fr", "en"}, l.OrderedStringSet(domain.OptionLanguages))
}

func TestLookupIgnoresGarbage(t *testing.T) {
	l := NewLookup(map[domain.OptionKey]string{
		domain.OptionSharingScope:       "everyone",
		domain.OptionEmailNotifications: "sometimes",
	})
	assert.Equal(t, domain.SharingScopeNone, l.SharingScope())
	assert.True(t, l.Bool(domain.OptionEmailNotifications))
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	hc := domain.HealthCode("hc-1")

	require.NoError(t, store.SetAll(ctx, "api", hc, map[domain.OptionKey]string{
		domain.OptionSharingScope: string(domain.SharingScopeAllQualified),
		domain.OptionLanguages:    "en",
	}))
	require.NoError(t, store.SetAll(ctx, "api", hc, map[domain.OptionKey]string{
		domain.OptionLanguages: "de,en",
	}))

	l, err := store.GetAll(ctx, hc)
	require.NoError(t, err)
	assert.Equal(t, domain.SharingScopeAllQualified, l.SharingScope(), "batch writes merge")
	assert.Equal(t, []string{"de", "en"}, l.OrderedStringSet(domain.OptionLanguages))

	err = store.SetAll(ctx, "api", "", map[domain.OptionKey]string{domain.OptionLanguages: "en"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodePrecondition))

	require.NoError(t, store.DeleteAll(ctx, hc))
	assert.False(t, store.Exists(hc))
}
