package database

import (
	"testing"

	"vitrine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open("sqlite", "file:"+t.Name()+"?mode=memory&_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"products", "product_variants", "product_images", "product_categories", "team_members", "social_links", "store_configurations"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.SocialMedia{}, "idx_social_store_platform"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}
