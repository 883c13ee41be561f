package handlers

import (
	"context"
	"time"

	"vitrine/pkg/cache"

	"github.com/sirupsen/logrus"
)

// Cache key bases. List endpoints append ":<query>", item endpoints ":<id>".
const (
	keyProductsAll        = "products_all"
	keyProductsPublic     = "products_public"
	keyProduct            = "product"
	keyBannersAll         = "banners_all"
	keyBannersPublic      = "banners_public"
	keyBanner             = "banner"
	keySocialMediaAll     = "social_media_all"
	keyStoreConfigCurrent = "store_config_current"
	keyBrandsPublic       = "brands_public"
	keyCategoriesPublic   = "categories_public"
)

const cacheTTL = 24 * time.Hour

// invalidator drops cached responses after a successful mutation.
type invalidator struct {
	store  cache.Store
	logger *logrus.Logger
}

// drop deletes the exact keys and every key under each list base. Failures
// are logged; the mutation already succeeded.
func (i invalidator) drop(ctx context.Context, keys []string, listBases ...string) {
	if len(keys) > 0 {
		if err := i.store.Delete(ctx, keys...); err != nil {
			i.logger.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
		}
	}
	for _, base := range listBases {
		if err := i.store.DeletePrefix(ctx, base+":"); err != nil {
			i.logger.WithError(err).WithField("prefix", base).Warn("cache invalidation failed")
		}
	}
}

func itemKey(base, id string) string {
	return base + ":" + id
}
