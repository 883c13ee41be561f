package services

import (
	"errors"
	"fmt"
	"strings"

	"vitrine/internal/apperrors"
	"vitrine/internal/repositories"
)

// resource names an entity in error codes and messages.
type resource struct {
	code     string // PRODUCT, TEAM_MEMBER, ...
	name     string // human readable, lower case
	unique   string // unique field in codes, e.g. EMAIL
	conflict string // message for a unique violation
}

var (
	productRes    = resource{code: "PRODUCT", name: "product"}
	clientRes     = resource{code: "CLIENT", name: "client", unique: "EMAIL", conflict: "Email already exists"}
	teamMemberRes = resource{code: "TEAM_MEMBER", name: "team member", unique: "EMAIL", conflict: "Email already exists"}
	categoryRes   = resource{code: "CATEGORY", name: "category", unique: "NAME", conflict: "Category name already exists"}
	brandRes      = resource{code: "BRAND", name: "brand", unique: "NAME", conflict: "Brand name already exists"}
	bannerRes     = resource{code: "BANNER", name: "banner"}
	newsletterRes = resource{code: "NEWSLETTER", name: "newsletter", unique: "EMAIL", conflict: "Email already subscribed"}
	socialRes     = resource{code: "SOCIAL_MEDIA", name: "social media", unique: "PLATFORM", conflict: "Social media platform already exists"}
	storeConfRes  = resource{code: "STORE_CONFIGURATION", name: "store configuration"}
)

func (r resource) notFound(id string) *apperrors.AppError {
	label := strings.ToUpper(r.name[:1]) + r.name[1:]
	if id == "" {
		return apperrors.NotFound(r.code+"_NOT_FOUND", label+" not found")
	}
	return apperrors.NotFound(r.code+"_NOT_FOUND", fmt.Sprintf("%s with ID %s not found", label, id))
}

func (r resource) alreadyExists() *apperrors.AppError {
	return apperrors.Conflict(r.code+"_"+r.unique+"_ALREADY_EXISTS", r.conflict)
}

func (r resource) failed(op string, err error) *apperrors.AppError {
	return apperrors.Internal(
		fmt.Sprintf("%s_FAILED_TO_%s", r.code, strings.ToUpper(op)),
		fmt.Sprintf("Failed to %s %s", op, r.name),
		err,
	)
}

// fromStore classifies a repository error raised while running op on id.
func (r resource) fromStore(err error, id, op string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return r.notFound(id)
	case errors.Is(err, repositories.ErrDuplicateKey) && r.unique != "":
		return r.alreadyExists()
	default:
		return r.failed(op, err)
	}
}
