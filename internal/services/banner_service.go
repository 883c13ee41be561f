package services

import (
	"context"
	"mime/multipart"

	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/sirupsen/logrus"
)

const bannerUploadFolder = "banners"

// BannerInput holds the fields of a new banner. Image fields may carry URLs;
// uploaded files take precedence.
type BannerInput struct {
	Title             string `json:"title" validate:"required,max=255"`
	Subtitle          string `json:"subtitle" validate:"max=255"`
	LinkURL           string `json:"link_url" validate:"max=512"`
	ImageDesktop      string `json:"image_desktop" validate:"max=512"`
	ImageMobile       string `json:"image_mobile" validate:"max=512"`
	ResolutionDesktop string `json:"resolution_desktop" validate:"max=20"`
	ResolutionMobile  string `json:"resolution_mobile" validate:"max=20"`
	IsActive          *bool  `json:"is_active"`
}

// UpdateBannerInput holds the banner fields that may be changed. Blank
// strings are treated as absent.
type UpdateBannerInput struct {
	Title             *string `json:"title" validate:"omitempty,max=255"`
	Subtitle          *string `json:"subtitle" validate:"omitempty,max=255"`
	LinkURL           *string `json:"link_url" validate:"omitempty,max=512"`
	ResolutionDesktop *string `json:"resolution_desktop" validate:"omitempty,max=20"`
	ResolutionMobile  *string `json:"resolution_mobile" validate:"omitempty,max=20"`
	IsActive          *bool   `json:"is_active"`
}

// BannerImages are the optional artwork uploads of a banner request.
type BannerImages struct {
	Desktop *multipart.FileHeader
	Mobile  *multipart.FileHeader
}

// BannerService handles business logic related to banners.
type BannerService struct {
	repo   repositories.BannerRepository
	files  FileStorage
	logger *logrus.Logger
}

// NewBannerService creates a new BannerService.
func NewBannerService(repo repositories.BannerRepository, files FileStorage, logger *logrus.Logger) *BannerService {
	return &BannerService{repo: repo, files: files, logger: logger}
}

func (s *BannerService) Create(ctx context.Context, input BannerInput, images BannerImages) (*models.Banner, error) {
	desktop, mobile, err := s.upload(ctx, images)
	if err != nil {
		return nil, bannerRes.failed("create", err)
	}

	banner := &models.Banner{
		Title:             input.Title,
		Subtitle:          input.Subtitle,
		LinkURL:           input.LinkURL,
		ImageDesktop:      firstNonEmpty(desktop, input.ImageDesktop),
		ImageMobile:       firstNonEmpty(mobile, input.ImageMobile),
		ResolutionDesktop: input.ResolutionDesktop,
		ResolutionMobile:  input.ResolutionMobile,
		IsActive:          input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(ctx, banner); err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, s.logger, []string{desktop, mobile})
		return nil, bannerRes.fromStore(err, "", "create")
	}
	return banner, nil
}

func (s *BannerService) FindAll(ctx context.Context, activeOnly bool, skip, take int) ([]models.Banner, error) {
	banners, err := s.repo.List(ctx, activeOnly, skip, take)
	if err != nil {
		return nil, bannerRes.failed("list", err)
	}
	return banners, nil
}

func (s *BannerService) FindOne(ctx context.Context, id string) (*models.Banner, error) {
	banner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, bannerRes.fromStore(err, id, "find")
	}
	return banner, nil
}

// Update changes the non-blank fields. A newly uploaded image replaces the
// previous one, whose stored file is deleted after the row is updated.
func (s *BannerService) Update(ctx context.Context, id string, input UpdateBannerInput, images BannerImages) (*models.Banner, error) {
	existing, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setIfNotBlank(fields, "title", input.Title)
	setIfNotBlank(fields, "subtitle", input.Subtitle)
	setIfNotBlank(fields, "link_url", input.LinkURL)
	setIfNotBlank(fields, "resolution_desktop", input.ResolutionDesktop)
	setIfNotBlank(fields, "resolution_mobile", input.ResolutionMobile)
	setIf(fields, "is_active", input.IsActive)

	desktop, mobile, err := s.upload(ctx, images)
	if err != nil {
		return nil, bannerRes.failed("update", err)
	}
	var replaced []string
	if desktop != "" {
		fields["image_desktop"] = desktop
		replaced = append(replaced, existing.ImageDesktop)
	}
	if mobile != "" {
		fields["image_mobile"] = mobile
		replaced = append(replaced, existing.ImageMobile)
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, s.logger, []string{desktop, mobile})
		return nil, bannerRes.fromStore(err, id, "update")
	}
	removeFiles(ctx, s.files, s.logger, replaced)
	return s.FindOne(ctx, id)
}

// Remove deletes the banner and its stored images.
func (s *BannerService) Remove(ctx context.Context, id string) (*models.Banner, error) {
	banner, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, bannerRes.fromStore(err, id, "delete")
	}
	removeFiles(ctx, s.files, s.logger, []string{banner.ImageDesktop, banner.ImageMobile})
	return banner, nil
}

func (s *BannerService) upload(ctx context.Context, images BannerImages) (desktop, mobile string, err error) {
	var files []*multipart.FileHeader
	if images.Desktop != nil {
		files = append(files, images.Desktop)
	}
	if images.Mobile != nil {
		files = append(files, images.Mobile)
	}

	paths, err := uploadFiles(ctx, s.files, s.logger, files, bannerUploadFolder)
	if err != nil {
		return "", "", err
	}
	if images.Desktop != nil {
		desktop, paths = paths[0], paths[1:]
	}
	if images.Mobile != nil {
		mobile = paths[0]
	}
	return desktop, mobile, nil
}

func setIfNotBlank(fields map[string]interface{}, column string, value *string) {
	if value != nil && *value != "" {
		fields[column] = *value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
