package main

import (
	"time"

	"vitrine/internal/config"
	"vitrine/internal/handlers"
	"vitrine/internal/middleware"
	"vitrine/internal/repositories"
	"vitrine/internal/services"
	"vitrine/pkg/cache"
	"vitrine/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the HTTP app is built on.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  cache.Store
	Files  *storage.LocalStorage
	Logger *logrus.Logger
}

// Services groups the application services, so startup tasks can reach them.
type Services struct {
	Auth               *services.AuthService
	Clients            *services.ClientService
	TeamMembers        *services.TeamMemberService
	Categories         *services.CategoryService
	Brands             *services.BrandService
	Products           *services.ProductService
	Banners            *services.BannerService
	Newsletter         *services.NewsletterService
	SocialMedia        *services.SocialMediaService
	StoreConfiguration *services.StoreConfigurationService
}

func newServices(deps Dependencies) *Services {
	clientRepo := repositories.NewGORMClientRepository(deps.DB)
	teamRepo := repositories.NewGORMTeamMemberRepository(deps.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(deps.DB)
	brandRepo := repositories.NewGORMBrandRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	bannerRepo := repositories.NewGORMBannerRepository(deps.DB)
	newsletterRepo := repositories.NewGORMNewsletterRepository(deps.DB)
	socialRepo := repositories.NewGORMSocialMediaRepository(deps.DB)
	storeRepo := repositories.NewGORMStoreConfigurationRepository(deps.DB)

	tokens := services.TokenConfig{
		Secret:    deps.Config.JWTSecret,
		ClientTTL: deps.Config.JWTClientExpiresIn,
		TeamTTL:   deps.Config.JWTTeamExpiresIn,
	}

	return &Services{
		Auth:               services.NewAuthService(clientRepo, teamRepo, tokens, deps.Logger),
		Clients:            services.NewClientService(clientRepo, deps.Logger),
		TeamMembers:        services.NewTeamMemberService(teamRepo, deps.Logger),
		Categories:         services.NewCategoryService(categoryRepo, deps.Logger),
		Brands:             services.NewBrandService(brandRepo, deps.Logger),
		Products:           services.NewProductService(productRepo, brandRepo, categoryRepo, deps.Files, deps.Logger),
		Banners:            services.NewBannerService(bannerRepo, deps.Files, deps.Logger),
		Newsletter:         services.NewNewsletterService(newsletterRepo, deps.Logger),
		SocialMedia:        services.NewSocialMediaService(socialRepo, storeRepo, deps.Logger),
		StoreConfiguration: services.NewStoreConfigurationService(storeRepo, deps.Files, deps.Logger),
	}
}

// routeRegistrar is implemented by every resource handler.
type routeRegistrar interface {
	RegisterRoutes(router fiber.Router, requireAuth fiber.Handler)
}

// newApp wires the Fiber app: error handling, request logging, metrics,
// static uploads and the /api/v1 routes.
func newApp(deps Dependencies, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(deps.Logger),
		BodyLimit:    20 * 1024 * 1024,
	})

	app.Use(logger.New())
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "connected"
		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "unreachable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": status,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/uploads", deps.Files.Root())

	apiV1 := app.Group("/api/v1")
	requireAuth := middleware.AuthRequired(svc.Auth)

	registrars := []routeRegistrar{
		handlers.NewAuthHandler(svc.Auth, deps.Config.IsProduction(), deps.Logger),
		handlers.NewClientHandler(svc.Clients),
		handlers.NewTeamMemberHandler(svc.TeamMembers),
		handlers.NewCategoryHandler(svc.Categories, deps.Cache, deps.Logger),
		handlers.NewBrandHandler(svc.Brands, deps.Cache, deps.Logger),
		handlers.NewProductHandler(svc.Products, deps.Cache, deps.Logger),
		handlers.NewBannerHandler(svc.Banners, deps.Cache, deps.Logger),
		handlers.NewNewsletterHandler(svc.Newsletter),
		handlers.NewSocialMediaHandler(svc.SocialMedia, deps.Cache, deps.Logger),
		handlers.NewStoreConfigurationHandler(svc.StoreConfiguration, deps.Cache, deps.Logger),
	}
	for _, r := range registrars {
		r.RegisterRoutes(apiV1, requireAuth)
	}

	return app
}
