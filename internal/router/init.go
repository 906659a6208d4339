package router

import (
	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/internal/container"
	pginfra "github.com/oksasatya/cryptopal/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/cryptopal/internal/interface/http"
	"github.com/oksasatya/cryptopal/internal/router/modules"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

type UserModuleDeps struct {
	Service   *application.Service
	Favorites *application.FavoritesService
	Handler   *handlers.UserHandler
	FavHandle *handlers.FavoritesHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewService(repo, container.GetJWT(), container.GetRedis(), logger)
	service.SessionTTL = cfg.SessionTTL
	service.MailCfg = application.MailSettings{
		Enabled:      cfg.MailSendEnabled,
		CompanyName:  cfg.CompanyName,
		DashboardURL: cfg.DashboardURL,
		SupportURL:   cfg.SupportURL,
	}
	// assign only non-nil pointers so the interface fields stay nil
	if v := container.GetGoogleVerifier(); v != nil {
		service.Identity = v
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		service.Avatars = helpers.NewGCSBucket(gcs, cfg.GCSBucket)
	}
	if p := container.GetRabbitPub(); p != nil {
		service.Mail = p
	}
	if mon := container.GetMonitor(); mon != nil {
		service.Net = mon
	}

	favorites := application.NewFavoritesService(repo, service.Net, container.GetMarkets(), logger)

	return UserModuleDeps{
		Service:   service,
		Favorites: favorites,
		Handler:   handlers.NewUserHandler(service, logger, cfg.CookieDomain, cfg.CookieSecure),
		FavHandle: handlers.NewFavoritesHandler(favorites, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, jwt))
	r.Add(modules.NewFavoritesModule(userDeps.FavHandle, jwt))

	markets := container.GetMarkets()
	var feed *handlers.FeedHandler
	if f := container.GetMarketFeed(); f != nil {
		feed = handlers.NewFeedHandler(f, markets, logger, cfg.CORSOrigins())
	}
	r.Add(modules.NewMarketModule(handlers.NewMarketHandler(markets, logger), feed, jwt))

	r.Add(modules.NewStatusModule(handlers.NewStatusHandler(container.GetMonitor())))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
