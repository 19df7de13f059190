package router

import (
	"github.com/oksasatya/bcit-connector/internal/application"
	"github.com/oksasatya/bcit-connector/internal/container"
	repo "github.com/oksasatya/bcit-connector/internal/domain/repository"
	"github.com/oksasatya/bcit-connector/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/bcit-connector/internal/infrastructure/postgres"
	"github.com/oksasatya/bcit-connector/internal/infrastructure/search"
	handlers "github.com/oksasatya/bcit-connector/internal/interface/http"
	"github.com/oksasatya/bcit-connector/internal/router/modules"
)

type storeDeps struct {
	Users    repo.UserRepository
	Profiles repo.ProfileRepository
}

// buildStore picks the postgres pool when one is set, else the in-memory store.
func buildStore() storeDeps {
	if pool := container.GetPGPool(); pool != nil {
		return storeDeps{
			Users:    pginfra.NewUserRepository(pool),
			Profiles: pginfra.NewProfileRepository(pool),
		}
	}
	s := container.GetMemoryStore()
	if s == nil {
		s = memory.NewStore()
		container.SetMemoryStore(s)
	}
	return storeDeps{Users: s.Users(), Profiles: s.Profiles()}
}

type moduleDeps struct {
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
}

func buildDeps() moduleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := buildStore()

	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var index application.ProfileIndexer
	if x := search.NewProfileIndex(container.GetES(), cfg.ESProfilesIndex); x.Enabled() {
		index = x
	}

	authSvc := application.NewAuthService(store.Users, container.GetJWT(), logger, pub, cfg)
	profileSvc := application.NewProfileService(store.Profiles, store.Users, index, logger)
	gh := application.NewGithubClient(cfg.GithubAPIURL, cfg.GithubToken, container.GetRedis(), cfg.GithubCacheTTL, logger)

	return moduleDeps{
		Auth:    handlers.NewAuthHandler(authSvc, logger),
		Profile: handlers.NewProfileHandler(profileSvc, gh, logger),
	}
}

// InitModules wires every module from the container and adds it to the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	deps := buildDeps()
	cfg := container.GetConfig()
	jwt := container.GetJWT()
	rdb := container.GetRedis()
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(deps.Auth, jwt, rdb, logger))
	r.Add(modules.NewProfileModule(deps.Profile, jwt, rdb, logger))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
