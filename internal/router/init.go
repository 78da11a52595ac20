package router

import (
	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/container"
	pginfra "github.com/velora-social/velora-api/internal/infrastructure/postgres"
	handlers "github.com/velora-social/velora-api/internal/interface/http"
	"github.com/velora-social/velora-api/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module with the registry. Call once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	perms := pginfra.NewPermissionRepository(pool)
	follows := pginfra.NewFollowRepository(pool)

	authSvc := app.NewAuthService(users, roles, container.GetJWT(), container.GetRedis(),
		container.GetRabbitPub(), container.GetES(), cfg.ESUsersIndex, logger)
	rbacSvc := app.NewRBACService(roles, perms, logger)
	relationSvc := app.NewRelationService(users, follows, logger)
	profileSvc := app.NewProfileService(users, follows, container.GetGCS(), cfg.GCSBucket,
		container.GetES(), cfg.ESUsersIndex, logger)
	importSvc := app.NewImportService(users, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), authSvc))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(authSvc, importSvc, logger), authSvc))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, logger), authSvc))
	r.Add(modules.NewRelationModule(handlers.NewRelationHandler(relationSvc, logger), authSvc))
	r.Add(modules.NewRBACModule(handlers.NewRBACHandler(rbacSvc, logger), authSvc))
}
