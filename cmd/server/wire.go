// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Ninano9/camera/internal/app"
	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/config"
	"github.com/Ninano9/camera/internal/jobs"
	"github.com/Ninano9/camera/internal/mapping"
	"github.com/Ninano9/camera/internal/middleware"
	"github.com/Ninano9/camera/internal/platform/logger"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/shared"
	"github.com/Ninano9/camera/internal/telemetry"
	"github.com/Ninano9/camera/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		provideCleanup,

		// Tokens and blocklist
		auth.NewJWTService,
		wire.Bind(new(shared.TokenService), new(*auth.JWTService)),
		provideBlocklistConfig,
		auth.NewInMemoryBlocklistService,
		wire.Bind(new(auth.TokenBlocklistService), new(*auth.InMemoryBlocklistService)),
		wire.Bind(new(middleware.TokenBlocklist), new(*auth.InMemoryBlocklistService)),

		// Users
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Auth
		auth.NewService,
		wire.Bind(new(auth.Service), new(*auth.ServiceImplementation)),
		auth.NewHandler,

		// Profiles
		profile.NewGORMRepository,
		profile.NewService,
		wire.Bind(new(profile.Service), new(*profile.ServiceImplementation)),
		wire.Bind(new(shared.ProfileSummaryProvider), new(*profile.ServiceImplementation)),
		profile.NewHandler,

		// Mappings
		mapping.NewGORMRepository,
		mapping.NewService,
		wire.Bind(new(mapping.Service), new(*mapping.ServiceImplementation)),
		wire.Bind(new(shared.MappingSummaryProvider), new(*mapping.ServiceImplementation)),
		mapping.NewHandler,

		// Telemetry
		telemetry.NewGORMRepository,
		telemetry.NewService,
		wire.Bind(new(telemetry.Service), new(*telemetry.ServiceImplementation)),
		telemetry.NewHandler,
		jobs.NewTelemetryRetentionJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
