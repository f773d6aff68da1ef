package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/tender_audit/app/display/internal/data"
	"github.com/iWorld-y/tender_audit/app/display/internal/repo"
	"github.com/iWorld-y/tender_audit/app/display/internal/service"
	"github.com/iWorld-y/tender_audit/app/display/internal/usecase"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/engine"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewAuditEngine,
	wire.Bind(new(repo.Auditor), new(*engine.Engine)),

	// Data providers
	data.NewData,
	data.NewUserRepo,
	data.NewAuditRepo,

	// UseCase providers
	usecase.NewUserUseCase,
	usecase.NewAuditUseCase,

	// Service providers
	service.NewAuditService,
)
