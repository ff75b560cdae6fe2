package publishingservice

import (
	"log/slog"

	formatcatalog "brandcast/contexts/content-publishing/format-catalog"
	httpadapter "brandcast/contexts/content-publishing/publishing-service/adapters/http"
	"brandcast/contexts/content-publishing/publishing-service/adapters/memory"
	"brandcast/contexts/content-publishing/publishing-service/adapters/platforms"
	"brandcast/contexts/content-publishing/publishing-service/application/commands"
	"brandcast/contexts/content-publishing/publishing-service/application/queries"
	"brandcast/contexts/content-publishing/publishing-service/application/workers"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

type Module struct {
	Commands  commands.UseCase
	Queries   queries.UseCase
	Handler   httpadapter.Handler
	Scheduler workers.SchedulerJob
	Relay     workers.OutboxRelay
	Store     *memory.Store
	Tokens    *memory.TokenVault
}

type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxWriter
	OutboxRepo  ports.OutboxRepository
	Catalog     ports.FormatCatalog
	Validator   ports.ContractValidator
	Publishers  ports.PublisherRegistry
	Tokens      ports.AccessTokenProvider
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	EventBus    ports.EventPublisher
	MaxParallel int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Repository:  deps.Repository,
		Catalog:     deps.Catalog,
		Validator:   deps.Validator,
		Publishers:  deps.Publishers,
		Tokens:      deps.Tokens,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Outbox:      deps.Outbox,
		MaxParallel: deps.MaxParallel,
		Logger:      deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Commands: commandUseCase,
		Queries:  queryUseCase,
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Scheduler: workers.SchedulerJob{
			Commands: commandUseCase,
			Logger:   deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.EventBus,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the publishing module against the embedded format
// catalog, an in-memory store, and the given publishers. Tests and local runs
// use this path.
func NewInMemoryModule(
	seed []entities.Card,
	tokens map[string]string,
	logger *slog.Logger,
	publishers ...ports.Publisher,
) (Module, error) {
	catalogModule, err := formatcatalog.NewEmbeddedModule(logger)
	if err != nil {
		return Module{}, err
	}
	store := memory.NewStore(seed)
	vault := memory.NewTokenVault(tokens)
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		OutboxRepo: store,
		Catalog:    catalogModule.Catalog,
		Validator:  catalogModule.Validator,
		Publishers: platforms.NewRegistry(logger, publishers...),
		Tokens:     vault,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	module.Tokens = vault
	return module, nil
}
