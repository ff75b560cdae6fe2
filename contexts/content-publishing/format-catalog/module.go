package formatcatalog

import (
	"log/slog"

	httpadapter "brandcast/contexts/content-publishing/format-catalog/adapters/http"
	"brandcast/contexts/content-publishing/format-catalog/adapters/yamlsource"
	"brandcast/contexts/content-publishing/format-catalog/application"
	"brandcast/contexts/content-publishing/format-catalog/ports"
)

type Module struct {
	Catalog   *application.Catalog
	Validator application.Validator
	Handler   httpadapter.Handler
}

type Dependencies struct {
	Source ports.Source
	Logger *slog.Logger
}

func NewModule(deps Dependencies) (Module, error) {
	catalog, err := application.NewCatalog(deps.Source, deps.Logger)
	if err != nil {
		return Module{}, err
	}
	return Module{
		Catalog:   catalog,
		Validator: application.Validator{},
		Handler: httpadapter.Handler{
			Catalog: catalog,
			Logger:  deps.Logger,
		},
	}, nil
}

// NewEmbeddedModule builds the catalog from the embedded default definitions.
func NewEmbeddedModule(logger *slog.Logger) (Module, error) {
	return NewModule(Dependencies{
		Source: yamlsource.Source{},
		Logger: logger,
	})
}
