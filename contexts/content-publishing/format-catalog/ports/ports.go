package ports

import "brandcast/contexts/content-publishing/format-catalog/domain/entities"

// Source provides the raw platform format definitions the catalog is built from.
type Source interface {
	LoadFormats() ([]entities.PlatformFormat, error)
}
