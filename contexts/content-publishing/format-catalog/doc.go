// Package formatcatalog owns the platform/format reference data for the
// brandcast monolith: the declarative output schema and publishing rules for
// every supported (platform, format) pair, and the validator that decides
// whether a contract payload is publishable against them.
package formatcatalog
