// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from a
// concrete source.
//
// The `config.Model` is the single source of truth for the `graph`,
// `resolve`, and `executor` packages. The HCL implementation of the Loader
// lives in the hclconfig package.
package config
