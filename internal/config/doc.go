// Package config defines the build, packaging and deploy settings of the
// LuaFramework tooling and helpers to load, validate and save them as YAML.
//
// Default returns the layout of the LuaFramework repository, so the tools
// work without any configuration file.
package config
