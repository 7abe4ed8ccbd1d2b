package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eigeen/LuaFramework/internal/domain/artifact"
)

// Config describes how the plugin is built, packaged and deployed.
type Config struct {
	// Product is the fixed prefix of every package name.
	Product string `yaml:"product"`
	// Workdir is the repository root; sources and the output dir are relative to it.
	Workdir string `yaml:"workdir"`
	// VersionFile is the project configuration holding the `version = "X.Y.Z"` line.
	VersionFile string `yaml:"version_file"`
	// OutputDir is recreated on every packaging run and receives the archive.
	OutputDir string `yaml:"output_dir"`
	// StrictVersion aborts packaging when no version line is found.
	StrictVersion bool `yaml:"strict_version"`
	// Revision selects how the short commit id is obtained in dev mode.
	Revision Revision `yaml:"revision"`
	// Build lists the external toolchain invocations.
	Build Build `yaml:"build"`
	// Artifacts is the packaging manifest.
	Artifacts []artifact.Entry `yaml:"artifacts"`
	// Deploy configures the live-deploy variant.
	Deploy Deploy `yaml:"deploy"`
}

// Revision configures the revision resolver.
type Revision struct {
	// Source is RevisionSourceCLI or RevisionSourceRepository.
	Source string `yaml:"source"`
}

// Build configures the build orchestrator.
type Build struct {
	// Steps run in order before packaging or deploying.
	Steps []BuildStep `yaml:"steps"`
	// FailOnError aborts the run on the first failed step instead of logging and continuing.
	FailOnError bool `yaml:"fail_on_error"`
}

// BuildStep is a single external build invocation.
type BuildStep struct {
	// Name labels the step in logs.
	Name string `yaml:"name"`
	// Program is the executable to run.
	Program string `yaml:"program"`
	// Args are passed verbatim.
	Args []string `yaml:"args,omitempty"`
	// Dir is relative to Workdir; empty means Workdir itself.
	Dir string `yaml:"dir,omitempty"`
}

// Deploy configures live deployment into a game installation.
type Deploy struct {
	// Target is the installation root receiving the files.
	Target string `yaml:"target"`
	// Process is the host executable name; deploy refuses to run while it is alive.
	Process string `yaml:"process,omitempty"`
	// Artifacts is the deploy manifest, relative to Target.
	Artifacts []artifact.Entry `yaml:"artifacts"`
}

const (
	// DefaultProduct is the package name prefix.
	DefaultProduct = "lua-framework"

	// DefaultVersionFile is the Cargo manifest holding the crate version.
	DefaultVersionFile = "Cargo.toml"

	// DefaultOutputDir receives the staged tree and the archive.
	DefaultOutputDir = "dist"

	// DefaultDeployTarget is the Steam installation of Monster Hunter: World.
	DefaultDeployTarget = "C:/Program Files (x86)/Steam/steamapps/common/Monster Hunter World"

	// DefaultDeployProcess is the game executable that locks the deployed DLLs.
	DefaultDeployProcess = "MonsterHunterWorld.exe"

	// RevisionSourceCLI queries the git command line tool.
	RevisionSourceCLI = "cli"

	// RevisionSourceRepository reads HEAD through go-git.
	RevisionSourceRepository = "repository"

	// DefaultFilePermissions is used when saving a configuration file.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProductRequired is returned when the product name is empty.
	errProductRequired = errors.New("product must be provided")
	// errVersionFileRequired is returned when the version file is empty.
	errVersionFileRequired = errors.New("version file must be provided")
	// errUnsafeOutputDir is returned for output dirs that would wipe the workspace or escape it.
	errUnsafeOutputDir = errors.New("output dir must be a sub-directory of the workdir")
	// errUnknownRevisionSource is returned for an unsupported revision source.
	errUnknownRevisionSource = errors.New("unknown revision source")
	// errProgramRequired is returned for a build step without a program.
	errProgramRequired = errors.New("build step program must be provided")
)

// Default returns the configuration matching the LuaFramework repository layout.
func Default() *Config {
	return &Config{
		Product:     DefaultProduct,
		Workdir:     ".",
		VersionFile: DefaultVersionFile,
		OutputDir:   DefaultOutputDir,
		Revision: Revision{
			Source: RevisionSourceCLI,
		},
		Build: Build{
			Steps: []BuildStep{
				{
					Name:    "d3d11-loader",
					Program: "xmake",
					Args:    []string{"build", "-y"},
					Dir:     "d3d11",
				},
				{
					Name:    "cargo",
					Program: "cargo",
					Args:    []string{"build", "--release", "--package", "lua-framework", "--package", "luaf-libffi"},
				},
			},
		},
		Artifacts: []artifact.Entry{
			// Loader.
			fileEntry("d3d11/build/windows/x64/release/d3d11.dll", "d3d11.dll"),
			// Core files.
			fileEntry("target/release/lua_framework.dll", "lua_framework.dll"),
			fileEntry("lib/cimgui.dll", "lua_framework/bin/cimgui.dll"),
			fileEntry("target/release/luaf_libffi.dll", "lua_framework/extensions/luaf_libffi.dll"),
			fileEntry("mhw-imgui-core/x64/Release/mhw-imgui-core.dll", "lua_framework/extensions/mhw-imgui-core.dll"),
			// Assets.
			fileEntry("assets/SourceHanSansCN-Regular.otf", "lua_framework/fonts/SourceHanSansCN-Regular.otf"),
			// Scripts.
			{Kind: artifact.KindCreateEmptyDirectory, Destination: "lua_framework/scripts"},
			{Kind: artifact.KindDirectory, Source: "scripts/_framework", Destination: "lua_framework/scripts/_framework"},
		},
		Deploy: Deploy{
			Target:  DefaultDeployTarget,
			Process: DefaultDeployProcess,
			Artifacts: []artifact.Entry{
				fileEntry("d3d11/build/windows/x64/release/d3d11.dll", "d3d11.dll"),
				fileEntry("target/release/lua_framework.dll", "lua_framework.dll"),
				fileEntry("target/release/luaf_libffi.dll", "lua_framework/extensions/luaf_libffi.dll"),
				fileEntry("mhw-imgui-core/x64/Release/mhw-imgui-core.dll", "lua_framework/extensions/mhw-imgui-core.dll"),
			},
		},
	}
}

// Load returns the defaults when path is empty, otherwise the YAML file
// at path decoded on top of the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		contents, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks required fields, fills defaults for optional ones and
// makes sure both manifests parse.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.Product) == "" {
		return errProductRequired
	}

	if cfg.Workdir == "" {
		cfg.Workdir = "."
	}

	if cfg.VersionFile == "" {
		return errVersionFileRequired
	}

	if err := validateOutputDir(cfg.OutputDir); err != nil {
		return err
	}

	if cfg.Revision.Source == "" {
		cfg.Revision.Source = RevisionSourceCLI
	}

	if cfg.Revision.Source != RevisionSourceCLI && cfg.Revision.Source != RevisionSourceRepository {
		return fmt.Errorf("%q: %w", cfg.Revision.Source, errUnknownRevisionSource)
	}

	for i, step := range cfg.Build.Steps {
		if strings.TrimSpace(step.Program) == "" {
			return fmt.Errorf("build step #%d %q: %w", i+1, step.Name, errProgramRequired)
		}
	}

	if _, err := artifact.FromEntries(cfg.Artifacts); err != nil {
		return fmt.Errorf("artifacts: %w", err)
	}

	if _, err := artifact.FromEntries(cfg.Deploy.Artifacts); err != nil {
		return fmt.Errorf("deploy artifacts: %w", err)
	}

	return nil
}

// Manifest returns the parsed packaging manifest.
func (c *Config) Manifest() (artifact.Manifest, error) {
	return artifact.FromEntries(c.Artifacts)
}

// DeployManifest returns the parsed live-deploy manifest.
func (c *Config) DeployManifest() (artifact.Manifest, error) {
	return artifact.FromEntries(c.Deploy.Artifacts)
}

// validateOutputDir refuses output dirs whose recreation would delete the workspace.
func validateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" || strings.Contains(dir, `\`) || path.IsAbs(dir) || filepath.IsAbs(dir) {
		return fmt.Errorf("%q: %w", dir, errUnsafeOutputDir)
	}

	cleaned := path.Clean(dir)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%q: %w", dir, errUnsafeOutputDir)
	}

	return nil
}

func fileEntry(source, destination string) artifact.Entry {
	return artifact.Entry{
		Kind:        artifact.KindFile,
		Source:      source,
		Destination: destination,
	}
}
