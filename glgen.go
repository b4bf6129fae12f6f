// Package glgen generates lazy GL dispatch code from Khronos API registry
// files.
//
// glgen consumes one registry document per target API family (gl.xml,
// glx.xml, egl.xml, wgl.xml) and emits a C header plus a C dispatch source
// in which every entry point resolves its own platform implementation on
// first call. The interesting machinery is the resolution model built by
// the dispatch package: version features and extensions become Providers,
// aliased entry points collapse into single resolution units, and two
// dispatch shapes (per-context table, self-overwriting pointer) are
// derived from the same per-unit resolvers.
//
// Example usage:
//
//	reg, err := registry.Parse(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	arts, err := glgen.Generate(reg, "gl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = glgen.WriteArtifacts(afero.NewOsFs(), "out", arts)
package glgen

import (
	"fmt"
	"io"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/gogpu/glgen/cback"
	"github.com/gogpu/glgen/dispatch"
	"github.com/gogpu/glgen/registry"
)

// Options configures generation.
type Options struct {
	// Logger receives stage-level progress and diagnostics. When nil,
	// logging is discarded.
	Logger logrus.FieldLogger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{}
}

// Artifacts is one target's generated output pair.
type Artifacts struct {
	// Target is the API family the pair was generated for.
	Target string

	// Header is the public header content.
	Header []byte

	// Source is the dispatch source content.
	Source []byte
}

// Generate builds the artifact pair for one target registry using default
// options.
func Generate(reg *registry.Registry, target string) (*Artifacts, error) {
	return GenerateWithOptions(reg, target, DefaultOptions())
}

// GenerateWithOptions builds the artifact pair for one target registry.
//
// The pipeline is:
//  1. Build the symbol catalogue from the registry's commands
//  2. Bind feature/extension providers to each required symbol
//  3. Drop symbols with non-portable legacy argument types
//  4. Flatten declared aliases into single-hop alias units
//  5. Pin the bootstrap symbols to unconditional loaders
//  6. Deduplicate providers and intern entrypoint names
//  7. Render the header and source
//
// Any stage error aborts generation; no partial artifacts are produced.
func GenerateWithOptions(reg *registry.Registry, target string, opts Options) (*Artifacts, error) {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	cat, err := dispatch.Build(reg, target, log)
	if err != nil {
		return nil, fmt.Errorf("glgen: %s: %w", target, err)
	}
	if err := dispatch.BindProviders(cat, reg, log); err != nil {
		return nil, fmt.Errorf("glgen: %s: %w", target, err)
	}
	cat.DropNonPortable(log)
	if err := dispatch.ResolveAliases(cat); err != nil {
		return nil, fmt.Errorf("glgen: %s: %w", target, err)
	}
	dispatch.FixupBootstrap(cat)

	providers, err := dispatch.BuildProviderCatalogue(cat)
	if err != nil {
		return nil, fmt.Errorf("glgen: %s: %w", target, err)
	}
	names, err := dispatch.BuildEntrypoints(cat)
	if err != nil {
		return nil, fmt.Errorf("glgen: %s: %w", target, err)
	}

	log.WithFields(logrus.Fields{
		"target":    target,
		"providers": providers.Len(),
		"nameBlob":  names.Size(),
	}).Debug("resolution model complete")

	source, err := cback.WriteSource(cat, providers, names)
	if err != nil {
		return nil, fmt.Errorf("glgen: %s: %w", target, err)
	}

	return &Artifacts{
		Target: target,
		Header: cback.WriteHeader(cat),
		Source: source,
	}, nil
}

// WriteArtifacts writes one target's pair under dir, as
// dir/include/gld/<target>_generated.h and
// dir/src/<target>_generated_dispatch.c.
func WriteArtifacts(fs afero.Fs, dir string, arts *Artifacts) error {
	incDir := path.Join(dir, "include", "gld")
	srcDir := path.Join(dir, "src")

	if err := fs.MkdirAll(incDir, 0o755); err != nil {
		return fmt.Errorf("glgen: %w", err)
	}
	if err := fs.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("glgen: %w", err)
	}

	header := path.Join(incDir, arts.Target+"_generated.h")
	if err := afero.WriteFile(fs, header, arts.Header, 0o644); err != nil {
		return fmt.Errorf("glgen: %w", err)
	}
	source := path.Join(srcDir, arts.Target+"_generated_dispatch.c")
	if err := afero.WriteFile(fs, source, arts.Source, 0o644); err != nil {
		return fmt.Errorf("glgen: %w", err)
	}
	return nil
}
