// Package config loads polyboard configuration files.
//
// A file is TOML or YAML, chosen by extension. Missing fields keep
// their defaults and unknown keys are rejected:
//
//	seed = 7
//
//	[board]
//	slots = 6
//	pieces = 4
//
//	[drag]
//	release = "snap-back"
//
//	[assets]
//	piece = "models/pawn.obj"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/polyboard"
	"github.com/gogpu/polyboard/asset"
	"github.com/gogpu/polyboard/drag"
)

// Errors.
var (
	ErrInvalid           = errors.New("config: invalid")
	ErrUnsupportedFormat = errors.New("config: unsupported format")
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// File is the on-disk configuration.
type File struct {
	// Seed seeds the game's random choices. Zero picks one at start.
	Seed uint64 `toml:"seed" yaml:"seed"`

	Board  Board  `toml:"board" yaml:"board"`
	Drag   Drag   `toml:"drag" yaml:"drag"`
	Window Window `toml:"window" yaml:"window"`
	Assets Assets `toml:"assets" yaml:"assets"`
}

// Board is the [board] section.
type Board struct {
	Slots  int     `toml:"slots" yaml:"slots"`
	Pieces int     `toml:"pieces" yaml:"pieces"`
	Radius float64 `toml:"radius" yaml:"radius"`
}

// Drag is the [drag] section.
type Drag struct {
	Divisor   float64 `toml:"divisor" yaml:"divisor"`
	Threshold float64 `toml:"threshold" yaml:"threshold"`
	Release   string  `toml:"release" yaml:"release"`
}

// Window is the [window] section.
type Window struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
}

// Assets is the [assets] section. Paths are OBJ files relative to the
// directory of the configuration file. Empty paths use the built-in
// meshes.
type Assets struct {
	Piece    string `toml:"piece" yaml:"piece"`
	Arrow    string `toml:"arrow" yaml:"arrow"`
	Segments int    `toml:"segments" yaml:"segments"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	g := polyboard.DefaultConfig()
	return File{
		Board: Board{
			Slots:  g.Slots,
			Pieces: g.Pieces,
			Radius: g.Radius,
		},
		Drag: Drag{
			Divisor:   g.Divisor,
			Threshold: g.Threshold,
			Release:   g.Release.String(),
		},
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "polyboard",
		},
		Assets: Assets{
			Segments: g.PieceSegments,
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (File, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return File{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a configuration in the given format on top of Default
// and validates it.
func Decode(r io.Reader, format Format) (File, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&cfg)
		if err != nil {
			return File{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return File{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, keys[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg File, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Validate reports the first invalid field, wrapping ErrInvalid.
func (f File) Validate() error {
	if _, err := f.Game(); err != nil {
		return err
	}
	if f.Window.Width <= 0 || f.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, f.Window.Width, f.Window.Height)
	}
	for _, p := range []string{f.Assets.Piece, f.Assets.Arrow} {
		if p != "" && !fs.ValidPath(filepath.ToSlash(p)) {
			return fmt.Errorf("%w: asset path %q must be relative to the config file", ErrInvalid, p)
		}
	}
	return nil
}

// Game converts the file to a game configuration.
func (f File) Game() (polyboard.Config, error) {
	release, err := drag.ParseReleasePolicy(f.Drag.Release)
	if err != nil {
		return polyboard.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	g := polyboard.Config{
		Slots:         f.Board.Slots,
		Pieces:        f.Board.Pieces,
		Radius:        f.Board.Radius,
		Divisor:       f.Drag.Divisor,
		Threshold:     f.Drag.Threshold,
		Release:       release,
		Seed:          f.Seed,
		PieceSegments: f.Assets.Segments,
	}
	if err := g.Validate(); err != nil {
		return polyboard.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return g, nil
}

// Options returns the game options for the configured meshes, read
// from fsys.
func (f File) Options(fsys fs.FS) []polyboard.Option {
	var opts []polyboard.Option
	if f.Assets.Piece != "" {
		opts = append(opts, polyboard.WithPieceMesh(asset.File(fsys, filepath.ToSlash(f.Assets.Piece))))
	}
	if f.Assets.Arrow != "" {
		opts = append(opts, polyboard.WithArrowMesh(asset.File(fsys, filepath.ToSlash(f.Assets.Arrow))))
	}
	return opts
}

// String renders cfg as TOML.
func (f File) String() string {
	var buf bytes.Buffer
	if err := Encode(&buf, f, FormatTOML); err != nil {
		return err.Error()
	}
	return buf.String()
}
