package polyboard

import (
	"context"
	"log/slog"

	"github.com/gogpu/polyboard/asset"
)

// Option configures a Game during creation.
//
// Example:
//
//	g, err := polyboard.New(cfg, dev,
//	    polyboard.WithPieceMesh(asset.File(os.DirFS("models"), "pawn.obj")))
type Option func(*options)

// options holds optional configuration for Game creation.
type options struct {
	logger    *slog.Logger
	loadCtx   context.Context
	pieceMesh asset.Source
	arrowMesh asset.Source
}

// defaultOptions returns the default game options.
func defaultOptions(cfg Config) options {
	return options{
		logger:  Logger(),
		loadCtx: context.Background(),
		pieceMesh: asset.Builtin("pawn", func() asset.Mesh {
			return asset.Pawn(cfg.PieceSegments)
		}),
		arrowMesh: asset.Builtin("arrow", asset.Arrow),
	}
}

// WithLogger sets the logger for the game instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLoadContext sets the context that bounds mesh loading.
func WithLoadContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.loadCtx = ctx
		}
	}
}

// WithPieceMesh loads the piece mesh from src instead of the built-in
// pawn.
func WithPieceMesh(src asset.Source) Option {
	return func(o *options) {
		if src != nil {
			o.pieceMesh = src
		}
	}
}

// WithArrowMesh loads the indicator mesh from src instead of the
// built-in arrow.
func WithArrowMesh(src asset.Source) Option {
	return func(o *options) {
		if src != nil {
			o.arrowMesh = src
		}
	}
}
