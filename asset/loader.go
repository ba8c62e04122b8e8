package asset

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Source produces a mesh. Sources may block and are run off the frame
// loop by a Loader.
type Source interface {
	Name() string
	Load(ctx context.Context) (Mesh, error)
}

type builtinSource struct {
	name  string
	build func() Mesh
}

// Builtin returns a source for a procedurally built mesh.
func Builtin(name string, build func() Mesh) Source {
	return builtinSource{name: name, build: build}
}

func (s builtinSource) Name() string { return s.name }

func (s builtinSource) Load(ctx context.Context) (Mesh, error) {
	if err := ctx.Err(); err != nil {
		return Mesh{}, err
	}
	return s.build(), nil
}

type fileSource struct {
	fsys fs.FS
	path string
}

// File returns a source that reads an OBJ file from fsys.
func File(fsys fs.FS, path string) Source {
	return fileSource{fsys: fsys, path: path}
}

func (s fileSource) Name() string { return s.path }

func (s fileSource) Load(ctx context.Context) (Mesh, error) {
	if err := ctx.Err(); err != nil {
		return Mesh{}, err
	}
	f, err := s.fsys.Open(s.path)
	if err != nil {
		return Mesh{}, err
	}
	defer f.Close()
	return ReadOBJ(f)
}

type result struct {
	mesh Mesh
	err  error
}

// Pending is a mesh that may still be loading. Ready and Mesh never
// block; Wait does.
type Pending struct {
	name string
	res  atomic.Pointer[result]
	done chan struct{}
}

func newPending(name string) *Pending {
	return &Pending{name: name, done: make(chan struct{})}
}

// Ready returns a Pending that already holds m.
func Ready(name string, m Mesh) *Pending {
	p := newPending(name)
	p.finish(m, nil)
	return p
}

func (p *Pending) finish(m Mesh, err error) {
	p.res.Store(&result{mesh: m, err: err})
	close(p.done)
}

// Name returns the source name.
func (p *Pending) Name() string {
	return p.name
}

// Ready reports whether loading succeeded.
func (p *Pending) Ready() bool {
	r := p.res.Load()
	return r != nil && r.err == nil
}

// Mesh returns the mesh once loading succeeded.
func (p *Pending) Mesh() (Mesh, bool) {
	r := p.res.Load()
	if r == nil || r.err != nil {
		return Mesh{}, false
	}
	return r.mesh, true
}

// Err returns the load error, or nil while loading or after success.
func (p *Pending) Err() error {
	if r := p.res.Load(); r != nil {
		return r.err
	}
	return nil
}

// Done returns a channel closed when loading finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until loading finished or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Mesh, error) {
	select {
	case <-p.done:
		r := p.res.Load()
		return r.mesh, r.err
	case <-ctx.Done():
		return Mesh{}, ctx.Err()
	}
}

// Loader loads meshes on background goroutines.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger}
}

// Load starts loading src and returns immediately.
func (l *Loader) Load(ctx context.Context, src Source) *Pending {
	p := newPending(src.Name())
	go func() {
		m, err := l.load(ctx, src)
		if err != nil {
			l.logger.Warn("mesh load failed", "source", src.Name(), "err", err)
		} else {
			l.logger.Debug("mesh loaded", "source", src.Name(),
				"vertices", m.VertexCount(), "triangles", m.TriangleCount())
		}
		p.finish(m, err)
	}()
	return p
}

func (l *Loader) load(ctx context.Context, src Source) (Mesh, error) {
	m, err := src.Load(ctx)
	if err != nil {
		return Mesh{}, fmt.Errorf("asset: load %s: %w", src.Name(), err)
	}
	if err := m.Validate(); err != nil {
		return Mesh{}, fmt.Errorf("asset: load %s: %w", src.Name(), err)
	}
	return m, nil
}

// LoadAll loads every source concurrently and returns the meshes in
// source order. The first failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, srcs ...Source) ([]Mesh, error) {
	meshes := make([]Mesh, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			m, err := l.load(ctx, src)
			if err != nil {
				return err
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// LoadGroup starts loading srcs as one group and returns immediately with
// a Pending per source. The group succeeds or fails as a whole: after the
// first failure every Pending reports that error.
func (l *Loader) LoadGroup(ctx context.Context, srcs ...Source) []*Pending {
	ps := make([]*Pending, len(srcs))
	for i, src := range srcs {
		ps[i] = newPending(src.Name())
	}
	go func() {
		meshes, err := l.LoadAll(ctx, srcs...)
		if err != nil {
			l.logger.Warn("mesh group load failed", "sources", len(srcs), "err", err)
			for _, p := range ps {
				p.finish(Mesh{}, err)
			}
			return
		}
		l.logger.Debug("mesh group loaded", "sources", len(srcs))
		for i, p := range ps {
			p.finish(meshes[i], nil)
		}
	}()
	return ps
}
