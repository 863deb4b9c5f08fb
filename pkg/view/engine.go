package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
)

// DefaultExtension is appended to view names that have no extension.
const DefaultExtension = ".html"

type entry struct {
	tmpl    *template.Template
	modTime time.Time
}

// Engine renders views from a file system. Compiled templates are cached
// and recompiled when the source modification time changes.
// It is safe for concurrent use.
type Engine struct {
	fsys   fs.FS
	ext    string
	funcs  template.FuncMap
	reload bool
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtension sets the view file extension. Default: ".html".
func WithExtension(ext string) Option {
	return func(e *Engine) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithFuncs adds template functions. They override built-in ones with the
// same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// WithReload controls whether the source is checked for changes on every
// render. Default: true. Disable it in production to skip the stat call.
func WithReload(reload bool) Option {
	return func(e *Engine) {
		e.reload = reload
	}
}

// WithLogger sets the logger used to report recompilations.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine reading views from fsys.
func New(fsys fs.FS, opts ...Option) *Engine {
	e := &Engine{
		fsys:   fsys,
		ext:    DefaultExtension,
		funcs:  defaultFuncs(),
		reload: true,
		logger: slog.New(slog.DiscardHandler),
		cache:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromDir creates an engine reading views from dir on disk.
func NewFromDir(dir string, opts ...Option) *Engine {
	return New(os.DirFS(dir), opts...)
}

// Render renders the named view with data and returns the output.
// Names are slash-separated paths relative to the view root, without
// extension: "users/index" reads "users/index.html".
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := e.RenderTo(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo renders the named view into w. On error nothing is written.
func (e *Engine) RenderTo(w io.Writer, name string, data map[string]any) error {
	tmpl, err := e.load(name)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.Join(ErrRender, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Component adapts a view to templ.Component so it can be passed to
// Context.Render or embedded in templ components.
func (e *Engine) Component(name string, data map[string]any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return e.RenderTo(w, name, data)
	})
}

// Clear drops all compiled templates.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.cache = make(map[string]*entry)
	e.mu.Unlock()
}

func (e *Engine) load(name string) (*template.Template, error) {
	file, err := e.file(name)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	cached := e.cache[file]
	e.mu.RUnlock()

	if cached != nil && !e.reload {
		return cached.tmpl, nil
	}

	info, err := fs.Stat(e.fsys, file)
	if err != nil {
		return nil, errors.Join(ErrTemplateNotFound, err)
	}
	if cached != nil && cached.modTime.Equal(info.ModTime()) {
		return cached.tmpl, nil
	}

	src, err := fs.ReadFile(e.fsys, file)
	if err != nil {
		return nil, errors.Join(ErrTemplateNotFound, err)
	}
	compiled, err := Compile(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	tmpl, err := template.New(file).Funcs(e.funcs).Parse(compiled)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, file, err)
	}

	e.mu.Lock()
	e.cache[file] = &entry{tmpl: tmpl, modTime: info.ModTime()}
	e.mu.Unlock()

	e.logger.Debug("view compiled", slog.String("view", file))
	return tmpl, nil
}

func (e *Engine) file(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if path.Ext(name) == "" {
		name += e.ext
	}
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: invalid view name %q", ErrTemplateNotFound, name)
	}
	return name, nil
}
