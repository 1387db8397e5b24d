package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"

	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

// Session is one loaded dataset. A session keeps its ID while its file is
// watched; every reload emits the session again with a higher Revision. If a
// reload fails, Err is set and Data keeps the last good dataset.
type Session struct {
	ID       string
	Name     string
	Data     graph.Data
	Mode     Mode
	Revision int
	Err      error
}

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

type Mode uint8

const (
	ModeNone Mode = iota
	ModeFile
	ModeGenerated
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeGenerated:
		return "generated"
	default:
		return "none"
	}
}

// ErrClosed is returned by loads issued after the mutator shut down.
var ErrClosed = errors.New("backend: datasource closed")

// Datasource loads datasets and publishes each one as a mutation keyed by
// its session ID. Starting a load cancels the previous dataset's mutation.
// Files that have a name on disk are watched and reloaded whenever they
// change.
type Datasource struct {
	pool   *stream.MutationPool[string, Session]
	logger *slog.Logger
	active RWBox[*stream.Mutation[Session]]
}

func NewDatasource(mutator *stream.Mutator, logger *slog.Logger) *Datasource {
	if logger == nil {
		logger = slog.Default()
	}
	return &Datasource{
		pool:   stream.NewMutationPool[string, Session](mutator),
		logger: logger,
	}
}

func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

// newest returns the latest session ID in mutations. IDs sort by start time.
func newest(mutations map[string]*stream.Mutation[Session]) string {
	var id string
	for k := range mutations {
		if k > id {
			id = k
		}
	}
	return id
}

// SessionStream emits the running dataset mutations.
func (d *Datasource) SessionStream(ctx context.Context) <-chan map[string]*stream.Mutation[Session] {
	return d.pool.Stream(ctx)
}

// Current returns the most recent session, or the zero Session if nothing
// has been loaded.
func (d *Datasource) Current() Session {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mutations := <-d.SessionStream(ctx)
	m, ok := mutations[newest(mutations)]
	if !ok {
		return Session{}
	}
	return <-m.Stream(ctx)
}

// Sessions streams the newest dataset's session, switching to each later
// dataset as it starts, until ctx is cancelled.
func (d *Datasource) Sessions(ctx context.Context) <-chan Session {
	return stream.Multiplex(d.SessionStream(ctx), func(ctx context.Context, state string, mutations map[string]*stream.Mutation[Session]) (<-chan Session, string) {
		id := newest(mutations)
		if id == "" || id == state {
			return nil, state
		}
		return mutations[id].Stream(ctx), id
	})
}

// start launches run as the new active dataset, cancelling the previous one.
// run owns out and must keep the dataset alive until ctx is cancelled.
func (d *Datasource) start(run func(ctx context.Context, session Session, out chan<- Session)) error {
	id := generateSessionID()
	mut, _ := stream.Mutate(d.pool, id, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			run(ctx, Session{ID: id}, out)
		}()
		return out
	})
	if mut == nil {
		return ErrClosed
	}
	var prev *stream.Mutation[Session]
	d.active.Write(func(m **stream.Mutation[Session]) {
		prev, *m = *m, mut
	})
	prev.Cancel()
	return nil
}

// LoadFromFile asks the user for a dataset file and loads it.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) error {
	file, err := expl.ChooseFile(".json", ".csv")
	if err != nil {
		return err
	}
	name := "dataset.json"
	if f, ok := file.(interface{ Name() string }); ok {
		name = f.Name()
	}
	return d.LoadFromStream(name, file)
}

// LoadPath opens and loads the dataset at path.
func (d *Datasource) LoadPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed opening dataset: %w", err)
	}
	return d.LoadFromStream(path, f)
}

// LoadFromStream decodes rc as the format implied by name. The stream is
// closed once read.
func (d *Datasource) LoadFromStream(name string, rc io.ReadCloser) error {
	err := d.start(func(ctx context.Context, session Session, out chan<- Session) {
		d.decode(ctx, session, name, rc, out)
	})
	if err != nil {
		rc.Close()
	}
	return err
}

// LoadData publishes an already decoded dataset.
func (d *Datasource) LoadData(name string, data graph.Data) error {
	return d.start(func(ctx context.Context, session Session, out chan<- Session) {
		session.Name = name
		session.Data = data
		session.Mode = ModeGenerated
		out <- session
		<-ctx.Done()
	})
}

func (d *Datasource) decode(ctx context.Context, session Session, name string, rc io.ReadCloser, out chan<- Session) {
	session.Name = name
	path := ""
	if f, ok := rc.(interface{ Name() string }); ok {
		path = filepath.Clean(f.Name())
	}
	data, err := Decode(name, rc)
	rc.Close()
	if err != nil {
		d.logger.Error("failed loading dataset", "name", name, "err", err)
		session.Err = err
		out <- session
		<-ctx.Done()
		return
	}
	d.logger.Info("loaded dataset", "name", name, "ticks", len(data.Ticks), "series", len(data.Series), "lanes", len(data.Lanes))
	session.Data = data
	session.Mode = ModeFile
	out <- session
	if path == "" {
		<-ctx.Done()
		return
	}
	d.follow(ctx, path, session, out)
}

// follow reloads path into session whenever it changes. The parent
// directory is watched so that files replaced by rename keep reloading.
func (d *Datasource) follow(ctx context.Context, path string, session Session, out chan<- Session) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.logger.Warn("failed creating file watcher", "err", err)
		<-ctx.Done()
		return
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		d.logger.Warn("failed watching dataset", "path", path, "err", err)
		<-ctx.Done()
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-watcher.Events:
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			d.logger.Debug("dataset changed", "path", path, "op", ev.Op.String())
			session.Revision++
			data, err := reload(path)
			if err != nil {
				d.logger.Error("failed reloading dataset", "name", session.Name, "err", err)
				session.Err = err
			} else {
				session.Data = data
				session.Err = nil
			}
			out <- session
		case err := <-watcher.Errors:
			d.logger.Warn("file watcher failed", "err", err)
		}
	}
}

func reload(path string) (graph.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.Data{}, fmt.Errorf("failed reopening dataset: %w", err)
	}
	defer f.Close()
	return Decode(path, f)
}
