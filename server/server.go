package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"micromouse/logger"
	"micromouse/server/fastview"
	"micromouse/server/maze_views"
	"micromouse/server/root_view"
	"micromouse/viewer"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	// Maximum request body: maze texts and uploaded result sequences.
	maxBodyBytes = 64 << 20
)

// Server serves the viewer page, its websocket, and a small json api controlling the
// session. Any number of pages may be open; all of them view the same session.
type Server struct {
	addr     string
	session  *viewer.Session
	rootView *root_view.RootView
	hub      *fastview.Hub[[]fastview.EleUpdate]
	router   *mux.Router
	log      *logger.Logger
}

// NewServer initializes all of the views and returns a server. The views consume the
// session's snapshots until ctx is done.
func NewServer(
	ctx context.Context,
	addr string,
	session *viewer.Session,
	log *logger.Logger,
) (*Server, error) {
	if log == nil {
		log = logger.Discard()
	}
	rootView, err := root_view.NewRootView(ctx, session.Snapshots())
	if err != nil {
		return nil, fmt.Errorf("build views: %w", err)
	}

	server := &Server{
		addr:     addr,
		session:  session,
		rootView: rootView,
		hub:      fastview.NewHub(fastview.MergeUpdates),
		log:      log,
	}
	server.router = server.routes()
	go server.hub.Run(ctx.Done(), rootView.Updates())
	return server, nil
}

func (server *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", server.getState).Methods(http.MethodGet)
	api.HandleFunc("/snapshot.png", server.getSnapshotPNG).Methods(http.MethodGet)
	api.HandleFunc("/maze", server.getMaze).Methods(http.MethodGet)
	api.HandleFunc("/maze", server.putMaze).Methods(http.MethodPut)
	api.HandleFunc("/maze/click", server.postClick).Methods(http.MethodPost)
	api.HandleFunc("/maze/toggle", server.postToggle).Methods(http.MethodPost)
	api.HandleFunc("/playback/scrub", server.postScrub).Methods(http.MethodPost)
	api.HandleFunc("/playback/{action:play|stop|reset|faster|slower}", server.postPlayback).Methods(http.MethodPost)
	api.HandleFunc("/simulate", server.postSimulate).Methods(http.MethodPost)
	api.HandleFunc("/results", server.putResults).Methods(http.MethodPut)
	api.HandleFunc("/input", server.getInput).Methods(http.MethodGet)
	api.HandleFunc("/input", server.putInput).Methods(http.MethodPut)
	return router
}

// Handler returns the server's routes, e.g. for mounting under a test server.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Serve listens on the server's address until ctx is done, then shuts down gracefully.
func (server *Server) Serve(ctx context.Context) (err error) {
	httpServer := &http.Server{
		Addr:              server.addr,
		Handler:           server.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		server.log.Info(fmt.Sprintf("listening on http://%s", server.addr))
		if listenErr := httpServer.ListenAndServe(); !errors.Is(listenErr, http.ErrServerClosed) {
			return listenErr
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err = group.Wait(); err != nil {
		err = fmt.Errorf("serve: %w", err)
	}
	return
}

// serveWebsocket publishes view updates to one client until it disconnects.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	updates, unsubscribe := server.hub.Subscribe()
	defer unsubscribe()

	cli, err := fastview.NewClient(updates, w, r)
	if err != nil {
		server.log.Warning(fmt.Sprintf("upgrade: %v", err))
		return
	}

	server.log.Debug(fmt.Sprintf("client %s connected, %d open", r.RemoteAddr, server.hub.Len()))
	if err = cli.Sync(); err != nil {
		server.log.Warning(fmt.Sprintf("client %s: %v", r.RemoteAddr, err))
	}
	server.log.Debug(fmt.Sprintf("client %s disconnected", r.RemoteAddr))
}

// Serve the index.html main page, rendered from the current snapshot.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := server.session.Snapshot()
	if err != nil {
		server.sessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := renderTemplate(w, server.rootView, maze_views.Convert(snap)); err != nil {
		server.log.Error(fmt.Sprintf("render index: %v", err))
		_, _ = w.Write([]byte(err.Error()))
	}
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
