package monitor

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mosswood-robotics/gridnav/internal/costmap"
	"github.com/mosswood-robotics/gridnav/internal/geom"
	"github.com/mosswood-robotics/gridnav/internal/httputil"
	"github.com/mosswood-robotics/gridnav/internal/navpath"
	"github.com/mosswood-robotics/gridnav/internal/planner"
	"github.com/mosswood-robotics/gridnav/internal/viz"
)

// RunSource provides plan-run history. Implemented by planstore.Store.
type RunSource interface {
	ListRecent(limit int) ([]*planner.PlanRun, error)
	CountByOutcome() (map[string]int, error)
}

// WebServer handles the HTTP monitoring interface.
type WebServer struct {
	address string
	server  *http.Server
	runs    RunSource
	getPose func() geom.Vector

	mu     sync.RWMutex
	latest map[string]viz.Event
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Runs    RunSource            // optional; nil disables the run endpoints
	GetPose func() geom.Vector   // optional; nil reports a zero pose
}

// NewWebServer creates a web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		runs:    config.Runs,
		getPose: config.GetPose,
		latest:  make(map[string]viz.Event),
	}
	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws
}

// Watch subscribes to the visualization bus and caches the most recent event
// per name until ctx is cancelled.
func (ws *WebServer) Watch(ctx context.Context, bus *viz.Bus) {
	events, cancel := bus.Subscribe(64)
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				ws.mu.Lock()
				ws.latest[ev.Name] = ev
				ws.mu.Unlock()
			}
		}
	}()
}

// Start begins the HTTP server and blocks until ctx is cancelled.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("[Monitor] starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Monitor] failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Monitor] shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Monitor] HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			log.Printf("[Monitor] HTTP server force close error: %v", err)
		}
	}
	return nil
}

func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/nav/state", ws.handleNavState)
	mux.HandleFunc("/api/nav/runs", ws.handleNavRuns)
	mux.HandleFunc("/api/nav/stats", ws.handleNavStats)
	mux.HandleFunc("/charts/plan", ws.handlePlanChart)
	return mux
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	httputil.WriteJSONOK(w, v)
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, map[string]string{"status": "ok"})
}

// latestGrid, latestGoal and latestPath pull typed values out of the cache.
func (ws *WebServer) latestGrid() *costmap.Grid {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	if ev, ok := ws.latest["planner_costmap"]; ok {
		if g, ok := ev.Value.(*costmap.Grid); ok {
			return g
		}
	}
	return nil
}

func (ws *WebServer) latestGoal() (geom.Vector, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	if ev, ok := ws.latest["target"]; ok {
		if v, ok := ev.Value.(geom.Vector); ok {
			return v, true
		}
	}
	return geom.Vector{}, false
}

func (ws *WebServer) latestPath() (navpath.Path, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	if ev, ok := ws.latest["path"]; ok {
		if p, ok := ev.Value.(navpath.Path); ok {
			return p, true
		}
	}
	return navpath.Path{}, false
}

type navState struct {
	Pose      [2]float64    `json:"pose"`
	Goal      *[2]float64   `json:"goal,omitempty"`
	Path      [][2]float64  `json:"path,omitempty"`
	PathLen   float64       `json:"path_length_m"`
	Costmap   string        `json:"costmap,omitempty"`
	Obstacles int           `json:"obstacle_cells"`
	Unknown   int           `json:"unknown_cells"`
}

func (ws *WebServer) handleNavState(w http.ResponseWriter, r *http.Request) {
	var state navState

	if ws.getPose != nil {
		pose := ws.getPose().To2D()
		state.Pose = [2]float64{pose.X, pose.Y}
	}
	if goal, ok := ws.latestGoal(); ok {
		state.Goal = &[2]float64{goal.X, goal.Y}
	}
	if path, ok := ws.latestPath(); ok {
		state.PathLen = path.Length()
		for _, pt := range path.Points() {
			state.Path = append(state.Path, [2]float64{pt.X, pt.Y})
		}
	}
	if g := ws.latestGrid(); g != nil {
		stats := g.Stats()
		state.Costmap = g.String()
		state.Obstacles = stats.ObstacleCells
		state.Unknown = stats.UnknownCells
	}

	ws.writeJSON(w, state)
}

func (ws *WebServer) handleNavRuns(w http.ResponseWriter, r *http.Request) {
	if ws.runs == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "plan history not configured")
		return
	}
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	runs, err := ws.runs.ListRecent(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ws.writeJSON(w, map[string]any{"runs": runs, "count": len(runs)})
}

func (ws *WebServer) handleNavStats(w http.ResponseWriter, r *http.Request) {
	if ws.runs == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "plan history not configured")
		return
	}
	runs, err := ws.runs.ListRecent(500)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	counts, err := ws.runs.CountByOutcome()
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ws.writeJSON(w, summarizeRuns(runs, counts))
}
