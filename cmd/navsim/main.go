// Command navsim runs the navigation stack against a simulated world: a
// synthetic costmap with walls, a kinematic robot that walks planned paths,
// and the monitoring HTTP server. It exists to exercise the planner end to
// end without hardware.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mosswood-robotics/gridnav/internal/config"
	"github.com/mosswood-robotics/gridnav/internal/costmap"
	"github.com/mosswood-robotics/gridnav/internal/geom"
	"github.com/mosswood-robotics/gridnav/internal/monitor"
	"github.com/mosswood-robotics/gridnav/internal/navpath"
	"github.com/mosswood-robotics/gridnav/internal/planner"
	"github.com/mosswood-robotics/gridnav/internal/planstore"
	"github.com/mosswood-robotics/gridnav/internal/version"
	"github.com/mosswood-robotics/gridnav/internal/viz"
)

var (
	configFile = flag.String("config", "", "Path to a JSON navigation config file (optional)")
	listen     = flag.String("listen", "", "HTTP listen address (overrides config)")
	dbFile     = flag.String("db", "", "Path to the plan history SQLite file (overrides config; empty disables)")
	plotDir    = flag.String("plot-dir", "", "Directory for plan PNG snapshots (overrides config; empty disables)")
	goalsFlag  = flag.String("goals", "9,9;1,9;9,1", "Semicolon-separated goal list, each goal as x,y in meters")
	speed      = flag.Float64("speed", 1.0, "Simulated robot speed in m/s")
	tickRate   = flag.Duration("tick", 50*time.Millisecond, "Simulation tick interval")
)

// simRobot is the simulated vehicle: a position advanced along waypoints at
// constant speed.
type simRobot struct {
	mu  sync.Mutex
	pos geom.Vector

	speed float64
	tick  time.Duration
}

func (r *simRobot) Pos() geom.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

func (r *simRobot) moveTo(p geom.Vector) {
	r.mu.Lock()
	r.pos = p
	r.mu.Unlock()
}

// Walk drives the robot through the path waypoints, one speed*tick step per
// tick. Returns false if ctx is cancelled before the final waypoint.
func (r *simRobot) Walk(ctx context.Context, path navpath.Path, goalHeading *float64) bool {
	step := r.speed * r.tick.Seconds()
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for i := 0; i < path.Len(); {
		select {
		case <-ctx.Done():
			log.Printf("[NavSim] traversal cancelled at %s", r.Pos())
			return false
		case <-ticker.C:
			target := path.At(i)
			cur := r.Pos()
			d := cur.Distance(target)
			if d <= step {
				r.moveTo(target)
				i++
				continue
			}
			r.moveTo(cur.Lerp(target, step/d))
		}
	}
	if goalHeading != nil {
		log.Printf("[NavSim] turning to final heading %.2f rad", *goalHeading)
	}
	return true
}

// buildWorld creates the simulated costmap: a 10x10m room at 10cm resolution
// with two walls leaving a slalom between the corners.
func buildWorld() *costmap.Grid {
	g := costmap.NewEmpty(100, 100, 0.1)
	for y := 0; y < 70; y++ {
		g.Set(35, y, 1.0)
	}
	for y := 30; y < 100; y++ {
		g.Set(65, y, 1.0)
	}
	// A patch of unexplored space near the second wall.
	for x := 70; x < 80; x++ {
		for y := 40; y < 50; y++ {
			g.Set(x, y, costmap.CostUnknown)
		}
	}
	return g
}

// capturingNav hands planned paths to the underlying executor and keeps the
// most recent one, so plan snapshots show the path that was actually driven
// rather than a fresh replan from wherever the robot ended up.
type capturingNav struct {
	mu   sync.Mutex
	next planner.LocalNav
	last navpath.Path
}

func (c *capturingNav) Run(ctx context.Context, path navpath.Path, goalHeading *float64) bool {
	c.mu.Lock()
	c.last = path
	c.mu.Unlock()
	return c.next(ctx, path, goalHeading)
}

func (c *capturingNav) Last() navpath.Path {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// runSource adapts an optional store to the monitor interface. A nil *Store
// must become a nil interface value, or the monitor's availability checks
// never fire.
func runSource(store *planstore.Store) monitor.RunSource {
	if store == nil {
		return nil
	}
	return store
}

func parseGoals(s string) ([]geom.Vector, error) {
	var goals []geom.Vector
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		coords := strings.Split(part, ",")
		if len(coords) != 2 {
			return nil, &planner.InvalidGoalError{Reason: "expected x,y but got " + strconv.Quote(part)}
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, err
		}
		goals = append(goals, geom.V2(x, y))
	}
	return goals, nil
}

func main() {
	flag.Parse()
	log.Printf("[NavSim] gridnav %s", version.String())

	cfg := config.EmptyNavConfig()
	if *configFile != "" {
		loaded, err := config.LoadNavConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	listenAddr := cfg.GetListenAddr()
	if *listen != "" {
		listenAddr = *listen
	}
	dbPath := cfg.GetDBPath()
	if *dbFile != "" {
		dbPath = *dbFile
	}
	plots := cfg.GetPlotDir()
	if *plotDir != "" {
		plots = *plotDir
	}

	goals, err := parseGoals(*goalsFlag)
	if err != nil {
		log.Fatalf("Failed to parse goals: %v", err)
	}
	if len(goals) == 0 {
		log.Fatal("At least one goal is required")
	}

	world := buildWorld()
	log.Printf("[NavSim] world: %s", world)

	robot := &simRobot{pos: geom.V2(0.5, 0.5), speed: *speed, tick: *tickRate}

	params := cfg.ToParams()
	// The default margin is tuned for coarser maps; 10cm cells want less.
	if cfg.Conservativism == nil {
		params.Conservativism = 3
	}

	exec := &capturingNav{next: robot.Walk}
	nav := planner.NewAstarPlanner(
		func() *costmap.Grid { return world },
		robot.Pos,
		exec.Run,
		params,
	)

	var store *planstore.Store
	if dbPath != "" {
		store, err = planstore.Open(dbPath)
		if err != nil {
			log.Fatalf("Failed to open plan store: %v", err)
		}
		defer store.Close()
		nav.WithRecorder(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := nav.Stream()
	viz.VectorStream(ctx, bus, "robot", robot.Pos, cfg.GetPoseStreamInterval(), cfg.GetPoseStreamPrecision(), 256)

	web := monitor.NewWebServer(monitor.WebServerConfig{
		Address: listenAddr,
		Runs:    runSource(store),
		GetPose: robot.Pos,
	})
	web.Watch(ctx, bus)

	var plotter *monitor.PlanPlotter
	if plots != "" {
		plotter, err = monitor.NewPlanPlotter(plots)
		if err != nil {
			log.Fatalf("Failed to create plan plotter: %v", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := web.Start(ctx); err != nil {
			log.Printf("[NavSim] web server error: %v", err)
		}
	}()

	// Drive the goal sequence. Each goal gets a fresh traversal; a cancelled
	// context aborts the run.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop()
		for i, goal := range goals {
			select {
			case <-ctx.Done():
				return
			default:
			}

			heading := math.Atan2(goal.Y-robot.Pos().Y, goal.X-robot.Pos().X)
			log.Printf("[NavSim] goal %d/%d: %s", i+1, len(goals), goal)

			reached, err := nav.SetGoal(ctx, goal, &heading)
			if err != nil {
				log.Printf("[NavSim] goal %s rejected: %v", goal, err)
				continue
			}
			if !reached {
				log.Printf("[NavSim] goal %s not reached", goal)
				continue
			}
			log.Printf("[NavSim] goal %s reached at %s", goal, robot.Pos())

			if plotter != nil {
				smudged := world.Smudge(params.Conservativism, params.PreserveUnknown)
				if file, plotErr := plotter.SavePlan(smudged, exec.Last(), goal); plotErr == nil {
					log.Printf("[NavSim] plan snapshot saved to %s", file)
				} else {
					log.Printf("[NavSim] plan snapshot failed: %v", plotErr)
				}
			}
		}
		log.Printf("[NavSim] goal sequence complete")
	}()

	wg.Wait()
	log.Printf("[NavSim] shut down")
}
