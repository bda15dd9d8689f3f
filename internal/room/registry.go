package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/banshee-data/roomsurface/internal/config"
	"github.com/banshee-data/roomsurface/internal/debugview"
	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"github.com/banshee-data/roomsurface/internal/scan"
	"github.com/banshee-data/roomsurface/internal/scene"
	"github.com/banshee-data/roomsurface/internal/surface"
	"github.com/google/uuid"
)

// ErrAlreadyBuilt is returned by Build when the registry already holds a
// session. Call CleanUp first to rebuild.
var ErrAlreadyBuilt = errors.New("room registry already built")

// Host is the physical scene that floor placements are confirmed against.
// If it also implements surface.Raycaster, floor placements are snapped
// onto what lies below them.
type Host interface {
	surface.OverlapTester
}

// SceneHost is implemented by hosts that mirror the registry's surfaces as
// cell colliders and its blockers as volumes.
type SceneHost interface {
	AddSurface(g *surface.Grid)
	RemoveSurface(id string) bool
	AddVolume(id string, b geom.Box)
	RemoveVolume(id string) bool
}

// ColliderHost is implemented by hosts whose cell colliders can be switched
// off while no search is running.
type ColliderHost interface {
	SetCellCollidersActive(active bool)
}

// Option configures a Registry.
type Option func(*Registry)

// WithRNG replaces the session RNG, which is otherwise seeded from the
// tuning config.
func WithRNG(rng *rand.Rand) Option {
	return func(r *Registry) { r.rng = rng }
}

// Registry owns every grid of one room session. It is not safe for
// concurrent use; one caller drives it turn by turn.
type Registry struct {
	cfg  *config.TuningConfig
	host Host
	ray  surface.Raycaster
	rng  *rand.Rand

	state   State
	session uuid.UUID
	name    string

	walls      *surface.WallSet
	floors     []*surface.Floor
	desks      []*surface.Desk
	blockers   []scan.Descriptor
	deskParent map[string]string

	debugView       bool
	collidersActive bool
}

// New returns an uninitialised registry. A nil cfg uses the defaults and a
// nil host gets a fresh scene.World.
func New(cfg *config.TuningConfig, host Host, opts ...Option) *Registry {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	if host == nil {
		host = scene.NewWorld()
	}
	r := &Registry{
		cfg:             cfg,
		host:            host,
		deskParent:      make(map[string]string),
		collidersActive: true,
	}
	if ray, ok := host.(surface.Raycaster); ok {
		r.ray = ray
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = newRNG(cfg.GetRNGSeed())
	}
	r.walls = surface.NewWallSet(nil, r.rng)
	return r
}

func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Build generates the grids of room, applies cross-surface blocking and
// remembers the result as every grid's baseline. Build moves the registry
// from Uninitialized through Loading to Ready. If ctx is cancelled part way
// the partial session is torn down and the registry stays Uninitialized.
func (r *Registry) Build(ctx context.Context, room *scan.Room) error {
	if r.state != StateUninitialized {
		return ErrAlreadyBuilt
	}
	if room == nil {
		return fmt.Errorf("build room: nil room")
	}
	if err := room.Check(); err != nil {
		return fmt.Errorf("invalid room: %w", err)
	}

	start := time.Now()
	r.state = StateLoading
	for _, d := range room.Surfaces {
		if err := ctx.Err(); err != nil {
			r.teardown()
			r.state = StateUninitialized
			return fmt.Errorf("build room %q: %w", room.Name, err)
		}
		r.add(d)
	}

	r.crossBlock()
	r.remember()
	if r.cfg.GetDebugView() {
		r.setDebug(true)
	}

	r.session = uuid.New()
	r.name = room.Name
	r.state = StateReady
	monitoring.Logf("[Registry] session %s (%q) ready in %v: %d walls, %d floors, %d desks, %d blockers",
		r.session, r.name, time.Since(start).Round(time.Millisecond), len(r.walls.Walls), len(r.floors), len(r.desks), len(r.blockers))
	for _, g := range r.allGrids() {
		s := g.Stats()
		monitoring.Debugf("[Registry] %s %s: %d cells, %d free, %d blocked, %d outside, max clearance %.3f",
			g.Kind(), g.ID, s.Cells, s.Free, s.Blocked, s.Outside, s.MaxClearance)
	}
	return nil
}

func (r *Registry) params(d scan.Descriptor, cellSize float64) surface.Params {
	return surface.Params{
		ID:                d.ID,
		Pose:              d.Pose(),
		Size:              d.Extent(),
		CellSize:          cellSize,
		ColumnLift:        r.cfg.GetColumnLift(),
		WallBlockDepth:    r.cfg.GetWallBlockDepth(),
		ColliderThickness: r.cfg.GetCellColliderThickness(),
	}
}

func (r *Registry) add(d scan.Descriptor) {
	sh, mirrored := r.host.(SceneHost)

	switch d.Kind {
	case scan.KindWall:
		g := surface.NewWall(r.params(d, r.cfg.GetWallCellSize()))
		r.walls.Walls = append(r.walls.Walls, g)
		if mirrored {
			sh.AddSurface(g)
		}
	case scan.KindFloor:
		f := surface.NewFloor(r.params(d, r.cfg.GetFloorCellSize()), d.Polygon(), r.host, r.ray, r.rng)
		r.floors = append(r.floors, f)
		if mirrored {
			sh.AddSurface(f.Grid)
		}
	case scan.KindDesk:
		dk := surface.NewDesk(r.params(d, r.cfg.GetDeskCellSize()))
		r.desks = append(r.desks, dk)
		r.deskParent[d.ID] = d.Parent
		if mirrored {
			sh.AddSurface(dk.Grid)
		}
	case scan.KindBlockingPlane, scan.KindBlockingVolume:
		r.blockers = append(r.blockers, d)
		if mirrored {
			sh.AddVolume(d.ID, d.Box())
		}
	default:
		monitoring.Logf("[Registry] surface %q has unknown kind %q, skipping", d.ID, d.Kind)
	}
}

// crossBlock blocks every floor under every desk, then applies each
// blocker.
func (r *Registry) crossBlock() {
	for _, f := range r.floors {
		for _, dk := range r.desks {
			r.block(f.Grid, dk.ID, dk.Bounds())
		}
	}
	for _, b := range r.blockers {
		r.applyBlocker(b)
	}
}

// applyBlocker blocks the grids d affects: planes and volumes block floors,
// volumes also block walls and every desk except the one resting on them.
func (r *Registry) applyBlocker(d scan.Descriptor) int {
	box := d.Box()
	n := 0
	for _, f := range r.floors {
		n += r.block(f.Grid, d.ID, box)
	}
	if d.Kind != scan.KindBlockingVolume {
		return n
	}
	for _, w := range r.walls.Walls {
		n += r.block(w, d.ID, box)
	}
	for _, dk := range r.desks {
		if r.deskParent[dk.ID] == d.ID {
			continue
		}
		n += r.block(dk.Grid, d.ID, box)
	}
	return n
}

func (r *Registry) block(g *surface.Grid, by string, b geom.Box) int {
	n := g.BlockBox(b, surface.ReasonScene)
	if n > 0 {
		monitoring.Debugf("[Registry] %s %s: %d cells blocked by %s", g.Kind(), g.ID, n, by)
	}
	return n
}

func (r *Registry) remember() {
	for _, g := range r.allGrids() {
		g.RememberDistanceField()
	}
}

func (r *Registry) allGrids() []*surface.Grid {
	out := make([]*surface.Grid, 0, len(r.walls.Walls)+len(r.floors)+len(r.desks))
	out = append(out, r.walls.Walls...)
	for _, f := range r.floors {
		out = append(out, f.Grid)
	}
	for _, dk := range r.desks {
		out = append(out, dk.Grid)
	}
	return out
}

// AddBlocker registers a blocking plane or volume that appeared after the
// build. It blocks the affected grids incrementally and is re-applied on
// every ResetSceneUnderstanding. Returns the number of newly blocked cells.
func (r *Registry) AddBlocker(d scan.Descriptor) int {
	if !r.ready("AddBlocker") {
		return 0
	}
	if d.Kind != scan.KindBlockingPlane && d.Kind != scan.KindBlockingVolume {
		monitoring.Logf("[Registry] AddBlocker: %q is a %s, not a blocker", d.ID, d.Kind)
		return 0
	}
	for _, b := range r.blockers {
		if b.ID == d.ID {
			monitoring.Logf("[Registry] AddBlocker: %q already registered", d.ID)
			return 0
		}
	}
	r.blockers = append(r.blockers, d)
	if sh, ok := r.host.(SceneHost); ok {
		sh.AddVolume(d.ID, d.Box())
	}
	return r.applyBlocker(d)
}

// ResetSceneUnderstanding rolls every grid back to its baseline, discarding
// all placements, and re-runs cross-blocking so late blockers are kept.
func (r *Registry) ResetSceneUnderstanding() {
	if !r.ready("ResetSceneUnderstanding") {
		return
	}
	r.state = StateBlockedForShuffle
	for _, g := range r.allGrids() {
		g.ResetDistanceField()
	}
	r.crossBlock()
	r.remember()
	r.state = StateReady
	monitoring.Logf("[Registry] session %s: scene understanding reset", r.session)
}

// SetSearchCollidersActive switches the host's cell colliders on or off.
func (r *Registry) SetSearchCollidersActive(active bool) {
	r.collidersActive = active
	ch, ok := r.host.(ColliderHost)
	if !ok {
		monitoring.Logf("[Registry] host %T has no cell colliders to toggle", r.host)
		return
	}
	ch.SetCellCollidersActive(active)
}

// SearchCollidersActive reports the last value passed to
// SetSearchCollidersActive.
func (r *Registry) SearchCollidersActive() bool { return r.collidersActive }

// ToggleDebugView flips per-cell debug colouring on every grid and returns
// the new setting.
func (r *Registry) ToggleDebugView() bool {
	r.setDebug(!r.debugView)
	return r.debugView
}

func (r *Registry) setDebug(enabled bool) {
	r.debugView = enabled
	for _, g := range r.allGrids() {
		g.SetDebug(enabled)
	}
}

// WriteDebugView renders every grid into a per-session directory under dir
// and returns the files written.
func (r *Registry) WriteDebugView(dir string) ([]string, error) {
	if r.state != StateReady {
		return nil, fmt.Errorf("write debug view: registry is %s", r.state)
	}
	return debugview.WriteAll(filepath.Join(dir, r.session.String()), r.allGrids())
}

// CleanUp tears the session down, removes everything mirrored into the
// host and returns the registry to Uninitialized.
func (r *Registry) CleanUp() {
	if r.state == StateUninitialized {
		return
	}
	monitoring.Logf("[Registry] session %s: cleaning up", r.session)
	r.teardown()
	r.state = StateUninitialized
	r.session = uuid.Nil
	r.name = ""
}

func (r *Registry) teardown() {
	if sh, ok := r.host.(SceneHost); ok {
		for _, g := range r.allGrids() {
			sh.RemoveSurface(g.ID)
		}
		for _, b := range r.blockers {
			sh.RemoveVolume(b.ID)
		}
	}
	r.walls = surface.NewWallSet(nil, r.rng)
	r.floors = nil
	r.desks = nil
	r.blockers = nil
	r.deskParent = make(map[string]string)
}

// State returns the session's lifecycle stage.
func (r *Registry) State() State { return r.state }

// SessionID identifies the current build. It is uuid.Nil when uninitialised.
func (r *Registry) SessionID() uuid.UUID { return r.session }

// Name is the scanned room's name.
func (r *Registry) Name() string { return r.name }

// Surfaces returns the grids of kind k in scan order.
func (r *Registry) Surfaces(k surface.Kind) []*surface.Grid {
	var out []*surface.Grid
	for _, g := range r.allGrids() {
		if g.Kind() == k {
			out = append(out, g)
		}
	}
	return out
}

// ready guards queries: outside Ready they are a caller error, logged and
// answered with a failure.
func (r *Registry) ready(op string) bool {
	if r.state == StateReady {
		return true
	}
	monitoring.Logf("[Registry] %s called while %s, ignoring", op, r.state)
	return false
}
