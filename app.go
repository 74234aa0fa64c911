package main

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/chazu/polycube/pkg/anim"
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/catalog"
	"github.com/chazu/polycube/pkg/config"
	"github.com/chazu/polycube/pkg/graph"
	"github.com/chazu/polycube/pkg/interact"
	"github.com/chazu/polycube/pkg/kernel"
	"github.com/chazu/polycube/pkg/kernel/sdfx"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

// Events emitted to the frontend.
const (
	EventSelectionChanged = "selection:changed"
	EventCollisionChanged = "collision:changed"
	EventCatalogLoaded    = "catalog:loaded"
	EventBlockMesh        = "block:mesh"
	EventBlockTransform   = "block:transform"
	EventBlockHighlight   = "block:highlight"
	EventGizmoChanged     = "gizmo:changed"
	EventNavEnabled       = "nav:enabled"
)

// App is the Wails backend. Its exported methods are bound to the
// frontend; sessionHost turns the session's scene updates into runtime
// events.
//
// Bound methods arrive on separate goroutines, so every entry point takes
// mu. The host callbacks run under it and must not take it again.
type App struct {
	ctx    context.Context
	cfg    config.Config
	log    *zap.Logger
	loader *catalog.Loader
	kernel kernel.Kernel
	emit   func(event string, data any)

	mu         sync.Mutex
	session    *interact.Session
	view, up   mgl64.Vec3
	meshes     map[block.ID]MeshData
	transforms map[block.ID]TransformData
	highlight  map[block.ID]bool
	gizmo      interact.GizmoState
}

// MeshData is the JSON mesh format sent to the frontend. Vertices are in
// the block's local cell space.
type MeshData struct {
	BlockID  int       `json:"blockId"`
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Color    string    `json:"color"`
}

// TransformData places a block mesh: a local vertex v is drawn at
// pivot + rotation·(position + v − pivot). Rotation is [x, y, z, w].
type TransformData struct {
	BlockID  int        `json:"blockId"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
	Pivot    [3]float64 `json:"pivot"`
}

// SelectionData mirrors the selection callback.
type SelectionData struct {
	IDs    []int `json:"ids"`
	Center *int  `json:"center"`
}

// BlockData describes one block's committed state.
type BlockData struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Cells    [][3]int   `json:"cells"`
	Position [3]float64 `json:"position"`
}

// SceneData is everything the frontend needs to draw from scratch.
type SceneData struct {
	Blocks      []BlockData         `json:"blocks"`
	Meshes      []MeshData          `json:"meshes"`
	Transforms  []TransformData     `json:"transforms"`
	Selection   SelectionData       `json:"selection"`
	Highlighted []int               `json:"highlighted"`
	Collisions  []int               `json:"collisions"`
	Gizmo       interact.GizmoState `json:"gizmo"`
}

// EvalErrorData is a JSON-serializable catalog error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// LoadResult is returned by LoadCatalog.
type LoadResult struct {
	Blocks []BlockData     `json:"blocks"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates an App with the sdfx kernel at the configured mesh
// resolution. The session is built on startup.
func NewApp(cfg config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		cfg:    cfg,
		log:    log,
		loader: catalog.NewLoader(log.Named("catalog")),
		kernel: sdfx.New(cfg.Mesh.CellsPerUnit),
		view:   mgl64.Vec3{0, 0, -1},
		up:     mgl64.Vec3{0, 1, 0},
	}
	a.emit = a.runtimeEmit
	return a
}

// runtimeEmit forwards to the Wails runtime once it has a context.
func (a *App) runtimeEmit(event string, data any) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, event, data)
}

// startup is called by Wails on app startup. It loads the configured
// catalog, falling back to the built-in one.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if err := a.loadInitial(); err != nil {
		a.log.Error("startup failed", zap.Error(err))
	}
}

// shutdown is called by Wails when the window closes.
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		a.session.Dispose()
		a.session = nil
	}
	_ = a.log.Sync()
}

func (a *App) loadInitial() error {
	var (
		c   *catalog.Catalog
		err error
	)
	if path := a.cfg.Catalog.Path; path != "" {
		c, err = a.loader.LoadFile(path)
		if err != nil {
			a.log.Warn("catalog file rejected, using built-in catalog", zap.String("path", path), zap.Error(err))
		}
	}
	if c == nil {
		if c, err = a.loader.Default(); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.replaceSession(c)
}

// replaceSession disposes the current session and starts one over c.
// Callers hold mu.
func (a *App) replaceSession(c *catalog.Catalog) error {
	if a.session != nil {
		a.session.Dispose()
		a.session = nil
	}
	a.meshes = make(map[block.ID]MeshData)
	a.transforms = make(map[block.ID]TransformData)
	a.highlight = make(map[block.ID]bool)

	s, err := interact.NewSession(c.Blocks(), sessionHost{a}, interact.Options{
		DragThreshold:     a.cfg.Interaction.DragThresholdPx,
		GizmoRadius:       a.cfg.Interaction.GizmoRadius,
		GizmoTolerance:    a.cfg.Interaction.GizmoTolerance,
		AnimationDuration: a.cfg.Animation.Duration(),
		Kernel:            a.kernel,
		Logger:            a.log.Named("session"),
	})
	if err != nil {
		return err
	}
	s.OnSelectionChanged(func(ids []block.ID, center *block.ID) {
		a.emit(EventSelectionChanged, selectionData(ids, center))
	})
	s.OnCollisionChanged(func(ids []block.ID) {
		a.emit(EventCollisionChanged, toInts(ids))
	})
	a.session = s
	a.emit(EventCatalogLoaded, blockData(s.Blocks()))
	return nil
}

// ---------------------------------------------------------------------------
// Session host
// ---------------------------------------------------------------------------

// sessionHost is the App as seen by the session. It is kept off App so
// Wails does not bind these methods; the session only calls them while
// App.mu is held.
type sessionHost struct {
	a *App
}

func (h sessionHost) ViewDirection() mgl64.Vec3 { return h.a.view }
func (h sessionHost) Up() mgl64.Vec3            { return h.a.up }

func (h sessionHost) SetHighlight(id block.ID, on bool) {
	h.a.highlight[id] = on
	h.a.emit(EventBlockHighlight, map[string]any{"blockId": int(id), "on": on})
}

func (h sessionHost) SetGizmo(st interact.GizmoState) {
	h.a.gizmo = st
	h.a.emit(EventGizmoChanged, st)
}

func (h sessionHost) SetTransform(id block.ID, p anim.Presentation) {
	td := transformData(id, p)
	h.a.transforms[id] = td
	h.a.emit(EventBlockTransform, td)
}

func (h sessionHost) SetMesh(id block.ID, m *kernel.Mesh) {
	md := MeshData{
		BlockID:  int(id),
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		Color:    m.Color,
	}
	h.a.meshes[id] = md
	h.a.emit(EventBlockMesh, md)
}

func (h sessionHost) SetNavigationEnabled(enabled bool) {
	h.a.emit(EventNavEnabled, enabled)
}

var _ interact.Host = sessionHost{}

// ---------------------------------------------------------------------------
// Frontend bindings
// ---------------------------------------------------------------------------

// withSession runs fn under the lock when a session exists.
func (a *App) withSession(fn func(s *interact.Session)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		fn(a.session)
	}
}

// Scene returns the full drawable state.
func (a *App) Scene() SceneData {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := SceneData{
		Blocks:      []BlockData{},
		Meshes:      []MeshData{},
		Transforms:  []TransformData{},
		Selection:   SelectionData{IDs: []int{}},
		Highlighted: []int{},
		Collisions:  []int{},
		Gizmo:       a.gizmo,
	}
	if a.session == nil {
		return out
	}
	blocks := a.session.Blocks()
	out.Blocks = blockData(blocks)
	if sel := a.session.Selection(); sel.Center() != nil {
		id := sel.Center().ID
		out.Selection = selectionData(graph.IDs(sel.Members()), &id)
	}
	for _, b := range blocks {
		if m, ok := a.meshes[b.ID]; ok {
			out.Meshes = append(out.Meshes, m)
		}
		if tr, ok := a.transforms[b.ID]; ok {
			out.Transforms = append(out.Transforms, tr)
		}
	}
	for id, on := range a.highlight {
		if on {
			out.Highlighted = append(out.Highlighted, int(id))
		}
	}
	slices.Sort(out.Highlighted)
	out.Collisions = toInts(a.session.Collisions())
	return out
}

// Blocks returns the committed state of every block.
func (a *App) Blocks() []BlockData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return []BlockData{}
	}
	return blockData(a.session.Blocks())
}

// SetCamera records the camera frame used for drag planes and flips.
func (a *App) SetCamera(view, up [3]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, u := mgl64.Vec3(view), mgl64.Vec3(up)
	if v.Len() == 0 || u.Len() == 0 {
		return
	}
	a.view, a.up = v.Normalize(), u.Normalize()
}

// Tick advances the session by dtMillis milliseconds.
func (a *App) Tick(dtMillis float64) {
	a.withSession(func(s *interact.Session) {
		s.Tick(time.Duration(dtMillis * float64(time.Millisecond)))
	})
}

func (a *App) PointerDown(ev interact.PointerEvent) {
	a.withSession(func(s *interact.Session) { s.PointerDown(ev) })
}

func (a *App) PointerMove(ev interact.PointerEvent) {
	a.withSession(func(s *interact.Session) { s.PointerMove(ev) })
}

func (a *App) PointerUp(ev interact.PointerEvent) {
	a.withSession(func(s *interact.Session) { s.PointerUp(ev) })
}

func (a *App) DoubleClick(ev interact.PointerEvent) {
	a.withSession(func(s *interact.Session) { s.DoubleClick(ev) })
}

func (a *App) KeyDown(key string) {
	a.withSession(func(s *interact.Session) { s.KeyDown(key) })
}

func (a *App) SelectBlockByID(id int) {
	a.withSession(func(s *interact.Session) { s.SelectBlockByID(block.ID(id)) })
}

// FlipSelection rotates the selection relative to the camera. It reports
// whether a rotation started.
func (a *App) FlipSelection(dir string) bool {
	started := false
	a.withSession(func(s *interact.Session) {
		started = s.FlipSelection(interact.FlipDirection(dir))
	})
	return started
}

// LoadCatalog evaluates source and, if it is valid, restarts the session
// over the new pieces. On error the current session is kept.
func (a *App) LoadCatalog(source string) LoadResult {
	result := LoadResult{Blocks: []BlockData{}, Errors: []EvalErrorData{}}

	c, evalErrs, err := a.loader.Evaluate(source)
	if err != nil {
		a.log.Error("catalog evaluation failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if len(result.Errors) > 0 {
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.replaceSession(c); err != nil {
		a.log.Error("session rebuild failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	result.Blocks = blockData(a.session.Blocks())
	return result
}

// DefaultCatalog returns the built-in catalog source for the editor.
func (a *App) DefaultCatalog() string {
	return catalog.DefaultSource()
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

func toInts(ids []block.ID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func selectionData(ids []block.ID, center *block.ID) SelectionData {
	sel := SelectionData{IDs: toInts(ids)}
	if center != nil {
		c := int(*center)
		sel.Center = &c
	}
	return sel
}

func blockData(bs []*block.Block) []BlockData {
	out := make([]BlockData, len(bs))
	for i, b := range bs {
		cells := make([][3]int, len(b.Cells))
		for j, c := range b.Cells {
			cells[j] = [3]int{c.X, c.Y, c.Z}
		}
		out[i] = BlockData{
			ID:       int(b.ID),
			Name:     b.Name,
			Color:    b.Color,
			Cells:    cells,
			Position: b.Position,
		}
	}
	return out
}

func transformData(id block.ID, p anim.Presentation) TransformData {
	return TransformData{
		BlockID:  int(id),
		Position: p.Position,
		Rotation: [4]float64{p.Rotation.V[0], p.Rotation.V[1], p.Rotation.V[2], p.Rotation.W},
		Pivot:    p.Pivot,
	}
}
