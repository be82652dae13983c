// Interactive terminal sandbox: a player rig with a sensor and an arm moves
// among walls and drifting blobs while the chunk grid tracks everything
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hitgrid/audio"
	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/engine"
	"github.com/lixenwraith/hitgrid/parameter"
	"github.com/lixenwraith/hitgrid/render"
)

// World units per terminal cell; cells are roughly twice as tall as wide
const (
	cellW = 4.0
	cellH = 8.0

	playerStep = 4.0
	blobCount  = 40
)

type rig struct {
	obj    *engine.Object
	root   core.NodeID
	body   core.NodeID
	sensor core.NodeID
	arm    core.NodeID
}

type blob struct {
	obj    *engine.Object
	vx, vy float64
}

type sandbox struct {
	c      *engine.Container
	r      *render.Renderer
	player *audio.Player
	log    *slog.Logger
	rng    *rand.Rand

	rig      rig
	blobs    []blob
	contacts map[core.ObjectID]bool

	showChunks bool
	spinning   bool
}

func main() {
	cfg, err := parameter.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := cfg.NewLogger(logOut)
	slog.SetDefault(logger)

	sb, err := newSandbox(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sb.c.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	screen.HideCursor()

	if cfg.Audio {
		if err := sb.player.Init(); err != nil {
			// Non-fatal, the sandbox runs silent
			logger.Warn("audio unavailable", "error", err)
		}
		defer sb.player.Close()
	}

	sb.run(screen)
}

func newSandbox(cfg parameter.Config, logger *slog.Logger) (*sandbox, error) {
	c, err := engine.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	c.SetLogger(logger)

	sb := &sandbox{
		c:        c,
		r:        render.NewRenderer(c),
		player:   audio.NewPlayer(),
		log:      logger,
		rng:      rand.New(rand.NewPCG(uint64(cfg.BenchSeed), uint64(cfg.BenchSeed))),
		contacts: make(map[core.ObjectID]bool),
	}
	sb.r.Camera = render.Camera{CellW: cellW, CellH: cellH}

	if err := sb.buildRig(160, 120); err != nil {
		return nil, err
	}
	sb.buildWalls()
	sb.buildBlobs()
	sb.log.Info("sandbox ready", "objects", len(c.Objects()), "nodes", c.Nodes.Len(), "chunks", c.Grid.Len())
	return sb, nil
}

// buildRig assembles the player: a composite root carrying a solid body, a
// round overlap sensor ahead of it and a line arm that can spin
func (sb *sandbox) buildRig(x, y float64) error {
	c := sb.c
	root := c.NewComposite(x, y, core.CapNone)
	body, err := c.NewRect(0, 0, core.Edges{Left: -6, Right: 6, Top: -8, Bottom: 8})
	if err != nil {
		return err
	}
	sensor, err := c.NewCircle(20, 0, 10)
	if err != nil {
		return err
	}
	arm := c.NewLine(0, 0, 0, -24)
	c.Attach(body, root)
	c.Attach(sensor, root)
	c.Attach(arm, body)

	o, ok := c.RegisterObject(root, sensor, body, body, core.SurfaceAll)
	if !ok {
		return fmt.Errorf("register player rig")
	}
	o.SetLayer(parameter.LayerPlayer)
	o.SetAppearance(render.Glyph{Rune: '@', Fg: render.RgbLocator, Transparent: true})
	c.Add(o)
	sb.rig = rig{obj: o, root: root, body: body, sensor: sensor, arm: arm}
	return nil
}

func (sb *sandbox) buildWalls() {
	c := sb.c
	walls := []struct {
		x, y float64
		rel  core.Edges
	}{
		{0, 0, core.Edges{Left: 0, Right: 480, Top: 0, Bottom: 8}},
		{0, 232, core.Edges{Left: 0, Right: 480, Top: 0, Bottom: 8}},
		{0, 0, core.Edges{Left: 0, Right: 8, Top: 0, Bottom: 240}},
		{472, 0, core.Edges{Left: 0, Right: 8, Top: 0, Bottom: 240}},
		{240, 80, core.Edges{Left: -16, Right: 16, Top: -24, Bottom: 24}},
	}
	for _, w := range walls {
		id := c.Nodes.MustRect(w.x, w.y, w.rel)
		o, ok := c.RegisterObject(id, 0, id, 0, core.SurfaceAll)
		if !ok {
			continue
		}
		o.SetLayer(parameter.LayerTerrain)
		o.SetAppearance(render.Glyph{Rune: '#', Fg: render.RgbSolid, Bg: render.RgbChunkGrid})
		c.Add(o)
	}
}

func (sb *sandbox) buildBlobs() {
	c := sb.c
	for range blobCount {
		id := c.Nodes.MustCircle(16+sb.rng.Float64()*440, 16+sb.rng.Float64()*200, 4+sb.rng.Float64()*6)
		o, ok := c.RegisterObject(id, id, 0, id, core.SurfaceNone)
		if !ok {
			continue
		}
		o.SetLayer(parameter.LayerActor)
		o.SetAlpha(0.5 + sb.rng.Float64()/2)
		o.SetAppearance(render.Glyph{Rune: 'o', Fg: render.RgbOverlap, Transparent: true})
		c.Add(o)
		sb.blobs = append(sb.blobs, blob{obj: o, vx: sb.rng.Float64()*2 - 1, vy: sb.rng.Float64()*2 - 1})
	}
}

func (sb *sandbox) run(screen tcell.Screen) {
	events := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	stepTicker := time.NewTicker(parameter.StepInterval)
	defer stepTicker.Stop()
	frameTicker := time.NewTicker(parameter.FrameInterval)
	defer frameTicker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !sb.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-stepTicker.C:
			sb.step()
		case <-frameTicker.C:
			sb.draw(screen)
		}
	}
}

// handleKey applies one key press, false quits
func (sb *sandbox) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		sb.movePlayer(-playerStep, 0)
	case tcell.KeyRight:
		sb.movePlayer(playerStep, 0)
	case tcell.KeyUp:
		sb.movePlayer(0, -playerStep)
	case tcell.KeyDown:
		sb.movePlayer(0, playerStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'f':
			xf, yf := sb.c.Nodes.RelativeFlip(sb.rig.root)
			sb.c.SetRelativeFlip(sb.rig.root, !xf, yf)
		case 'v':
			xf, yf := sb.c.Nodes.RelativeFlip(sb.rig.root)
			sb.c.SetRelativeFlip(sb.rig.root, xf, !yf)
		case 'r':
			sb.c.SetRelativeAngle(sb.rig.root, sb.c.Nodes.RelativeAngle(sb.rig.root)+15)
		case 's':
			sb.spinning = !sb.spinning
		case 'c':
			sb.showChunks = !sb.showChunks
		case 'h':
			sb.r.Camera.Pan(-4, 0)
		case 'l':
			sb.r.Camera.Pan(4, 0)
		case 'k':
			sb.r.Camera.Pan(0, -2)
		case 'j':
			sb.r.Camera.Pan(0, 2)
		}
	}
	return true
}

// movePlayer shifts the rig unless its body would enter a solid surface
// facing the direction of travel
func (sb *sandbox) movePlayer(dx, dy float64) {
	body := sb.c.Nodes.Edges(sb.rig.body).Translate(dx, dy)

	var facing core.Direction
	switch {
	case dx > 0:
		facing = core.DirLeft
	case dx < 0:
		facing = core.DirRight
	case dy > 0:
		facing = core.DirUp
	default:
		facing = core.DirDown
	}
	for id := range sb.c.QuerySolid(body, facing) {
		if id == sb.rig.body {
			continue
		}
		if sb.c.Nodes.Edges(id).Overlaps(body) {
			sb.player.Play(audio.CueSolid)
			return
		}
	}
	sb.c.Nodes.Translate(sb.rig.root, dx, dy)
}

// step advances blobs and the arm, then reports contacts that just began
func (sb *sandbox) step() {
	c := sb.c
	for i := range sb.blobs {
		b := &sb.blobs[i]
		id := b.obj.Locator()
		x, y := c.Nodes.RelativePosition(id)
		if x < 16 || x > 464 {
			b.vx = -b.vx
		}
		if y < 16 || y > 224 {
			b.vy = -b.vy
		}
		c.SetRelativePosition(id, x+b.vx, y+b.vy)
	}
	if sb.spinning {
		c.SetRelativeAngle(sb.rig.body, c.Nodes.RelativeAngle(sb.rig.body)+6)
	}

	now := make(map[core.ObjectID]bool)
	for _, role := range []core.Role{core.RoleOverlap, core.RoleCollision} {
		for _, o := range c.Overlapping(sb.rig.obj, role) {
			if !now[o.ID()] && !sb.contacts[o.ID()] {
				sb.player.Play(audio.CueForRole(role))
				sb.log.Debug("contact", "object", o.ID(), "role", role, "step", c.Step())
			}
			now[o.ID()] = true
		}
	}
	sb.contacts = now
	c.Advance()
}

func (sb *sandbox) draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()
	sb.r.Viewport = core.Area{Width: w, Height: h - 1}
	if sb.showChunks {
		sb.r.DrawChunks(screen)
	}
	drawn := sb.r.Draw(screen)

	status := fmt.Sprintf("objects %d  drawn %d  chunks %d  contacts %d  step %d | arrows move, f/v flip, r rotate, s spin, c chunks, hjkl pan, q quit",
		len(sb.c.Objects()), drawn, sb.c.Grid.Len(), len(sb.contacts), sb.c.Step())
	render.Label{Text: status, Fg: render.RgbStatusBar}.Draw(screen, 0, h-1, 1)
	screen.Show()
}
