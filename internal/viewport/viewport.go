// Package viewport owns the pan/zoom state of the main view and the mapping
// between content space and screen space:
//
//	screen = content*scale + pan
//	content = (screen - pan) / scale
//
// Animated transitions are stepped by the host, one Step per frame.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/tree"
)

const (
	DefaultMinScale         = 0.2
	DefaultMaxScale         = 3.0
	DefaultLerpFactor       = 0.5
	DefaultCenterLerpFactor = 0.2
	DefaultSnapThreshold    = 0.01
	DefaultZoomStep         = 1.25
	DefaultPinchEpsilon     = 1e-4

	// wheelIntensity is the exponent applied per wheel notch.
	wheelIntensity = 0.1
	// minScaleDelta below which an anchored zoom is ignored.
	minScaleDelta = 1e-5
)

// HostSize reports the size of the drawing surface in screen units.
type HostSize interface {
	Size() (width, height float64)
}

// NodeFinder resolves node ids to laid out nodes.
type NodeFinder interface {
	FindNode(id string) *tree.Node
}

type Options struct {
	MinScale         float64
	MaxScale         float64
	LerpFactor       float64
	CenterLerpFactor float64
	SnapThreshold    float64
	ZoomStep         float64
	PinchEpsilon     float64
}

func DefaultOptions() Options {
	return Options{
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		LerpFactor:       DefaultLerpFactor,
		CenterLerpFactor: DefaultCenterLerpFactor,
		SnapThreshold:    DefaultSnapThreshold,
		ZoomStep:         DefaultZoomStep,
		PinchEpsilon:     DefaultPinchEpsilon,
	}
}

// State is the observable view state. Width and Height mirror the host
// surface at the last update.
type State struct {
	Scale    float64
	PanX     float64
	PanY     float64
	MinScale float64
	MaxScale float64
	Width    float64
	Height   float64
}

func (s State) Pan() r2.Vec { return r2.Vec{X: s.PanX, Y: s.PanY} }

// View is a partial update for SetView. Nil fields are left unchanged.
type View struct {
	Scale *float64
	PanX  *float64
	PanY  *float64
}

// Pinch describes one sample of a two-finger gesture. Centers are in
// viewport-local screen coordinates.
type Pinch struct {
	StartDist     float64
	CurrentDist   float64
	StartScale    float64
	StartPan      r2.Vec
	StartCenter   r2.Vec
	CurrentCenter r2.Vec
}

type target struct {
	scale float64
	pan   r2.Vec
}

// Controller drives a single view. It is not safe for concurrent use; the
// host event loop serializes every call.
type Controller struct {
	host  HostSize
	nodes NodeFinder
	opts  Options

	state     State
	target    target
	animating bool
	lerp      float64
	gen       uint64

	listeners []func(State)
}

func New(host HostSize, nodes NodeFinder, opts Options) *Controller {
	if opts.MinScale <= 0 {
		opts.MinScale = DefaultMinScale
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = math.Max(DefaultMaxScale, opts.MinScale)
	}
	if opts.LerpFactor <= 0 || opts.LerpFactor > 1 {
		opts.LerpFactor = DefaultLerpFactor
	}
	if opts.CenterLerpFactor <= 0 || opts.CenterLerpFactor > 1 {
		opts.CenterLerpFactor = DefaultCenterLerpFactor
	}
	if opts.SnapThreshold <= 0 {
		opts.SnapThreshold = DefaultSnapThreshold
	}
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = DefaultZoomStep
	}
	if opts.PinchEpsilon <= 0 {
		opts.PinchEpsilon = DefaultPinchEpsilon
	}
	c := &Controller{
		host:  host,
		nodes: nodes,
		opts:  opts,
		state: State{Scale: 1, MinScale: opts.MinScale, MaxScale: opts.MaxScale},
	}
	c.state.Width, c.state.Height = host.Size()
	c.target = target{scale: 1}
	return c
}

// OnChange registers fn to run after every view update.
func (c *Controller) OnChange(fn func(State)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Options() Options { return c.opts }

// Animating reports whether a transition is in flight.
func (c *Controller) Animating() bool { return c.animating }

// Generation changes every time an animation starts or stops. Hosts tag the
// frames they schedule with it and drop frames from older generations.
func (c *Controller) Generation() uint64 { return c.gen }

// SetLimits replaces the scale clamp range, e.g. from saved metadata.
func (c *Controller) SetLimits(minScale, maxScale float64) {
	if minScale <= 0 || maxScale < minScale {
		return
	}
	c.state.MinScale, c.state.MaxScale = minScale, maxScale
	c.update()
}

// SetView assigns the given fields without clamping or animation.
func (c *Controller) SetView(v View) {
	if v.Scale != nil {
		c.state.Scale = *v.Scale
	}
	if v.PanX != nil {
		c.state.PanX = *v.PanX
	}
	if v.PanY != nil {
		c.state.PanY = *v.PanY
	}
	c.update()
}

func (c *Controller) set(scale float64, pan r2.Vec) {
	c.state.Scale = scale
	c.state.PanX, c.state.PanY = pan.X, pan.Y
	c.update()
}

func (c *Controller) update() {
	c.state.Width, c.state.Height = c.host.Size()
	for _, fn := range c.listeners {
		fn(c.state)
	}
}

// StopAnimation cancels any in-flight transition, leaving the view where it
// currently is.
func (c *Controller) StopAnimation() {
	if !c.animating {
		return
	}
	c.animating = false
	c.gen++
}

func (c *Controller) animate(lerp float64) {
	c.animating = true
	c.lerp = lerp
	c.gen++
}

// Step advances the running transition by one frame. It returns true while
// more frames are needed.
func (c *Controller) Step() bool {
	if !c.animating {
		return false
	}
	f := c.lerp
	scale := c.state.Scale + (c.target.scale-c.state.Scale)*f
	pan := r2.Add(c.state.Pan(), r2.Scale(f, r2.Sub(c.target.pan, c.state.Pan())))
	c.set(scale, pan)

	d := r2.Sub(c.target.pan, pan)
	if math.Sqrt((c.target.scale-scale)*(c.target.scale-scale)+d.X*d.X+d.Y*d.Y) > c.opts.SnapThreshold {
		return true
	}
	c.set(c.target.scale, c.target.pan)
	c.animating = false
	c.gen++
	return false
}

// Settle runs the current transition to completion.
func (c *Controller) Settle() {
	for c.Step() {
	}
}

func (c *Controller) clamp(scale float64) float64 {
	return math.Max(c.state.MinScale, math.Min(c.state.MaxScale, scale))
}

func (c *Controller) center() r2.Vec {
	w, h := c.host.Size()
	return r2.Vec{X: w / 2, Y: h / 2}
}

// SetScale zooms toward the viewport center with an animated transition.
func (c *Controller) SetScale(scale float64) {
	clamped := c.clamp(scale)
	if clamped == c.state.Scale {
		return
	}
	zf := clamped / c.state.Scale
	// pan*zf + center*(1-zf)
	c.target = target{
		scale: clamped,
		pan:   r2.Add(r2.Scale(zf, c.state.Pan()), r2.Scale(1-zf, c.center())),
	}
	c.animate(c.opts.LerpFactor)
}

func (c *Controller) ZoomIn()    { c.SetScale(c.state.Scale * c.opts.ZoomStep) }
func (c *Controller) ZoomOut()   { c.SetScale(c.state.Scale / c.opts.ZoomStep) }
func (c *Controller) ResetZoom() { c.SetScale(1) }

// ZoomAtPoint zooms instantly, keeping the content point under the anchor
// fixed on screen.
func (c *Controller) ZoomAtPoint(scale, anchorX, anchorY float64) {
	clamped := c.clamp(scale)
	if math.Abs(clamped-c.state.Scale) < minScaleDelta {
		return
	}
	zoom := clamped / c.state.Scale
	anchor := r2.Vec{X: anchorX, Y: anchorY}
	pan := r2.Sub(anchor, r2.Scale(zoom, r2.Sub(anchor, c.state.Pan())))
	c.StopAnimation()
	c.target = target{scale: clamped, pan: pan}
	c.set(clamped, pan)
}

// WheelZoom applies one wheel notch at the pointer. Negative deltaY zooms in.
func (c *Controller) WheelZoom(deltaY, x, y float64) {
	if deltaY == 0 {
		return
	}
	dir := -1.0
	if deltaY < 0 {
		dir = 1
	}
	c.ZoomAtPoint(c.state.Scale*math.Exp(dir*wheelIntensity), x, y)
}

// HandlePinch retargets the view for one gesture sample: a zoom anchored at
// the gesture start plus the translation of the gesture midpoint.
func (c *Controller) HandlePinch(p Pinch) {
	startDist := math.Max(p.StartDist, c.opts.PinchEpsilon)
	startScale := p.StartScale
	if startScale <= 0 {
		startScale = c.state.Scale
	}
	clamped := c.clamp(startScale * (p.CurrentDist / startDist))
	ratio := clamped / startScale

	fromZoom := r2.Sub(p.StartCenter, r2.Scale(ratio, r2.Sub(p.StartCenter, p.StartPan)))
	delta := r2.Sub(p.CurrentCenter, p.StartCenter)

	c.target = target{scale: clamped, pan: r2.Add(fromZoom, delta)}
	c.animate(c.opts.LerpFactor)
}

// centeringPan is the pan that puts content point p at the viewport center.
func (c *Controller) centeringPan(p r2.Vec) r2.Vec {
	return r2.Sub(c.center(), r2.Scale(c.state.Scale, p))
}

// PanViewportToNode animates the view so the node sits at the viewport
// center shifted by the given screen offset. A lerp of 0 selects the
// default centering factor.
func (c *Controller) PanViewportToNode(id string, offsetX, offsetY, lerp float64) bool {
	node := c.find(id)
	if node == nil {
		return false
	}
	if lerp <= 0 || lerp > 1 {
		lerp = c.opts.CenterLerpFactor
	}
	pan := r2.Add(c.centeringPan(r2.Vec{X: node.X, Y: node.Y}), r2.Vec{X: offsetX, Y: offsetY})
	c.target = target{scale: c.state.Scale, pan: pan}
	c.animate(lerp)
	return true
}

func (c *Controller) CenterViewportOnNode(id string) bool {
	return c.PanViewportToNode(id, 0, 0, 0)
}

// GetPanForNode returns how far the current pan is from centering the node.
func (c *Controller) GetPanForNode(id string) (r2.Vec, bool) {
	node := c.find(id)
	if node == nil {
		return r2.Vec{}, false
	}
	return r2.Sub(c.state.Pan(), c.centeringPan(r2.Vec{X: node.X, Y: node.Y})), true
}

func (c *Controller) find(id string) *tree.Node {
	if c.nodes == nil {
		return nil
	}
	return c.nodes.FindNode(id)
}

// PanBy moves the view directly, cancelling any transition first so the
// animation never fights a manual drag.
func (c *Controller) PanBy(dx, dy float64) {
	c.StopAnimation()
	c.set(c.state.Scale, r2.Add(c.state.Pan(), r2.Vec{X: dx, Y: dy}))
}

// Resize keeps the content point that was at the old screen center at the
// new one. Call it after the host size changed.
func (c *Controller) Resize() {
	oldCenter := r2.Vec{X: c.state.Width / 2, Y: c.state.Height / 2}
	content := c.ScreenToContent(oldCenter)
	c.StopAnimation()
	c.set(c.state.Scale, c.centeringPan(content))
}

func (c *Controller) ContentToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(c.state.Scale, p), c.state.Pan())
}

func (c *Controller) ScreenToContent(p r2.Vec) r2.Vec {
	return r2.Scale(1/c.state.Scale, r2.Sub(p, c.state.Pan()))
}

// VisibleContentRect is the content area currently on screen.
func (c *Controller) VisibleContentRect() Rect {
	w, h := c.host.Size()
	origin := c.ScreenToContent(r2.Vec{})
	return Rect{X: origin.X, Y: origin.Y, Width: w / c.state.Scale, Height: h / c.state.Scale}
}
