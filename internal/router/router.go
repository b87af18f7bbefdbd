package router

import (
	"sync"

	"go.uber.org/zap"
)

// Effects receives the observable side effects of transitions. Implementations must not
// call back into the Router synchronously; a fragment written through SetFragment is
// already accounted for and must not be echoed back as a FragmentChanged message.
type Effects interface {
	// SetFragment replaces the current fragment (location.hash assignment).
	SetFragment(fragment string)
	// PushFragment adds a history entry for an in-page section anchor.
	PushFragment(fragment string)
	// ScrollToTop scrolls the viewport to the top of the page.
	ScrollToTop(smooth bool)
	// ApplyMeta writes document title, meta description and Open Graph tags.
	ApplyMeta(meta Meta)
}

// FrameScheduler defers work to the next paint frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameFunc adapts a function to FrameScheduler.
type FrameFunc func(fn func())

// RequestFrame implements FrameScheduler.
func (f FrameFunc) RequestFrame(fn func()) { f(fn) }

// Immediate runs frame callbacks synchronously. It is the scheduler used when a single
// request renders a single frame.
var Immediate FrameScheduler = FrameFunc(func(fn func()) { fn() })

// RecipeSet reports whether a recipe id exists in the catalog.
type RecipeSet interface {
	Has(id string) bool
}

// Msg is a navigation message accepted by Dispatch.
type Msg interface{ isMsg() }

// Navigate is an in-app navigation request (link or button). It writes the fragment and
// lets the resulting fragment change drive the transition.
type Navigate struct{ Target string }

// FragmentChanged reports a fragment change observed by the environment (address bar,
// back/forward).
type FragmentChanged struct{ Fragment string }

// SectionAnchor scrolls to an in-page section of the home page and records a history
// entry for it without changing the route.
type SectionAnchor struct{ ID string }

func (Navigate) isMsg()        {}
func (FragmentChanged) isMsg() {}
func (SectionAnchor) isMsg()   {}

// Options configures a Router.
type Options struct {
	Recipes RecipeSet
	Meta    MetaSource
	Effects Effects
	Frames  FrameScheduler
	Logger  *zap.Logger
}

// Router owns the active Route. All writes go through Dispatch; reads are safe from any
// goroutine.
type Router struct {
	mu sync.Mutex

	recipes RecipeSet
	meta    MetaSource
	fx      Effects
	frames  FrameScheduler
	log     *zap.Logger

	started     bool
	fragment    string
	route       Route
	section     string
	corrections int

	queue []Msg

	metaDirty      bool
	frameRequested bool
	metaApplied    bool
	lastMeta       Meta

	subs    map[int]func(Route)
	nextSub int
}

// New constructs a Router. Call Start with the fragment present at first mount before
// dispatching messages.
func New(opts Options) *Router {
	r := &Router{
		recipes: opts.Recipes,
		meta:    opts.Meta,
		fx:      opts.Effects,
		frames:  opts.Frames,
		log:     opts.Logger,
		route:   Home(),
		subs:    map[int]func(Route){},
	}
	if r.meta == nil {
		r.meta = MetaTable{}
	}
	if r.fx == nil {
		r.fx = nopEffects{}
	}
	if r.frames == nil {
		r.frames = Immediate
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Start computes the initial state from fragment. Subsequent calls are ignored.
func (r *Router) Start(fragment string) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	var changed []Route
	if r.transition(Normalize(fragment)) {
		changed = append(changed, r.route)
	}
	r.started = true
	r.finish(changed)
}

// Dispatch processes msg and any messages it causes, in order.
func (r *Router) Dispatch(msg Msg) {
	if msg == nil {
		return
	}
	r.mu.Lock()
	r.queue = append(r.queue, msg)
	var changed []Route
	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		changed = append(changed, r.handle(next)...)
	}
	r.finish(changed)
}

// NavigateTo is shorthand for Dispatch(Navigate{Target: target}).
func (r *Router) NavigateTo(target string) { r.Dispatch(Navigate{Target: target}) }

// CurrentRoute returns the active route.
func (r *Router) CurrentRoute() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}

// Fragment returns the fragment of the active route after any correction.
func (r *Router) Fragment() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fragment
}

// Section returns the last section anchor visited on the home page.
func (r *Router) Section() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.section
}

// Corrections counts fragments that were rewritten to home.
func (r *Router) Corrections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.corrections
}

// Subscribe registers fn to be called with the new route after every transition. The
// returned function removes the subscription.
func (r *Router) Subscribe(fn func(Route)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// handle runs one message with r.mu held and returns the routes entered.
func (r *Router) handle(msg Msg) []Route {
	switch m := msg.(type) {
	case Navigate:
		target := Normalize(m.Target)
		if r.started && target == r.fragment {
			return nil
		}
		r.fx.SetFragment(target)
		// the fragment change arrives after the current message completes
		r.queue = append(r.queue, FragmentChanged{Fragment: target})
	case FragmentChanged:
		if r.transition(Normalize(m.Fragment)) {
			return []Route{r.route}
		}
	case SectionAnchor:
		if r.route.Kind != KindHome || m.ID == "" {
			return nil
		}
		r.section = m.ID
		r.fx.PushFragment(m.ID)
	}
	return nil
}

// transition moves to the route of fragment f. It reports whether the route or fragment
// changed. Must be called with r.mu held.
func (r *Router) transition(f string) bool {
	route := Classify(f)
	switch {
	case route.Kind == KindUnknown:
		r.correct(f, "unrecognized fragment")
		f, route = "", Home()
	case route.Kind == KindRecipeDetail && !r.knownRecipe(route.ID):
		r.correct(f, "unknown recipe")
		f, route = "", Home()
	}
	if r.started && f == r.fragment && route == r.route {
		return false
	}
	r.fragment = f
	r.route = route
	if route.Kind != KindHome {
		r.section = ""
	}
	if route.Kind == KindHome || route.Kind == KindRecipeDetail {
		r.fx.ScrollToTop(true)
	}
	r.metaDirty = true
	return true
}

func (r *Router) correct(f, reason string) {
	r.corrections++
	r.log.Debug("fragment corrected to home", zap.String("fragment", f), zap.String("reason", reason))
	r.fx.SetFragment("")
}

func (r *Router) knownRecipe(id string) bool {
	return r.recipes != nil && r.recipes.Has(id)
}

// finish releases r.mu, requests a metadata flush when a transition happened and notifies
// subscribers of every route entered.
func (r *Router) finish(changed []Route) {
	schedule := r.metaDirty && !r.frameRequested
	if schedule {
		r.frameRequested = true
	}
	subs := make([]func(Route), 0, len(r.subs))
	if len(changed) > 0 {
		for _, fn := range r.subs {
			subs = append(subs, fn)
		}
	}
	r.mu.Unlock()

	if schedule {
		r.frames.RequestFrame(r.flushMeta)
	}
	for _, route := range changed {
		for _, fn := range subs {
			fn(route)
		}
	}
}

// flushMeta applies metadata for the route active at flush time. Flushes requested by
// superseded transitions collapse into one write of the latest route's metadata.
func (r *Router) flushMeta() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameRequested = false
	if !r.metaDirty {
		return
	}
	r.metaDirty = false
	m := r.meta.Lookup(r.route, r.fragment)
	if r.metaApplied && m == r.lastMeta {
		return
	}
	r.fx.ApplyMeta(m)
	r.lastMeta = m
	r.metaApplied = true
}

type nopEffects struct{}

func (nopEffects) SetFragment(string)  {}
func (nopEffects) PushFragment(string) {}
func (nopEffects) ScrollToTop(bool)    {}
func (nopEffects) ApplyMeta(Meta)      {}
