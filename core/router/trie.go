package router

import "strings"

// Router is a segment-based routing trie with typed parameter captures.
// H is the handler type and M the middleware type; the router itself never
// invokes either — it only stores and returns them — so it carries no
// dependency on the HTTP layer above it.
type Router[H any, M any] struct {
	root *node[H, M]
}

type node[H any, M any] struct {
	literal   map[string]*node[H, M]
	paramI    *node[H, M]
	paramF    *node[H, M]
	paramS    *node[H, M]
	remainder *node[H, M]

	middlewares []M
	route       *routeEntry[H, M]
}

type routeEntry[H any, M any] struct {
	handlers    map[string]H
	middlewares []M
}

func newNode[H any, M any]() *node[H, M] {
	return &node[H, M]{}
}

// Bundle is the tuple a successful Match returns: the matched handler for
// the request's method plus the concatenation of middlewares registered on
// every ancestor node, in registration order, followed by the route's own.
type Bundle[H any, M any] struct {
	Handler     H
	Middlewares []M
}

// NewRouter returns an empty router.
func NewRouter[H any, M any]() *Router[H, M] {
	return &Router[H, M]{root: newNode[H, M]()}
}

func splitSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Add registers handler for method at the given path template. Template
// segments are literal text or one of "%i", "%f", "%s", "%r" (remainder,
// only valid as the final segment). Registering a typed segment at a
// position another template has already claimed with a different type is
// an error.
func (r *Router[H, M]) Add(method, template string, handler H, mws ...M) error {
	segs := splitSegments(template)
	n := r.root
	for i, seg := range segs {
		switch seg {
		case "%i":
			if n.paramI == nil {
				if err := checkNoOtherParam(n, "%i"); err != nil {
					return err
				}
				n.paramI = newNode[H, M]()
			}
			n = n.paramI
		case "%f":
			if n.paramF == nil {
				if err := checkNoOtherParam(n, "%f"); err != nil {
					return err
				}
				n.paramF = newNode[H, M]()
			}
			n = n.paramF
		case "%s":
			if n.paramS == nil {
				if err := checkNoOtherParam(n, "%s"); err != nil {
					return err
				}
				n.paramS = newNode[H, M]()
			}
			n = n.paramS
		case "%r":
			if i != len(segs)-1 {
				return ErrParamConflict
			}
			if n.remainder == nil {
				n.remainder = newNode[H, M]()
			}
			n = n.remainder
		default:
			if n.literal == nil {
				n.literal = make(map[string]*node[H, M])
			}
			child, ok := n.literal[seg]
			if !ok {
				child = newNode[H, M]()
				n.literal[seg] = child
			}
			n = child
		}
	}

	if n.route == nil {
		n.route = &routeEntry[H, M]{handlers: make(map[string]H)}
	}
	n.route.handlers[method] = handler
	n.route.middlewares = mws
	return nil
}

// checkNoOtherParam enforces one parameter kind per trie position: adding
// "%f" where "%i" is already registered (or vice versa) is a conflict.
func checkNoOtherParam[H any, M any](n *node[H, M], kind string) error {
	switch kind {
	case "%i":
		if n.paramF != nil || n.paramS != nil {
			return ErrParamConflict
		}
	case "%f":
		if n.paramI != nil || n.paramS != nil {
			return ErrParamConflict
		}
	case "%s":
		if n.paramI != nil || n.paramF != nil {
			return ErrParamConflict
		}
	}
	return nil
}

// Use attaches middleware to the node reached by a literal path prefix.
// Every route registered under that prefix (including ones registered
// later) picks up these middlewares ahead of its own, in the order Use was
// called. prefix must be made of literal segments.
func (r *Router[H, M]) Use(prefix string, mws ...M) {
	n := r.root
	for _, seg := range splitSegments(prefix) {
		if n.literal == nil {
			n.literal = make(map[string]*node[H, M])
		}
		child, ok := n.literal[seg]
		if !ok {
			child = newNode[H, M]()
			n.literal[seg] = child
		}
		n = child
	}
	n.middlewares = append(n.middlewares, mws...)
}

// Match walks path against the trie, appending any typed captures it finds
// to captures (which the caller owns and sizes to capture_count_max), and
// returns the matched bundle. ErrRouteNotFound is returned when no
// template matches the path at all; ErrMethodNotAllowed when a template
// matches but not for this method.
func (r *Router[H, M]) Match(method, path string, captures []Capture) (Bundle[H, M], []Capture, error) {
	segs := splitSegments(path)
	n := r.root
	var mws []M
	mws = append(mws, n.middlewares...)

	for i := 0; i < len(segs); i++ {
		seg := segs[i]

		if n.literal != nil {
			if child, ok := n.literal[seg]; ok {
				n = child
				mws = append(mws, n.middlewares...)
				continue
			}
		}

		if n.paramI != nil && isIntSegment(seg) {
			v, _ := parseIntSegment(seg)
			captures = append(captures, intCapture(v))
			n = n.paramI
			mws = append(mws, n.middlewares...)
			continue
		}
		if n.paramF != nil && isFloatSegment(seg) {
			v, _ := parseFloatSegment(seg)
			captures = append(captures, floatCapture(v))
			n = n.paramF
			mws = append(mws, n.middlewares...)
			continue
		}
		if n.paramS != nil {
			captures = append(captures, stringCapture(seg))
			n = n.paramS
			mws = append(mws, n.middlewares...)
			continue
		}

		if n.remainder != nil {
			suffix := strings.Join(segs[i:], "/")
			captures = append(captures, stringCapture(suffix))
			n = n.remainder
			mws = append(mws, n.middlewares...)
			i = len(segs)
			break
		}

		return Bundle[H, M]{}, captures, ErrRouteNotFound
	}

	if n.route == nil {
		return Bundle[H, M]{}, captures, ErrRouteNotFound
	}
	handler, ok := n.route.handlers[method]
	if !ok {
		return Bundle[H, M]{}, captures, ErrMethodNotAllowed
	}

	mws = append(mws, n.route.middlewares...)
	return Bundle[H, M]{Handler: handler, Middlewares: mws}, captures, nil
}

// isIntSegment reports whether seg is a valid %i segment: one or more
// ASCII digits, with no leading zero unless the segment is exactly "0".
func isIntSegment(seg string) bool {
	if seg == "" {
		return false
	}
	if seg[0] == '0' && len(seg) > 1 {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}

func parseIntSegment(seg string) (int64, bool) {
	var v int64
	for i := 0; i < len(seg); i++ {
		v = v*10 + int64(seg[i]-'0')
	}
	return v, true
}

// isFloatSegment reports whether seg is a well-formed decimal: digits,
// exactly one '.', digits on both sides.
func isFloatSegment(seg string) bool {
	dot := strings.IndexByte(seg, '.')
	if dot <= 0 || dot == len(seg)-1 {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if i == dot {
			continue
		}
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}

func parseFloatSegment(seg string) (float64, bool) {
	dot := strings.IndexByte(seg, '.')
	whole, _ := parseIntSegment(seg[:dot])
	frac := seg[dot+1:]
	fracVal, _ := parseIntSegment(frac)
	div := 1.0
	for i := 0; i < len(frac); i++ {
		div *= 10
	}
	return float64(whole) + float64(fracVal)/div, true
}
