package pdmsg

import "fmt"

// ElementKind tags the variant held by an Element (spec §3, MessageElement).
type ElementKind int

const (
	// Float carries a float32 payload.
	Float ElementKind = iota
	// Symbol carries an interned string payload.
	Symbol
	// Bang carries no payload.
	Bang
	// List carries a nested sequence of elements.
	List
	// Any is a type-agnostic placeholder used by template messages such as
	// unpack's declaration ("unpack f s").
	Any
)

func (k ElementKind) String() string {
	switch k {
	case Float:
		return "float"
	case Symbol:
		return "symbol"
	case Bang:
		return "bang"
	case List:
		return "list"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// Element is a single tagged value within a Message (spec §3,
// "MessageElement"). It also remembers whether it was parsed from a `$N`
// token, in which case it must be resolved against the owning graph's
// argument list before first use (spec §4.1, "Argument expansion").
type Element struct {
	Kind      ElementKind
	Float     float32
	Symbol    string
	List      []Element
	DollarArg int // $N index, including 0 for "$0"; only meaningful when dollar is true
	dollar    bool
}

// NewFloat builds a Float element.
func NewFloat(f float32) Element { return Element{Kind: Float, Float: f} }

// NewSymbol builds a Symbol element.
func NewSymbol(s string) Element { return Element{Kind: Symbol, Symbol: s} }

// NewBang builds a Bang element.
func NewBang() Element { return Element{Kind: Bang} }

// NewList builds a List element from its children.
func NewList(children ...Element) Element { return Element{Kind: List, List: children} }

// NewAny builds an Any placeholder element, used in unpack-style templates.
func NewAny() Element { return Element{Kind: Any} }

// NewDollar builds a Float placeholder standing in for an unresolved $N
// token (N may be 0, the graph's own id), to be resolved via ResolveDollar
// before first use.
func NewDollar(n int) Element {
	return Element{Kind: Float, DollarArg: n, dollar: true}
}

// IsDollar reports whether this element still needs $N resolution.
func (e Element) IsDollar() bool { return e.dollar }

// ResolveDollar substitutes a $N reference with a concrete element drawn
// from the graph's argument list (args[0] is always the graph's $0 id).
// For creation arguments this happens once, at object construction time
// (spec §4.1); a message box instead calls it on every delivery, passing
// the triggering message's elements as args.
func (e Element) ResolveDollar(args []Element) (Element, error) {
	if !e.IsDollar() {
		return e, nil
	}
	if e.DollarArg < 0 || e.DollarArg >= len(args) {
		return Element{}, fmt.Errorf("pdmsg: $%d out of range (graph has %d argument(s))", e.DollarArg, len(args))
	}
	resolved := args[e.DollarArg]
	resolved.dollar = false
	return resolved, nil
}

// String renders the element the way it would appear on a print object's
// output line.
func (e Element) String() string {
	switch e.Kind {
	case Float:
		return fmt.Sprintf("%g", e.Float)
	case Symbol:
		return e.Symbol
	case Bang:
		return "bang"
	case Any:
		return "*"
	case List:
		s := ""
		for i, c := range e.List {
			if i > 0 {
				s += " "
			}
			s += c.String()
		}
		return s
	default:
		return "?"
	}
}

// TypeMatches reports whether a concrete element satisfies the type
// constraint expressed by a template element such as one of unpack's
// declared slots (spec §8 scenario 5, "unpack type mismatch").
func (template Element) TypeMatches(actual Element) bool {
	switch template.Kind {
	case Any:
		return true
	case Float, Symbol, Bang, List:
		return template.Kind == actual.Kind
	default:
		return false
	}
}
