package pdparse

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dudk/pdengine/pdgraph"
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
	"github.com/dudk/pdengine/pdobj"
)

// Loader resolves object class names to live objects and abstraction
// files to subgraphs while a patch is being assembled (spec §4.1, §6).
type Loader struct {
	libraryDir string
	registry   map[string]pdobj.Factory
}

// New returns a Loader that searches libraryDir for abstraction files
// (".pd" patches used as a class) after the patch's own directory and
// the built-in registry (spec §6, "abstraction search path: patch
// directory, then library directory").
func New(libraryDir string) *Loader {
	return &Loader{libraryDir: libraryDir, registry: pdobj.Registry}
}

// LoadFile reads path and returns the root graph it describes.
func (l *Loader) LoadFile(path string, cfg pdgraph.Config) (*pdgraph.Graph, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdparse: %w", err)
	}
	root := pdgraph.NewRoot(cfg)
	if err := l.loadInto(root, string(contents), filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := root.Plan(); err != nil {
		root.PrintErr(err.Error())
	}
	return root, nil
}

// loadInto parses contents into the directly-created children of g.
// patchDir is searched first when resolving an unrecognized class name to
// an abstraction file (spec §6).
func (l *Loader) loadInto(g *pdgraph.Graph, contents, patchDir string) error {
	directives := splitDirectives(contents)
	declIndex := []pdnode.Object{} // file-declaration-order index -> live Object
	searchPath := []string{patchDir}
	nextInlet, nextOutlet := 0, 0

	for i := 0; i < len(directives); i++ {
		d := directives[i]
		switch d.at(0) {
		case "#N":
			if d.at(1) == "canvas" {
				if i == 0 {
					continue // the root canvas header; no object is created for it
				}
				end, sub, err := l.loadNestedCanvas(g, directives, i, patchDir)
				if err != nil {
					return err
				}
				declIndex = append(declIndex, sub)
				i = end
				continue
			}

		case "#X":
			switch d.at(1) {
			case "obj", "msg", "floatatom", "symbolatom":
				obj, err := l.instantiate(g, d, searchPath, &nextInlet, &nextOutlet)
				if err != nil {
					return err
				}
				declIndex = append(declIndex, obj)

			case "connect":
				fromIdx, _ := strconv.Atoi(d.at(2))
				fromOutlet, _ := strconv.Atoi(d.at(3))
				toIdx, _ := strconv.Atoi(d.at(4))
				toInlet, _ := strconv.Atoi(d.at(5))
				if fromIdx < 0 || fromIdx >= len(declIndex) || toIdx < 0 || toIdx >= len(declIndex) {
					g.PrintErr(fmt.Sprintf("pdparse: connect references missing object index %d or %d", fromIdx, toIdx))
					continue
				}
				if err := g.ConnectObjects(declIndex[fromIdx], fromOutlet, declIndex[toIdx], toInlet); err != nil {
					g.PrintErr(err.Error())
				}

			case "declare":
				for _, tok := range d.tokens[2:] {
					if tok != "-path" {
						if !filepath.IsAbs(tok) {
							tok = filepath.Join(patchDir, tok)
						}
						searchPath = append(searchPath, tok)
					}
				}

			case "text", "restore":
				// comments carry no data flow; a stray top-level "restore"
				// (outside loadNestedCanvas) is likewise ignored.

			default:
				// unrecognized #X directive kinds are skipped rather than
				// aborting the whole load (spec §7).
			}
		}
	}
	return nil
}

// loadNestedCanvas parses an inline "#N canvas ... #X restore" block
// starting at directives[start] into a new subgraph nested inside parent,
// returning the index of its closing "#X restore" directive.
func (l *Loader) loadNestedCanvas(parent *pdgraph.Graph, directives []directive, start int, patchDir string) (int, *pdgraph.Graph, error) {
	depth := 0
	end := -1
	for j := start; j < len(directives); j++ {
		if directives[j].at(0) == "#N" && directives[j].at(1) == "canvas" {
			depth++
		}
		if directives[j].at(0) == "#X" && directives[j].at(1) == "restore" {
			depth--
			if depth == 0 {
				end = j
				break
			}
		}
	}
	if end == -1 {
		return 0, nil, fmt.Errorf("pdparse: unterminated nested canvas at directive %d", start)
	}

	inner := directives[start+1 : end]
	numInlets, numOutlets, sigIn, sigOut := countBridges(inner)

	args := []pdmsg.Element{}
	sub := pdgraph.NewSubgraph(parent, numInlets, numOutlets, sigIn, sigOut, args)
	parentIdx := parent.AddObject(sub)
	_ = parentIdx

	var buf strings.Builder
	for _, d := range inner {
		buf.WriteString(strings.Join(d.tokens, " "))
		buf.WriteString(";\n")
	}
	if err := l.loadInto(sub, buf.String(), patchDir); err != nil {
		return 0, nil, err
	}
	return end, sub, nil
}

// countBridges scans a nested canvas's own top-level directives for
// inlet/inlet~/outlet/outlet~ objects, in declaration order, to size the
// subgraph's boundary before any of its objects are instantiated.
func countBridges(directives []directive) (numInlets, numOutlets int, sigIn, sigOut []bool) {
	for _, d := range directives {
		if d.at(0) != "#X" || d.at(1) != "obj" {
			continue
		}
		class := d.at(4)
		switch class {
		case "inlet":
			numInlets++
			sigIn = append(sigIn, false)
		case "inlet~":
			numInlets++
			sigIn = append(sigIn, true)
		case "outlet":
			numOutlets++
			sigOut = append(sigOut, false)
		case "outlet~":
			numOutlets++
			sigOut = append(sigOut, true)
		}
	}
	return
}

// instantiate builds the Object (or resolves the bridge) named by a
// "#X obj"/"#X msg"/"#X floatatom"/"#X symbolatom" directive.
func (l *Loader) instantiate(g *pdgraph.Graph, d directive, searchPath []string, nextInlet, nextOutlet *int) (pdnode.Object, error) {
	switch d.at(1) {
	case "msg":
		elems := tokensToElements(d.tokens[4:])
		return l.build(g, "msg", elems, searchPath)
	case "floatatom":
		return l.build(g, "floatatom", nil, searchPath)
	case "symbolatom":
		return l.build(g, "symbolatom", nil, searchPath)
	}

	class := d.at(4)
	switch class {
	case "inlet", "inlet~":
		obj, ok := g.InletBridge(*nextInlet)
		*nextInlet++
		if !ok {
			return nil, fmt.Errorf("pdparse: inlet bridge index out of range for %q", class)
		}
		return obj, nil
	case "outlet", "outlet~":
		obj, ok := g.OutletBridge(*nextOutlet)
		*nextOutlet++
		if !ok {
			return nil, fmt.Errorf("pdparse: outlet bridge index out of range for %q", class)
		}
		return obj, nil
	}

	elems := tokensToElements(d.tokens[5:])
	return l.build(g, class, elems, searchPath)
}

// build resolves className against the built-in registry, then against
// an abstraction file on the search path, then falls back to an
// unrecognized-object placeholder that keeps the object's declaration
// index so later connect directives still resolve by index (spec §7,
// "unresolvable-object-class"). The placeholder always has one inlet and
// one outlet, whatever the unresolved class would have had; a connect to
// any other slot of it is logged and skipped.
func (l *Loader) build(g *pdgraph.Graph, className string, args []pdmsg.Element, searchPath []string) (pdnode.Object, error) {
	resolved := args
	if className != "msg" {
		// A message box's own $N tokens resolve against whatever message
		// triggers it at runtime (pdobj.msgBox), not against the graph's
		// creation arguments, so they are left untouched here.
		resolved = make([]pdmsg.Element, len(args))
		for i, e := range args {
			r, err := e.ResolveDollar(g.Args())
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
	}

	// A bare number as the object label (e.g. "#X obj 10 10 5;") is Pd's
	// number-box idiom, not an unresolved class: it constructs a constant
	// float message object holding that value (spec §4.1 fallback policy
	// step 1; original_source/src/PdGraph.cpp:308-309).
	if f, err := strconv.ParseFloat(className, 32); err == nil {
		numeric, ferr := l.registry["float"](g, []pdmsg.Element{pdmsg.NewFloat(float32(f))}, g.BlockSize())
		if ferr != nil {
			return nil, ferr
		}
		g.AddObject(numeric)
		return numeric, nil
	}

	if factory, ok := l.registry[className]; ok {
		obj, err := factory(g, resolved, g.BlockSize())
		if err != nil {
			// A factory error (e.g. a duplicate send name) is a per-object
			// construction failure, not a reason to abort the rest of the
			// patch (spec §4.1, §7: "does not throw"). The object itself is
			// replaced with an inert placeholder so later #X connect
			// directives still resolve by index, same as an unresolved
			// class below.
			g.PrintErr(fmt.Sprintf("pdparse: %q: %v", className, err))
			placeholder := newUnknown(className, len(args))
			g.AddObject(placeholder)
			return placeholder, nil
		}
		g.AddObject(obj)
		return obj, nil
	}

	if path, ok := l.findAbstraction(className, searchPath); ok {
		return l.loadAbstraction(g, path, resolved)
	}

	obj := newUnknown(className, len(args))
	g.AddObject(obj)
	g.PrintErr(fmt.Sprintf("pdparse: unresolved object class %q, kept as placeholder", className))
	return obj, nil
}

// findAbstraction searches, in order: the patch's own directory, the
// directives' own "#X declare -path" additions, then the library
// directory (spec §6, "abstraction search path: patch directory, then
// library directory" — declare paths are relative to the patch directory
// and are searched before the library directory since they are the more
// specific override).
func (l *Loader) findAbstraction(className string, searchPath []string) (string, bool) {
	candidates := append(append([]string{}, searchPath...), l.libraryDir)
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, className+".pd")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func (l *Loader) loadAbstraction(parent *pdgraph.Graph, path string, args []pdmsg.Element) (pdnode.Object, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdparse: %w", err)
	}
	directives := splitDirectives(string(contents))
	// directives[0] is the abstraction's own "#N canvas" header; its body
	// runs from there to the end of the file (no trailing "#X restore" —
	// unlike an inline nested canvas, a standalone abstraction file simply
	// ends).
	numInlets, numOutlets, sigIn, sigOut := countBridges(directives)
	sub := pdgraph.NewSubgraph(parent, numInlets, numOutlets, sigIn, sigOut, args)
	parent.AddObject(sub)
	if err := l.loadInto(sub, string(contents), filepath.Dir(path)); err != nil {
		return nil, err
	}
	return sub, nil
}

// tokensToElements converts raw text tokens from a patch line into
// Elements: "$N" becomes a dollar placeholder, a token that parses as a
// number becomes a Float, everything else is a Symbol (spec §4.1).
func tokensToElements(tokens []string) []pdmsg.Element {
	elems := make([]pdmsg.Element, 0, len(tokens))
	for _, tok := range tokens {
		elems = append(elems, tokenToElement(tok))
	}
	return elems
}

func tokenToElement(tok string) pdmsg.Element {
	if strings.HasPrefix(tok, "$") {
		if n, err := strconv.Atoi(tok[1:]); err == nil {
			return pdmsg.NewDollar(n)
		}
	}
	if f, err := strconv.ParseFloat(tok, 32); err == nil {
		return pdmsg.NewFloat(float32(f))
	}
	return pdmsg.NewSymbol(tok)
}
