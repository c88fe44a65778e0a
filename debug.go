package loom

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// GraphInfo is a renderable snapshot of the registry's dependency graph.
type GraphInfo struct {
	Services []ServiceInfo
}

// ServiceInfo describes one factory for rendering purposes.
type ServiceInfo struct {
	Token        TokenRef
	Dependencies []Dependency
	Dependents   []TokenRef
	Scope        Scope
	Instantiated bool
}

// Graph returns the dependency graph in registration order.
func (r *Registry) Graph() GraphInfo {
	services := make([]ServiceInfo, 0, len(r.factories))

	for _, f := range r.factories {
		var dependents []TokenRef
		for _, id := range r.graph.Dependents(f.Token().ID()) {
			dependents = append(dependents, r.index[id].Token())
		}

		services = append(
			services, ServiceInfo{
				Token:        f.Token(),
				Dependencies: f.Dependencies(),
				Dependents:   dependents,
				Scope:        f.Scope(),
				Instantiated: f.cached(),
			},
		)
	}

	return GraphInfo{Services: services}
}

func (r *Registry) PrintGraph() {
	r.FprintGraph(os.Stdout)
}

func (r *Registry) FprintGraph(w io.Writer) {
	info := r.Graph()

	if len(info.Services) == 0 {
		_, _ = fmt.Fprintln(w, "(empty registry)")
		return
	}

	for _, svc := range info.Services {
		status := "○"
		if svc.Instantiated {
			status = "●"
		}

		if len(svc.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, svc.Token.Name())
			continue
		}

		names := make([]string, len(svc.Dependencies))
		for i, dep := range svc.Dependencies {
			names[i] = dep.Token().Name()
		}
		_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, svc.Token.Name(), strings.Join(names, ", "))
	}
}

func (r *Registry) SprintGraph() string {
	var sb strings.Builder
	r.FprintGraph(&sb)
	return sb.String()
}

func (r *Registry) PrintGraphDOT() {
	r.FprintGraphDOT(os.Stdout)
}

// FprintGraphDOT writes the graph in Graphviz DOT form. Selector edges are
// dashed and fan out to the selector's members.
func (r *Registry) FprintGraphDOT(w io.Writer) {
	info := r.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, svc := range info.Services {
		style := ""
		if svc.Instantiated {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", svc.Token.ID(), svc.Token.Name(), style)
	}

	_, _ = fmt.Fprintln(w)

	for _, svc := range info.Services {
		for _, dep := range svc.Dependencies {
			if dep.IsSelector() {
				for _, member := range dep.Members() {
					_, _ = fmt.Fprintf(w, "  %q -> %q [style=dashed];\n", svc.Token.ID(), member.ID())
				}
				continue
			}
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", svc.Token.ID(), dep.Token().ID())
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (r *Registry) SprintGraphDOT() string {
	var sb strings.Builder
	r.FprintGraphDOT(&sb)
	return sb.String()
}

func (r *Registry) PrintGraphMermaid() {
	r.FprintGraphMermaid(os.Stdout)
}

// FprintGraphMermaid writes the graph as a Mermaid flowchart. Selector
// edges use dotted arrows.
func (r *Registry) FprintGraphMermaid(w io.Writer) {
	info := r.Graph()

	_, _ = fmt.Fprintln(w, "flowchart LR")

	ids := make(map[string]string, len(info.Services))
	for i, svc := range info.Services {
		id := fmt.Sprintf("n%d", i)
		ids[svc.Token.ID().String()] = id
		_, _ = fmt.Fprintf(w, "  %s[%q]\n", id, svc.Token.Name())
	}

	for _, svc := range info.Services {
		from := ids[svc.Token.ID().String()]
		for _, dep := range svc.Dependencies {
			if dep.IsSelector() {
				for _, member := range dep.Members() {
					_, _ = fmt.Fprintf(w, "  %s -.-> %s\n", from, ids[member.ID().String()])
				}
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s --> %s\n", from, ids[dep.Token().ID().String()])
		}
	}
}

func (r *Registry) SprintGraphMermaid() string {
	var sb strings.Builder
	r.FprintGraphMermaid(&sb)
	return sb.String()
}
