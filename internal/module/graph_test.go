package module

import "testing"

func TestGraphNoCycles(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.capy", "b.capy")
	g.AddEdge("b.capy", "c.capy")
	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Fatalf("unexpected cycles: %v", cycles)
	}
}

func TestGraphDirectCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.capy", "b.capy")
	g.AddEdge("b.capy", "a.capy")
	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 2 {
		t.Fatalf("cycle = %v, want 2 members", cycles[0])
	}
}

func TestGraphSelfImport(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.capy", "a.capy")
	cycles := g.Cycles()
	if len(cycles) != 1 || len(cycles[0]) != 1 {
		t.Fatalf("got %v, want a single self-cycle", cycles)
	}
}

func TestGraphDiamondNoCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.capy", "b.capy")
	g.AddEdge("a.capy", "c.capy")
	g.AddEdge("b.capy", "d.capy")
	g.AddEdge("c.capy", "d.capy")
	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Fatalf("unexpected cycles in diamond graph: %v", cycles)
	}
}
