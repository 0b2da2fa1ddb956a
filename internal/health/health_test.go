package health

import (
	"testing"

	"github.com/arkan-labs/vaultengine/internal/markdown"
	"github.com/arkan-labs/vaultengine/internal/vaultconfig"
	"github.com/arkan-labs/vaultengine/internal/vgraph"
)

func buildTestVault() (*vgraph.Graph, []string) {
	g := vgraph.New()
	files := map[string]string{
		"Go Basics.md":  "[[Go Advanced]] and [[Go Basic]] (typo)\n",
		"Go Advanced.md": "# Go Advanced\n",
		"isolated.md":   "nothing here\n",
	}
	paths := make([]string, 0, len(files))
	for p, content := range files {
		g.AddFile(p, markdown.Parse(p, content))
		paths = append(paths, p)
	}
	return g, paths
}

func TestBrokenLinks_Suggestions(t *testing.T) {
	g, _ := buildTestVault()
	stems := []string{"go basics", "go advanced", "isolated"}
	cfg := vaultconfig.Default()

	broken := BrokenLinks(g, stems, cfg)
	if len(broken) != 1 {
		t.Fatalf("broken = %+v, want 1", broken)
	}
	if broken[0].RawTarget != "Go Basic" {
		t.Fatalf("RawTarget = %q", broken[0].RawTarget)
	}
}

func TestOrphanedNotes(t *testing.T) {
	g, _ := buildTestVault()
	orphans := OrphanedNotes(g)
	if len(orphans) != 1 || orphans[0] != "isolated.md" {
		t.Fatalf("orphans = %v", orphans)
	}
}

func TestHubs(t *testing.T) {
	g, paths := buildTestVault()
	hubs := Hubs(g, paths, 2)
	if len(hubs) != 2 {
		t.Fatalf("len(hubs) = %d, want 2", len(hubs))
	}
	if hubs[0].Degree < hubs[1].Degree {
		t.Fatalf("hubs not sorted by degree: %+v", hubs)
	}
}

func TestScore_LinkedPairIsIsolatedCluster(t *testing.T) {
	g := vgraph.New()
	g.AddFile("a.md", markdown.Parse("a.md", "[[b]]\n"))
	g.AddFile("b.md", markdown.Parse("b.md", "[[a]]\n"))

	// No broken links, orphans or dead ends; the pair is one component of
	// size 2, inside the default [2,5) isolated-cluster window, so the
	// score loses int(15*1/2) = 7.
	cfg := vaultconfig.Default()
	if s := Score(g, []string{"a.md", "b.md"}, cfg); s != 93 {
		t.Fatalf("score = %d, want 93", s)
	}
}

func TestScore_PenalizesBrokenAndOrphans(t *testing.T) {
	g, paths := buildTestVault()
	cfg := vaultconfig.Default()
	if s := Score(g, paths, cfg); s >= 100 {
		t.Fatalf("score = %d, want < 100 (broken link + orphan present)", s)
	}
}

func TestScore_EmptyVaultIsZero(t *testing.T) {
	g := vgraph.New()
	cfg := vaultconfig.Default()
	if s := Score(g, nil, cfg); s != 0 {
		t.Fatalf("score = %d, want 0 for an empty vault", s)
	}
}
