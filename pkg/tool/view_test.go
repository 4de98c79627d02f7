package tool

import (
	"context"
	"fmt"
	"testing"
)

type failingProvider struct{}

func (failingProvider) Tools(ctx context.Context) ([]ToolDef, error) {
	return nil, fmt.Errorf("backend unavailable")
}

func TestBuildView_FirstOccurrenceWins(t *testing.T) {
	first := StaticProvider{{Name: "greet", Description: "from first"}}
	second := StaticProvider{
		{Name: "greet", Description: "from second"},
		{Name: "extra"},
	}

	view, err := BuildView(context.Background(), []Provider{first, second})
	if err != nil {
		t.Fatal(err)
	}

	if len(view) != 2 {
		t.Fatalf("got %d defs, want 2: %v", len(view), view.Names())
	}
	def, _ := view.Find("greet")
	if def.Description != "from first" {
		t.Errorf("later provider overrode earlier one: %q", def.Description)
	}
}

func TestBuildView_PreservesProviderOrder(t *testing.T) {
	a := StaticProvider{{Name: "a1"}, {Name: "a2"}}
	b := StaticProvider{{Name: "b1"}}

	view, err := BuildView(context.Background(), []Provider{a, b})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a1", "a2", "b1"}
	names := view.Names()
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestBuildView_ProviderError(t *testing.T) {
	_, err := BuildView(context.Background(), []Provider{failingProvider{}})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestBuildView_RebuiltPerRequest(t *testing.T) {
	provider := StaticProvider{{Name: "greet"}}

	v1, _ := BuildView(context.Background(), []Provider{provider}, NamespaceTransform{Prefix: "a"})
	v2, _ := BuildView(context.Background(), []Provider{provider}, NamespaceTransform{Prefix: "b"})

	if v1[0].Name != "a_greet" || v2[0].Name != "b_greet" {
		t.Errorf("views not independent: %v / %v", v1.Names(), v2.Names())
	}
}
