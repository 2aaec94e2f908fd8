package layout

import "testing"

func component(name string, props map[string]any) Component {
	if props == nil {
		props = map[string]any{}
	}
	return Component{Component: name, Props: props}
}

func TestRegistry_Validate_KnownComponent(t *testing.T) {
	registry := NewRegistry()

	validated := registry.Validate(Plan{Layout: []Component{
		component("hero", map[string]any{"title": "Fintech work"}),
	}})

	if len(validated) != 1 {
		t.Fatalf("Expected one validated item, got %d", len(validated))
	}
	if validated[0].Type != ComponentHero {
		t.Errorf("Expected a hero, got '%s'", validated[0].Type)
	}
	if validated[0].Props["title"] != "Fintech work" {
		t.Error("Expected props to pass through unchanged")
	}
}

func TestRegistry_Validate_UnknownComponentBecomesPlaceholder(t *testing.T) {
	registry := NewRegistry()

	validated := registry.Validate(Plan{Layout: []Component{
		component("carousel3000", map[string]any{"slides": 7}),
	}})

	if validated[0].Type != ComponentUnsupported {
		t.Fatalf("Expected an unsupported placeholder, got '%s'", validated[0].Type)
	}
	if validated[0].Props["requested"] != "carousel3000" {
		t.Error("Expected the placeholder to record the requested name")
	}
	if validated[0].OriginalName != "carousel3000" {
		t.Errorf("Expected the original name to be kept, got '%s'", validated[0].OriginalName)
	}
}

func TestRegistry_Validate_MissingRequiredProp(t *testing.T) {
	registry := NewRegistry()

	validated := registry.Validate(Plan{Layout: []Component{
		component("caseStudyTeaser", map[string]any{"title": "No slug here"}),
	}})

	if validated[0].Type != ComponentUnsupported {
		t.Fatalf("Expected a shape mismatch to downgrade, got '%s'", validated[0].Type)
	}
	if validated[0].Props["missing"] != "slug" {
		t.Errorf("Expected the missing prop to be named, got %v", validated[0].Props["missing"])
	}
}

func TestRegistry_Validate_PreservesOrder(t *testing.T) {
	registry := NewRegistry()

	validated := registry.Validate(Plan{Layout: []Component{
		component("hero", map[string]any{"title": "A"}),
		component("bogus", nil),
		component("contactCard", nil),
	}})

	if len(validated) != 3 {
		t.Fatalf("Expected all items validated, got %d", len(validated))
	}
	if validated[0].Type != ComponentHero || validated[1].Type != ComponentUnsupported || validated[2].Type != ComponentContactCard {
		t.Errorf("Expected order preserved, got %v %v %v", validated[0].Type, validated[1].Type, validated[2].Type)
	}
}

func TestAssemble_GroupsConsecutiveTeasers(t *testing.T) {
	registry := NewRegistry()

	units := Assemble(registry, Plan{Layout: []Component{
		component("hero", map[string]any{"title": "Fintech"}),
		component("caseStudyTeaser", map[string]any{"title": "A", "slug": "a"}),
		component("caseStudyTeaser", map[string]any{"title": "B", "slug": "b"}),
		component("caseStudyTeaser", map[string]any{"title": "C", "slug": "c"}),
		component("contactCard", nil),
	}})

	if len(units) != 3 {
		t.Fatalf("Expected hero + collection + contact card, got %d units", len(units))
	}
	if units[1].Type != ComponentTeaserCollection {
		t.Fatalf("Expected the teaser run to collapse into a collection, got '%s'", units[1].Type)
	}
	if len(units[1].Children) != 3 {
		t.Errorf("Expected 3 children in the collection, got %d", len(units[1].Children))
	}
	if units[1].Props["of"] != string(ComponentCaseStudyTeaser) {
		t.Errorf("Expected the collection to record its teaser type, got %v", units[1].Props["of"])
	}
}

func TestAssemble_SingleTeaserStaysAlone(t *testing.T) {
	registry := NewRegistry()

	units := Assemble(registry, Plan{Layout: []Component{
		component("caseStudyTeaser", map[string]any{"title": "A", "slug": "a"}),
		component("textSection", map[string]any{"text": "Between"}),
		component("caseStudyTeaser", map[string]any{"title": "B", "slug": "b"}),
	}})

	if len(units) != 3 {
		t.Fatalf("Expected no grouping across the break, got %d units", len(units))
	}
	if units[0].Type != ComponentCaseStudyTeaser || units[2].Type != ComponentCaseStudyTeaser {
		t.Error("Expected lone teasers to stay as single units")
	}
}

func TestAssemble_MixedTeaserTypesNotGrouped(t *testing.T) {
	registry := NewRegistry()

	units := Assemble(registry, Plan{Layout: []Component{
		component("caseStudyTeaser", map[string]any{"title": "A", "slug": "a"}),
		component("articleTeaser", map[string]any{"title": "B", "slug": "b"}),
	}})

	if len(units) != 2 {
		t.Fatalf("Expected different teaser types to stay separate, got %d units", len(units))
	}
}

func TestAssemble_SpacingRules(t *testing.T) {
	registry := NewRegistry()

	units := Assemble(registry, Plan{Layout: []Component{
		component("hero", map[string]any{"title": "Fintech"}),
		component("textSection", map[string]any{"text": "Intro"}),
		component("caseStudyTeaser", map[string]any{"title": "A", "slug": "a"}),
		component("textSection", map[string]any{"text": "More"}),
	}})

	if units[0].Spacing != SpacingNormal {
		t.Errorf("Expected the first unit to take normal spacing, got '%s'", units[0].Spacing)
	}
	if units[1].Spacing != SpacingLoose {
		t.Errorf("Expected loose spacing after a hero, got '%s'", units[1].Spacing)
	}
	if units[3].Spacing != SpacingNormal {
		t.Errorf("Expected normal spacing between unrelated types, got '%s'", units[3].Spacing)
	}
}

func TestAssemble_TightSpacingBetweenSameTeasers(t *testing.T) {
	registry := NewRegistry()

	// Grouping collapses same-type runs first, so adjacent teaser units
	// surface as back-to-back collections.
	units := Assemble(registry, Plan{Layout: []Component{
		component("caseStudyTeaser", map[string]any{"title": "A", "slug": "a"}),
		component("caseStudyTeaser", map[string]any{"title": "B", "slug": "b"}),
		component("articleTeaser", map[string]any{"title": "C", "slug": "c"}),
		component("articleTeaser", map[string]any{"title": "D", "slug": "d"}),
	}})

	if len(units) != 2 {
		t.Fatalf("Expected two collections, got %d units", len(units))
	}
	if units[1].Spacing != SpacingTight {
		t.Errorf("Expected tight spacing between adjacent collections, got '%s'", units[1].Spacing)
	}
}

func TestAssemble_EmptyPlan(t *testing.T) {
	registry := NewRegistry()

	units := Assemble(registry, Plan{})

	if len(units) != 0 {
		t.Errorf("Expected no units for an empty plan, got %d", len(units))
	}
}
