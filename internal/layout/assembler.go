package layout

// Spacing is the vertical rhythm between adjacent render units.
type Spacing string

const (
	SpacingTight  Spacing = "tight"
	SpacingNormal Spacing = "normal"
	SpacingLoose  Spacing = "loose"
)

// RenderUnit is one renderable instruction for the consuming UI layer.
// Collections carry their children; everything else carries props directly.
type RenderUnit struct {
	Type     ComponentType        `json:"type"`
	Props    map[string]any       `json:"props,omitempty"`
	Children []ValidatedComponent `json:"children,omitempty"`
	Spacing  Spacing              `json:"spacing"`
}

// Assemble turns a layout plan into render instructions: validate each item,
// group consecutive same-type teasers into collections, and derive spacing
// from adjacency. Pure transform, no external calls.
func Assemble(registry *Registry, plan Plan) []RenderUnit {
	validated := registry.Validate(plan)
	grouped := groupTeasers(validated)

	for i := range grouped {
		grouped[i].Spacing = spacingFor(grouped, i)
	}

	return grouped
}

func isTeaser(t ComponentType) bool {
	return t == ComponentCaseStudyTeaser || t == ComponentArticleTeaser
}

// groupTeasers batches runs of two or more same-type teasers into one
// collection unit so the UI can present them as a card row.
func groupTeasers(items []ValidatedComponent) []RenderUnit {
	var units []RenderUnit

	for i := 0; i < len(items); {
		item := items[i]

		if !isTeaser(item.Type) {
			units = append(units, RenderUnit{Type: item.Type, Props: item.Props})
			i++
			continue
		}

		run := []ValidatedComponent{item}
		for j := i + 1; j < len(items) && items[j].Type == item.Type; j++ {
			run = append(run, items[j])
		}

		if len(run) == 1 {
			units = append(units, RenderUnit{Type: item.Type, Props: item.Props})
		} else {
			units = append(units, RenderUnit{
				Type:     ComponentTeaserCollection,
				Props:    map[string]any{"of": string(item.Type)},
				Children: run,
			})
		}

		i += len(run)
	}

	return units
}

// spacingFor applies the adjacency rules: tighter between same-type cards,
// loose after a hero, normal otherwise. The first unit has no predecessor
// and takes normal spacing.
func spacingFor(units []RenderUnit, i int) Spacing {
	if i == 0 {
		return SpacingNormal
	}

	previous := units[i-1].Type
	current := units[i].Type

	switch {
	case previous == ComponentHero:
		return SpacingLoose
	case previous == current && (isTeaser(current) || current == ComponentTeaserCollection):
		return SpacingTight
	default:
		return SpacingNormal
	}
}
