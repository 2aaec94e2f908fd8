package layout

// requiredProps declares the minimal prop shape per component. A missing
// required prop downgrades the item to unsupported rather than crashing a
// renderer downstream.
var requiredProps = map[ComponentType][]string{
	ComponentHero:            {"title"},
	ComponentCaseStudyTeaser: {"title", "slug"},
	ComponentArticleTeaser:   {"title", "slug"},
	ComponentMetricsGrid:     {"metrics"},
	ComponentQuoteBlock:      {"quote"},
	ComponentImageGallery:    {"images"},
	ComponentVideoPlayer:     {"url"},
	ComponentTextSection:     {"text"},
	ComponentContactCard:     {},
}

// Registry validates layout items against the closed component vocabulary.
type Registry struct {
	known map[ComponentType][]string
}

func NewRegistry() *Registry {
	return &Registry{known: requiredProps}
}

// Known reports whether name is in the closed enumeration.
func (r *Registry) Known(name string) bool {
	_, ok := r.known[ComponentType(name)]
	return ok
}

// Validate maps each plan item to its component type, collapsing unknown
// names and shape mismatches into the unsupported placeholder. It never
// fails; a bad plan renders as placeholders, not as an error.
func (r *Registry) Validate(plan Plan) []ValidatedComponent {
	validated := make([]ValidatedComponent, 0, len(plan.Layout))

	for _, item := range plan.Layout {
		validated = append(validated, r.validateItem(item))
	}

	return validated
}

func (r *Registry) validateItem(item Component) ValidatedComponent {
	componentType := ComponentType(item.Component)

	required, ok := r.known[componentType]
	if !ok {
		return ValidatedComponent{
			Type:         ComponentUnsupported,
			Props:        map[string]any{"requested": item.Component},
			OriginalName: item.Component,
		}
	}

	for _, prop := range required {
		if _, present := item.Props[prop]; !present {
			return ValidatedComponent{
				Type:         ComponentUnsupported,
				Props:        map[string]any{"requested": item.Component, "missing": prop},
				OriginalName: item.Component,
			}
		}
	}

	return ValidatedComponent{
		Type:  componentType,
		Props: item.Props,
	}
}

// ValidatedComponent is a plan item after vocabulary and shape checks.
type ValidatedComponent struct {
	Type         ComponentType  `json:"type"`
	Props        map[string]any `json:"props"`
	OriginalName string         `json:"original_name,omitempty"`
}
