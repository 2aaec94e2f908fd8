package layout

// ComponentType is the closed vocabulary of presentation components. The
// generative model may only name these; anything else becomes
// ComponentUnsupported at assembly time, never a dynamic lookup.
type ComponentType string

const (
	ComponentHero            ComponentType = "hero"
	ComponentCaseStudyTeaser ComponentType = "caseStudyTeaser"
	ComponentArticleTeaser   ComponentType = "articleTeaser"
	ComponentMetricsGrid     ComponentType = "metricsGrid"
	ComponentQuoteBlock      ComponentType = "quoteBlock"
	ComponentImageGallery    ComponentType = "imageGallery"
	ComponentVideoPlayer     ComponentType = "videoPlayer"
	ComponentTextSection     ComponentType = "textSection"
	ComponentContactCard     ComponentType = "contactCard"

	// ComponentUnsupported is the inert placeholder every unknown or
	// shape-mismatched item collapses into.
	ComponentUnsupported ComponentType = "unsupported"

	// ComponentTeaserCollection batches consecutive same-type teasers.
	// Produced by the assembler only, never accepted from the model.
	ComponentTeaserCollection ComponentType = "teaserCollection"
)

// Component is one item of a layout plan as emitted by the model.
type Component struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
}

// Plan is the contract boundary to the rendering layer: an ordered sequence
// of component/props pairs.
type Plan struct {
	Layout []Component `json:"layout"`
}

func (p Plan) Empty() bool {
	return len(p.Layout) == 0
}
