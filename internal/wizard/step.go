package wizard

// Step is a stage of the linear wizard.
type Step int

const (
	StepInput Step = iota
	StepTextOptions
	StepPromptSelect
	StepImageGenerate
	StepReview
)

// LastStep is the final step of the wizard.
const LastStep = StepReview

var stepLabels = [...]string{
	"Input Content",
	"Post Text Options",
	"Image Prompt Selector",
	"Image Generation",
	"Final Post Review",
}

// String returns the step label.
func (s Step) String() string {
	if s < StepInput || s > LastStep {
		return "Unknown"
	}
	return stepLabels[s]
}

// Valid reports whether s is a wizard step.
func (s Step) Valid() bool {
	return s >= StepInput && s <= LastStep
}

// Steps returns every step in order.
func Steps() []Step {
	return []Step{StepInput, StepTextOptions, StepPromptSelect, StepImageGenerate, StepReview}
}

// IndicatorItem is one entry of the step indicator.
type IndicatorItem struct {
	Step      Step
	Label     string
	Current   bool
	Done      bool // Before the current step and reachable
	Reachable bool // Can be jumped to
}

// Indicator is a read-only view for rendering step navigation.
type Indicator struct {
	Items   []IndicatorItem
	Current Step
	MaxStep Step
}

func buildIndicator(current, max Step) Indicator {
	ind := Indicator{Current: current, MaxStep: max}
	for _, s := range Steps() {
		ind.Items = append(ind.Items, IndicatorItem{
			Step:      s,
			Label:     s.String(),
			Current:   s == current,
			Done:      s < current,
			Reachable: s <= max,
		})
	}
	return ind
}
