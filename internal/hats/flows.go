package hats

// Six Thinking Hats step names. The blue hat both opens and closes the
// session, so it appears twice under distinct names.
const (
	StepBlueOpen  = "blue-open"
	StepWhite     = "white"
	StepRed       = "red"
	StepYellow    = "yellow"
	StepBlack     = "black"
	StepGreen     = "green"
	StepBlueClose = "blue-close"
)

// Synthesis step names.
const (
	StepGather  = "gather"
	StepCluster = "cluster"
	StepDistill = "distill"
	StepConnect = "connect"
	StepRecord  = "record"
)

// flowRegistry defines the fixed step sequence per session kind.
var flowRegistry = map[Kind][]string{
	KindSixHats: {
		StepBlueOpen, StepWhite, StepRed, StepYellow,
		StepBlack, StepGreen, StepBlueClose,
	},
	KindSynthesis: {
		StepGather, StepCluster, StepDistill, StepConnect, StepRecord,
	},
}

// StepFlow returns the ordered step list for the given kind.
func StepFlow(k Kind) ([]string, error) {
	if err := ValidateKind(k); err != nil {
		return nil, err
	}
	flow := flowRegistry[k]

	// Return a copy to prevent mutation of the registry.
	result := make([]string, len(flow))
	copy(result, flow)
	return result, nil
}

// stepGuides holds the prompt shown when a step becomes current.
var stepGuides = map[string]string{
	StepBlueOpen:  "🔵 Blue hat (opening): define the topic and what a good outcome looks like.",
	StepWhite:     "⚪ White hat: facts only. What do we actually know? What data is missing?",
	StepRed:       "🔴 Red hat: gut reactions. What feels right or wrong, no justification needed.",
	StepYellow:    "🟡 Yellow hat: benefits. Why could this work? Best realistic outcome?",
	StepBlack:     "⚫ Black hat: risks. What breaks? What is the strongest objection?",
	StepGreen:     "🟢 Green hat: alternatives. What else could we do? Wild ideas welcome.",
	StepBlueClose: "🔵 Blue hat (closing): summarize, decide, and name the next concrete action.",

	StepGather:  "📥 Gather: list every raw note, entry, and doc fragment on the topic.",
	StepCluster: "🗂️ Cluster: group what you gathered by theme; name each cluster.",
	StepDistill: "⚗️ Distill: write the one-paragraph takeaway per cluster.",
	StepConnect: "🔗 Connect: link takeaways to existing knowledge docs and decisions.",
	StepRecord:  "💾 Record: draft the final knowledge doc from the distilled takeaways.",
}

// StepGuide returns the guidance prompt for a step, or an empty string
// for unknown steps.
func StepGuide(step string) string {
	return stepGuides[step]
}

// KindLabel returns a human title for a session kind.
func KindLabel(k Kind) string {
	switch k {
	case KindSixHats:
		return "Six Thinking Hats"
	case KindSynthesis:
		return "Knowledge Synthesis"
	default:
		return string(k)
	}
}
