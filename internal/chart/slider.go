package chart

// StepVisibility maps a slider position to the visibility vector over the
// compartment-major trace ordering: exactly numCompartments true entries, at
// indices step, step+numBeta, step+2*numBeta, ... The default selection and
// every slider step go through this one function, so they cannot disagree
// about group order.
func StepVisibility(step, numBeta, numCompartments int) []bool {
	visible := make([]bool, numBeta*numCompartments)
	for c := 0; c < numCompartments; c++ {
		visible[step+c*numBeta] = true
	}
	return visible
}

// Step is one slider position: a beta label, the chart title to apply, and
// the trace visibility vector for that position.
type Step struct {
	Label   string
	Title   string
	Visible []bool
}
