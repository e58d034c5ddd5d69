package solve

// Stats reports the work one integration call performed. Steps counts
// accepted steps; Rejected counts trial steps the controller threw away.
// MinStepHits counts accepted steps whose proposed successor fell below
// the configured minimum, with the corresponding advisory errors collected
// in Warnings. X is the coordinate reached, which on a clean return equals
// the requested endpoint.
type Stats struct {
	Steps       int
	Rejected    int
	MinStepHits int
	LastStep    float64
	NextStep    float64
	X           float64
	Warnings    []error
}

func (s *Stats) add(o Stats) {
	s.Steps += o.Steps
	s.Rejected += o.Rejected
	s.MinStepHits += o.MinStepHits
	s.LastStep = o.LastStep
	s.NextStep = o.NextStep
	s.X = o.X
	s.Warnings = append(s.Warnings, o.Warnings...)
}
