package match

// ActionFunc is invoked for every pattern that passes validation. index is
// the pattern's position in the catalog.
type ActionFunc func(index int, buf, pattern []byte, offset int) error

// Skip records a pattern rejected by Validate.
type Skip struct {
	Index  int
	Result Result
}

// Report summarises a ForEachValid run.
type Report struct {
	Dispatched int
	Skipped    []Skip
}

// ForEachValid validates every pattern against buf in list order and calls
// action for each one that passes.
//
// Invalid patterns are skipped and listed in the report; they never abort the
// batch. An error returned by action stops the iteration and is returned
// together with the report so far.
func ForEachValid(buf []byte, patterns [][]byte, offset int, action ActionFunc) (Report, error) {
	var rep Report
	for i, p := range patterns {
		res := Validate(buf, p, offset)
		if !res.Is(CheckPassed) {
			rep.Skipped = append(rep.Skipped, Skip{Index: i, Result: res})
			continue
		}
		rep.Dispatched++
		if err := action(i, buf, p, offset); err != nil {
			return rep, err
		}
	}
	return rep, nil
}
