package httperr

import "errors"

// Rule presents a package sentinel error over HTTP.
type Rule struct {
	Target  error
	Status  int
	Code    string
	Message string
}

func Match(err error, rules []Rule) (Rule, bool) {
	for _, r := range rules {
		if errors.Is(err, r.Target) {
			return r, true
		}
	}
	return Rule{}, false
}
