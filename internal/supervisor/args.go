package supervisor

import "strings"

// ArgPlan is the computed launch plan: the full argument list plus whether
// the stats directory must be recreated before launch.
type ArgPlan struct {
	Args          []string
	RecreateStats bool
}

// BuildArgs assembles the daemon argument list. Caller-supplied flags are
// split on whitespace and kept verbatim, in order; the computed defaults are
// appended after them unless the caller already supplied the same flag.
//
// The containment checks inspect only the split caller tokens, never the
// defaults injected here: a caller-supplied `--data-api` anywhere in flags
// suppresses both the stats directory recreation and the default flag, even
// if the token is malformed. That mirrors the behavior the daemon's users
// rely on and is intentional.
func BuildArgs(flags, wallet, chain, threads, statsDir string) ArgPlan {
	tokens := strings.Fields(flags)
	contains := func(flag string) bool {
		for _, token := range tokens {
			if token == flag {
				return true
			}
		}
		return false
	}

	plan := ArgPlan{Args: append([]string{}, tokens...)}

	if !contains("--local-api") {
		plan.Args = append(plan.Args, "--local-api")
	}
	if !contains("--data-api") {
		plan.RecreateStats = true
		plan.Args = append(plan.Args, "--data-api", statsDir)
	}
	if !contains("--start-mining") {
		plan.Args = append(plan.Args, "--start-mining", threads)
	}
	if chain == "mini" {
		plan.Args = append(plan.Args, "--mini")
	}
	if !contains("--wallet") {
		plan.Args = append(plan.Args, "--wallet", wallet)
	}
	return plan
}
