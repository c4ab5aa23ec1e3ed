package task

import "strings"

// Keyword sets used by Analyze. Matching is case-insensitive substring
// presence; each matched term counts once.
var (
	complexityTerms = []string{
		"complex", "advanced", "optimize", "architecture", "comprehensive",
		"multi-step", "integrate", "end-to-end", "scalable",
	}
	technicalTerms = []string{
		"api", "workflow", "node", "pipeline", "schema", "batch", "queue",
	}
	domainVocabTerms = []string{
		"ksampler", "sdxl", "lora", "vae", "checkpoint", "controlnet",
		"comfyui", "sampler", "latent", "upscale", "inpaint",
	}
	designTerms          = []string{"design", "architect", "strategy"}
	generationTerms      = []string{"json", "workflow", "generate"}
	structuredTerms      = []string{"json", "workflow", "format"}
	fastLatencyTerms     = []string{"quick", "fast", "asap", "briefly"}
	thoroughLatencyTerms = []string{"thorough", "detailed", "comprehensive", "in-depth"}
)

// domainRules is an ordered first-match rule list. Order is significant:
// earlier rules win even when later ones would also match.
var domainRules = []struct {
	domain   string
	triggers []string
}{
	{"workflow_design", []string{"workflow", "graph"}},
	{"code_generation", []string{"json", "code"}},
	{"explanation", []string{"explain", "what is"}},
	{"optimization", []string{"optimize", "improve"}},
	{"debugging", []string{"debug", "fix"}},
}

// DomainGeneral is the fallback when no domain rule matches.
const DomainGeneral = "general"

// Analyze converts a raw request into a Profile. It is a pure function of its
// inputs; highThreshold is the current high-complexity routing threshold and
// is used only to classify the task type. Analyze never fails: arbitrary text
// and malformed preferences degrade to defaults.
func Analyze(input string, history []Turn, prefs Preferences, highThreshold float64) Profile {
	lower := strings.ToLower(input)

	p := Profile{
		ContextUnits:          contextUnits(input, history),
		Complexity:            complexity(input, lower),
		Domain:                classifyDomain(lower),
		NeedsStructuredOutput: containsAny(lower, structuredTerms),
	}
	p.TaskType = classifyType(lower, p.Complexity, highThreshold)
	p.LatencyTarget = latencyTarget(lower, prefs)
	p.CostSensitivity = costSensitivity(prefs)

	if t, ok := prefs.taskType(); ok {
		p.TaskType = t
	}
	if prefs.Domain != "" {
		p.Domain = prefs.Domain
	}
	return p
}

// contextUnits estimates prompt-plus-history size. The divisor is a tunable
// size proxy, not a tokenizer.
func contextUnits(input string, history []Turn) int {
	units := ceilDiv(len(input), 4)
	for _, turn := range history {
		units += ceilDiv(len(turn.Content), 4)
	}
	return units
}

func complexity(input, lower string) float64 {
	var score float64

	switch {
	case len(input) > 1000:
		score += 20
	case len(input) > 500:
		score += 10
	}

	score += 5 * float64(countMatches(lower, complexityTerms))
	if strings.Count(input, "?") > 2 {
		score += 10
	}
	score += 3 * float64(countMatches(lower, technicalTerms))
	score += 4 * float64(countMatches(lower, domainVocabTerms))

	return clamp(score, 0, 100)
}

func classifyDomain(lower string) string {
	for _, rule := range domainRules {
		if containsAny(lower, rule.triggers) {
			return rule.domain
		}
	}
	return DomainGeneral
}

func classifyType(lower string, complexity, highThreshold float64) Type {
	if complexity > highThreshold {
		return TypeDeepReasoning
	}
	if containsAny(lower, designTerms) {
		return TypeDeepReasoning
	}
	if containsAny(lower, generationTerms) {
		return TypeCode
	}
	if strings.Contains(lower, "create") && complexity > 30 {
		return TypeCode
	}
	return TypeQuickInference
}

func latencyTarget(lower string, prefs Preferences) LatencyTarget {
	if target, ok := prefs.latencyTarget(); ok {
		return target
	}
	if containsAny(lower, fastLatencyTerms) {
		return LatencyFast
	}
	if containsAny(lower, thoroughLatencyTerms) {
		return LatencyThorough
	}
	return LatencyBalanced
}

func costSensitivity(prefs Preferences) CostSensitivity {
	if sensitivity, ok := prefs.costSensitivity(); ok {
		return sensitivity
	}
	return CostMedium
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func countMatches(s string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(s, term) {
			count++
		}
	}
	return count
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
