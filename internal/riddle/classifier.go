// internal/riddle/classifier.go
//
// Question classification.
// A question is answered by the first rule that matches, in this order:
//   1. shipwreck keyword                          → affirmative
//   2. cannibalism keyword                        → affirmative
//   3. soup token and a realize-difference keyword → affirmative
//   4. negative keyword                           → negative
//   5. reason / why / cause-of-death marker       → irrelevant
// Anything else is unknown. Earlier rules win on conflict, so a question
// about a shipwreck accident is still answered "yes".

package riddle

// rule is one ranked entry of the classifier.
type rule struct {
	name    string
	match   func(normalized string) bool
	verdict Verdict
}

// buildRules returns the ranked rule list for j. Order is significant.
func (j *Judge) buildRules() []rule {
	return []rule{
		{name: "shipwreck", match: j.shipwreck.contains, verdict: Affirmative},
		{name: "cannibalism", match: j.cannibalism.contains, verdict: Affirmative},
		{name: "soup-differs", match: j.soupDiffers, verdict: Affirmative},
		{name: "negative", match: j.negative.contains, verdict: Negative},
		{name: "irrelevant", match: j.irrelevant.contains, verdict: Irrelevant},
	}
}

// classify runs the ranked rules over already-normalized text and returns
// the verdict with the name of the rule that fired ("" for Unknown).
func (j *Judge) classify(q string) (Verdict, string) {
	for _, r := range j.rules {
		if r.match(q) {
			return r.verdict, r.name
		}
	}
	return Unknown, ""
}

// soupDiffers is the shared third element: the soup is mentioned together
// with the realization that it was different.
func (j *Judge) soupDiffers(text string) bool {
	return containsToken(text, j.soupToken) && j.realize.contains(text)
}

// ClassifyQuestion normalizes a free-text question and answers it.
// It never fails; empty input is Unknown.
func (j *Judge) ClassifyQuestion(text string) Verdict {
	v, _ := j.classify(Normalize(text))
	return v
}

// Explain is ClassifyQuestion plus the name of the rule that decided it,
// for logs and debugging front-ends.
func (j *Judge) Explain(text string) (Verdict, string) {
	return j.classify(Normalize(text))
}
