package classifier

import (
	"regexp"
	"strings"
)

// compiledTerm holds either a plain substring or a compiled regex.
type compiledTerm struct {
	plain string         // lowercased substring (used when regex is nil)
	regex *regexp.Regexp // compiled regex (nil for plain terms)
}

func regexTerm(pattern string) compiledTerm {
	return compiledTerm{regex: regexp.MustCompile("(?i)" + pattern)}
}

func plainTerm(s string) compiledTerm {
	return compiledTerm{plain: strings.ToLower(s)}
}

func (t compiledTerm) matches(titleLower string) bool {
	if t.regex != nil {
		return t.regex.MatchString(titleLower)
	}
	return strings.Contains(titleLower, t.plain)
}

func matchesAny(titleLower string, terms []compiledTerm) bool {
	for _, t := range terms {
		if t.matches(titleLower) {
			return true
		}
	}
	return false
}

// personalTerms are the "definitely personal" markers. They are evaluated
// before any work signal: a personal match wins even when a work pattern
// would also match (e.g. "Dog walk - personal errand").
var personalTerms = []compiledTerm{
	// Administrative / business-of-the-business entries
	plainTerm("invoice"),
	plainTerm("taxes"),
	plainTerm("bookkeeping"),
	plainTerm("paperwork"),
	plainTerm("admin"),
	// Explicit day-off markers
	regexTerm(`\bday\s*off\b`),
	regexTerm(`\bno\s+(work|visits|clients)\b`),
	plainTerm("unavailable"),
	plainTerm("out of town"),
	// Personal appointments
	plainTerm("doctor"),
	plainTerm("dentist"),
	plainTerm("dr appt"),
	plainTerm("dr."),
	plainTerm("therapy"),
	plainTerm("haircut"),
	plainTerm("personal"),
	// Blocked / holiday
	plainTerm("blocked"),
	plainTerm("holiday"),
	plainTerm("vacation"),
	// Meals and social
	plainTerm("breakfast"),
	plainTerm("lunch"),
	plainTerm("dinner"),
	plainTerm("brunch"),
	plainTerm("coffee with"),
	plainTerm("birthday"),
	plainTerm("party"),
	plainTerm("wedding"),
	// Travel
	plainTerm("flight"),
	plainTerm("airport"),
	plainTerm("road trip"),
	// Entertainment and self-care
	plainTerm("concert"),
	plainTerm("movie"),
	plainTerm("gym"),
	plainTerm("yoga"),
	plainTerm("massage"),
	plainTerm("self care"),
	plainTerm("self-care"),
}

// workSignal identifies which work pattern fired; the classifier uses the
// set of fired signals to derive service type and duration.
type workSignal int

const (
	signalDuration workSignal = iota
	signalMeetGreet
	signalHousesit
	signalOvernight
	signalNailTrim
	signalWalk
	signalDropIn
	signalLeadingName
)

// workRule pairs a signal with its pattern. Rules are evaluated in order;
// all matching signals are collected because type extraction needs the
// full set, not just the first hit.
type workRule struct {
	signal workSignal
	term   compiledTerm
}

// durationTokenRe extracts the explicit visit-length token (15/20/30/45/60).
var durationTokenRe = regexp.MustCompile(`\b(15|20|30|45|60)\b`)

// leadingNameRe matches a "Name - " / "Name | " / "Name @ " prefix, which by
// itself is a strong signal that the entry names a client.
var leadingNameRe = regexp.MustCompile(`^\s*[^-–—|@]+\s[-–—|@]\s`)

var workRules = []workRule{
	{signalDuration, compiledTerm{regex: durationTokenRe}},
	{signalMeetGreet, regexTerm(`\bm\s*(&|\+|and)?\s*g\b|meet\s*(&|\+|and)?\s*greet`)},
	{signalHousesit, regexTerm(`\bhs\b|house\s*-?\s*sit`)},
	{signalOvernight, regexTerm(`\bovernight\b|\bo/n\b`)},
	{signalNailTrim, regexTerm(`\bnails?\s*(trim)?\b`)},
	{signalWalk, regexTerm(`\bwalks?\b`)},
	{signalDropIn, regexTerm(`\bdrop\s*-?\s*ins?\b|\bvisits?\b`)},
	{signalLeadingName, compiledTerm{regex: leadingNameRe}},
}

// evaluateWorkRules returns the set of work signals that fire for a title.
func evaluateWorkRules(title string) map[workSignal]bool {
	titleLower := strings.ToLower(title)
	fired := make(map[workSignal]bool)
	for _, r := range workRules {
		if r.term.matches(titleLower) {
			fired[r.signal] = true
		}
	}
	return fired
}

// clientSeparators are the separators tried, in order, when pulling a client
// label off the front of a title.
var clientSeparators = []string{" - ", " – ", " — ", " | ", " @ "}
