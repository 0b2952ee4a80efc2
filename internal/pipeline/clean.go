package pipeline

import (
	"regexp"
	"strings"
)

// Street suffix and directional abbreviations applied during address
// normalization. Longer phrases first so e.g. "AVENUE" wins over "AVE.".
var addressReplacements = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?i)\bAVENUE\b`), "AVE"},
	{regexp.MustCompile(`(?i)\bBOULEVARD\b`), "BLVD"},
	{regexp.MustCompile(`(?i)\bCIRCLE\b`), "CIR"},
	{regexp.MustCompile(`(?i)\bCOURT\b`), "CT"},
	{regexp.MustCompile(`(?i)\bDRIVE\b`), "DR"},
	{regexp.MustCompile(`(?i)\bLANE\b`), "LN"},
	{regexp.MustCompile(`(?i)\bPLACE\b`), "PL"},
	{regexp.MustCompile(`(?i)\bROAD\b`), "RD"},
	{regexp.MustCompile(`(?i)\bSTREET\b`), "ST"},
	{regexp.MustCompile(`(?i)\bTERRACE\b`), "TER"},
	{regexp.MustCompile(`(?i)\bNORTH\b`), "N"},
	{regexp.MustCompile(`(?i)\bSOUTH\b`), "S"},
	{regexp.MustCompile(`(?i)\bEAST\b`), "E"},
	{regexp.MustCompile(`(?i)\bWEST\b`), "W"},
	{regexp.MustCompile(`(?i)\bAPARTMENT\b`), "APT"},
	{regexp.MustCompile(`(?i)\bSUITE\b`), "STE"},
	// Trailing-dot variants of abbreviations already in short form
	{regexp.MustCompile(`(?i)\b(AVE|BLVD|CIR|CT|DR|LN|PL|RD|ST|TER|APT|STE|N|S|E|W)\.`), "$1"},
}

var whitespaceRE = regexp.MustCompile(`\s+`)
var zipRE = regexp.MustCompile(`^\d{5}`)

// NormalizeAddress produces the canonical form of a street address used
// as the deduplication key: collapsed whitespace, standardized suffix and
// directional abbreviations, uppercased.
func NormalizeAddress(address string) string {
	if address == "" {
		return ""
	}

	cleaned := whitespaceRE.ReplaceAllString(strings.TrimSpace(address), " ")
	for _, r := range addressReplacements {
		cleaned = r.pattern.ReplaceAllString(cleaned, r.repl)
	}
	return strings.ToUpper(cleaned)
}

// CleanZip extracts the 5-digit ZIP from ZIP or ZIP+4 input. Input that
// does not start with five digits is returned trimmed but otherwise as-is.
func CleanZip(zip string) string {
	trimmed := strings.TrimSpace(zip)
	if m := zipRE.FindString(trimmed); m != "" {
		return m
	}
	return trimmed
}
