// Package jobtext extracts structured work-order fields from free-text requests.
package jobtext

import (
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// Urgency levels assigned by the parser.
const (
	UrgencyEmergency = "emergency"
	UrgencyUrgent    = "urgent"
	UrgencyStandard  = "standard"
	UrgencyScheduled = "scheduled"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// TradeKeywords maps one trade to the words that indicate it.
type TradeKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Vocabulary is the keyword data the parser classifies with.
type Vocabulary struct {
	Trades        []TradeKeywords     `yaml:"trades"`
	Urgency       map[string][]string `yaml:"urgency"`
	FallbackTrade string              `yaml:"fallback_trade"`
}

// ParseVocabulary decodes a YAML keyword table.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	var v Vocabulary
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode keyword table: %w", err)
	}
	if len(v.Trades) == 0 {
		return nil, fmt.Errorf("keyword table has no trades")
	}
	if v.FallbackTrade == "" {
		v.FallbackTrade = "general"
	}
	return &v, nil
}

type matcher struct {
	name string
	re   *regexp.Regexp
}

// Parser classifies free text. It is safe for concurrent use.
type Parser struct {
	trades        []matcher
	urgency       []matcher
	fallbackTrade string
}

var (
	scheduleRe = regexp.MustCompile(
		`(?i)\b(?:(?:today|tonight|tomorrow|this weekend|next week|(?:this |next )?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))` +
			`(?:\s+(?:morning|afternoon|evening|night))?(?:\s+(?:at|around|by)\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?)?` +
			`|(?:at|around|by)\s+\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`,
	)
	addressRe = regexp.MustCompile(
		`\b\d{1,6}\s+(?:[A-Za-z0-9.']+\s+){0,4}?` +
			`(?i:St|Street|Ave|Avenue|Rd|Road|Blvd|Boulevard|Dr|Drive|Ln|Lane|Way|Ct|Court|Pl|Place|Pkwy|Parkway|Hwy|Highway|Cir|Circle|Ter|Terrace|Trl|Trail)\b\.?` +
			`(?:\s*,\s*[A-Za-z][A-Za-z .]*,\s*[A-Z]{2}\b)?(?:\s+\d{5}(?:-\d{4})?)?`,
	)
)

// NewParser builds a parser from v. A nil v uses the embedded table.
func NewParser(v *Vocabulary) *Parser {
	if v == nil {
		v = DefaultVocabulary()
	}
	p := &Parser{fallbackTrade: v.FallbackTrade}
	for _, t := range v.Trades {
		p.trades = append(p.trades, matcher{name: strings.ToLower(t.Name), re: wordsRegexp(t.Keywords)})
	}
	for _, level := range []string{UrgencyEmergency, UrgencyUrgent, UrgencyScheduled} {
		if words := v.Urgency[level]; len(words) > 0 {
			p.urgency = append(p.urgency, matcher{name: level, re: wordsRegexp(words)})
		}
	}
	return p
}

// DefaultVocabulary returns the embedded keyword table.
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(strings.NewReader(string(defaultKeywords)))
	if err != nil {
		panic(err) //nolint:forbidigo // embedded data is validated by tests
	}
	return v
}

func wordsRegexp(words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
	}
	// RE2 has no lookaround and \b does not fit "a/c", so edges are explicit.
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(` + strings.Join(quoted, "|") + `)(?:$|[^a-z0-9])`)
}

// Parse extracts trade, urgency, address, and schedule hint from raw text.
func (p *Parser) Parse(raw string) model.ParsedJob {
	text := strings.Join(strings.Fields(raw), " ")
	out := model.ParsedJob{Description: text}

	trade, keywords := p.classifyTrade(text)
	out.TradeNeeded = trade
	out.Keywords = keywords
	out.ScheduleHint = strings.TrimSpace(scheduleRe.FindString(text))
	out.Urgency = p.classifyUrgency(text, out.ScheduleHint)
	out.Address = strings.TrimRight(strings.TrimSpace(addressRe.FindString(text)), ",")
	return out
}

func (p *Parser) classifyTrade(text string) (string, []string) {
	best := ""
	bestHits := 0
	var bestWords []string
	for _, m := range p.trades {
		words := findAll(m.re, text)
		if len(words) > bestHits {
			best, bestHits, bestWords = m.name, len(words), words
		}
	}
	if best == "" {
		return p.fallbackTrade, nil
	}
	return best, bestWords
}

func (p *Parser) classifyUrgency(text, scheduleHint string) string {
	for _, m := range p.urgency {
		if m.re.MatchString(text) {
			return m.name
		}
	}
	if scheduleHint != "" {
		return UrgencyScheduled
	}
	return UrgencyStandard
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		w := strings.ToLower(m[1])
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
