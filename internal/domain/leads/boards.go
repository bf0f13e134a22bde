// Package leads holds the pure rules for staging license-board contractor leads.
package leads

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

//go:embed boards.yaml
var defaultBoards []byte

// Columns maps lead fields to the board's CSV headers.
type Columns struct {
	LicenseNumber  string `yaml:"license_number"`
	BusinessName   string `yaml:"business_name"`
	ContactName    string `yaml:"contact_name"`
	Classification string `yaml:"classification"`
	City           string `yaml:"city"`
	State          string `yaml:"state"`
	Phone          string `yaml:"phone"`
}

// Pattern maps a classification substring to a trade.
type Pattern struct {
	Pattern string `yaml:"pattern"`
	Trade   string `yaml:"trade"`
}

// Board describes one license board's export.
type Board struct {
	Columns      Columns           `yaml:"columns"`
	DefaultState string            `yaml:"default_state"`
	Codes        map[string]string `yaml:"codes"`
	Patterns     []Pattern         `yaml:"patterns"`
}

// Boards is the full classification table.
type Boards struct {
	Boards map[model.LeadSource]*Board `yaml:"boards"`
}

var codeSplitRe = regexp.MustCompile(`[|,;/\s]+`)

// ParseBoards decodes and validates a board table.
func ParseBoards(r io.Reader) (*Boards, error) {
	var b Boards
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode board table: %w", err)
	}
	for src, board := range b.Boards {
		if !src.Valid() {
			return nil, fmt.Errorf("unknown lead source %q", src)
		}
		if board == nil || board.Columns.LicenseNumber == "" {
			return nil, fmt.Errorf("board %s: license_number column is required", src)
		}
		if len(board.Codes) == 0 && len(board.Patterns) == 0 {
			return nil, fmt.Errorf("board %s: no classification rules", src)
		}
		codes := make(map[string]string, len(board.Codes))
		for code, trade := range board.Codes {
			codes[normalizeCode(code)] = strings.ToLower(trade)
		}
		board.Codes = codes
	}
	return &b, nil
}

// DefaultBoards returns the embedded board table.
func DefaultBoards() *Boards {
	b, err := ParseBoards(strings.NewReader(string(defaultBoards)))
	if err != nil {
		panic(err) //nolint:forbidigo // embedded data is validated by tests
	}
	return b
}

// LoadBoards reads a board table from path, or the embedded table when path is empty.
func LoadBoards(path string) (*Boards, error) {
	if path == "" {
		return DefaultBoards(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board table: %w", err)
	}
	defer f.Close()
	return ParseBoards(f)
}

// ErrUnknownSource is returned for a source missing from the table.
var ErrUnknownSource = errors.New("lead source not configured")

// Board returns the rules for src.
func (b *Boards) Board(src model.LeadSource) (*Board, error) {
	board, ok := b.Boards[src]
	if !ok {
		return nil, ErrUnknownSource
	}
	return board, nil
}

// Classify maps a classification field to a trade. Codes take precedence over patterns.
func (b *Board) Classify(classification string) (string, bool) {
	if len(b.Codes) > 0 {
		for _, code := range codeSplitRe.Split(classification, -1) {
			if trade, ok := b.Codes[normalizeCode(code)]; ok {
				return trade, true
			}
		}
	}
	lower := strings.ToLower(classification)
	for _, p := range b.Patterns {
		if p.Pattern != "" && strings.Contains(lower, strings.ToLower(p.Pattern)) {
			return strings.ToLower(p.Trade), true
		}
	}
	return "", false
}

// ToLead converts a raw row into a lead. ok is false when the row lacks a license number.
func (b *Board) ToLead(src model.LeadSource, row map[string]string) (model.Lead, bool) {
	get := func(col string) string {
		if col == "" {
			return ""
		}
		return strings.TrimSpace(row[col])
	}
	lead := model.Lead{
		Source:           src,
		LicenseNumber:    strings.ToUpper(get(b.Columns.LicenseNumber)),
		BusinessName:     get(b.Columns.BusinessName),
		ContactName:      get(b.Columns.ContactName),
		Classification:   get(b.Columns.Classification),
		City:             get(b.Columns.City),
		State:            strings.ToUpper(get(b.Columns.State)),
		Phone:            get(b.Columns.Phone),
		EnrichmentStatus: model.LeadEnrichmentPending,
	}
	if lead.State == "" {
		lead.State = b.DefaultState
	}
	if lead.BusinessName == "" {
		lead.BusinessName = lead.ContactName
	}
	return lead, lead.LicenseNumber != ""
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("-", "", " ", "").Replace(code)
}
