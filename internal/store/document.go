package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/challenge"
)

// ErrInvalidDocument is returned for input that is not JSON or has no
// participants object.
var ErrInvalidDocument = errors.New("invalid progress document")

// Document is the whole persisted state. The JSON shape is shared by storage
// and backup files.
type Document struct {
	Participants map[string]*ParticipantData `json:"participants"`
	Meta         Meta                        `json:"meta"`
}

type ParticipantData struct {
	DailySteps map[string]int `json:"dailySteps"`
	Notes      string         `json:"notes"`
}

type Meta struct {
	LastUser string `json:"lastUser"`
}

// NewDocument returns a document with every participant and every day at zero.
func NewDocument(roster challenge.Roster, days []calendar.Day) *Document {
	doc := &Document{Participants: make(map[string]*ParticipantData, len(roster))}
	for _, p := range roster {
		doc.Participants[p.Username] = newParticipantData(days)
	}
	return doc
}

func newParticipantData(days []calendar.Day) *ParticipantData {
	steps := make(map[string]int, len(days))
	for _, d := range days {
		steps[d.ISO] = 0
	}
	return &ParticipantData{DailySteps: steps}
}

// Steps returns every participant's day map keyed by username.
func (d *Document) Steps() map[string]map[string]int {
	out := make(map[string]map[string]int, len(d.Participants))
	for u, p := range d.Participants {
		out[u] = p.DailySteps
	}
	return out
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Participants: make(map[string]*ParticipantData, len(d.Participants)),
		Meta:         d.Meta,
	}
	for u, p := range d.Participants {
		steps := make(map[string]int, len(p.DailySteps))
		for k, v := range p.DailySteps {
			steps[k] = v
		}
		c.Participants[u] = &ParticipantData{DailySteps: steps, Notes: p.Notes}
	}
	return c
}

// Marshal encodes the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// ParseDocument decodes data and reconciles it against the roster and days:
// missing participants and days become zero, unknown ones are dropped, counts
// are coerced to non-negative integers.
func ParseDocument(data []byte, roster challenge.Roster, days []calendar.Day) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	participants, ok := raw["participants"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing participants", ErrInvalidDocument)
	}

	doc := NewDocument(roster, days)
	if meta, ok := raw["meta"].(map[string]any); ok {
		if u, ok := meta["lastUser"].(string); ok {
			doc.Meta.LastUser = u
		}
	}

	for _, p := range roster {
		incoming, ok := participants[p.Username].(map[string]any)
		if !ok {
			continue
		}
		out := doc.Participants[p.Username]
		if steps, ok := incoming["dailySteps"].(map[string]any); ok {
			for _, d := range days {
				if v, ok := steps[d.ISO]; ok {
					out.DailySteps[d.ISO] = CoerceSteps(v)
				}
			}
		}
		if notes, ok := incoming["notes"].(string); ok {
			out.Notes = notes
		}
	}
	return doc, nil
}

// CoerceSteps turns a decoded JSON value into a non-negative step count.
func CoerceSteps(v any) int {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || x <= 0 {
			return 0
		}
		if x >= math.MaxInt {
			return math.MaxInt
		}
		return int(x)
	case string:
		return ParseSteps(x)
	}
	return 0
}

// ParseSteps reads a leading base-10 integer from s, ignoring surrounding
// whitespace and any trailing text. Anything unparsable is 0 and negatives are
// clamped to 0.
func ParseSteps(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of range: a leading minus means hugely negative.
		if s[0] == '-' {
			return 0
		}
		return math.MaxInt
	}
	return max(0, n)
}

// LoadDocument reads the document stored under key. A missing or unreadable
// document is replaced by a fresh one, which is saved immediately.
func (s *Store) LoadDocument(key string, roster challenge.Roster, days []calendar.Day) (*Document, error) {
	stored, err := s.GetValue(key)
	switch {
	case errors.Is(err, ErrNotFound):
		log.WithField("key", key).Info("no saved progress, starting fresh")
	case err != nil:
		return nil, err
	default:
		doc, perr := ParseDocument([]byte(stored), roster, days)
		if perr == nil {
			return doc, nil
		}
		log.WithError(perr).WithField("key", key).Warn("failed to parse stored data, resetting")
	}

	doc := NewDocument(roster, days)
	if err := s.SaveDocument(key, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SaveDocument overwrites the document stored under key.
func (s *Store) SaveDocument(key string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return s.SetValue(key, string(data))
}
