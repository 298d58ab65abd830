// Package session holds the in-memory state of one running app: who is signed
// in and the whole progress document. Every mutation is written back through
// a Saver before it returns.
package session

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sadopc/woolywalk/internal/auth"
	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/stats"
	"github.com/sadopc/woolywalk/internal/store"
)

var (
	ErrNotAuthenticated = errors.New("nobody is signed in")
	ErrUnknownDay       = errors.New("date is outside the challenge")
)

// Saver persists the whole document.
type Saver interface {
	SaveDocument(key string, doc *store.Document) error
}

// Options describe the fixed parts of a session.
type Options struct {
	Roster     challenge.Roster
	Window     challenge.Window
	Checker    auth.Checker
	StorageKey string
	WeeklyGoal int
}

type Session struct {
	opts  Options
	days  []calendar.Day
	weeks []calendar.Week
	saver Saver

	doc    *store.Document
	active string
}

// New builds the calendar once and wraps doc. A nil doc starts fresh.
func New(opts Options, doc *store.Document, saver Saver) *Session {
	if opts.WeeklyGoal <= 0 {
		opts.WeeklyGoal = stats.DefaultWeeklyGoal
	}
	days := calendar.Build(opts.Window.Start, opts.Window.End)
	if doc == nil {
		doc = store.NewDocument(opts.Roster, days)
	}
	return &Session{
		opts:  opts,
		days:  days,
		weeks: calendar.Chunk(days),
		saver: saver,
		doc:   doc,
	}
}

// Days returns the challenge calendar. Callers must not modify it.
func (s *Session) Days() []calendar.Day     { return s.days }
func (s *Session) Weeks() []calendar.Week   { return s.weeks }
func (s *Session) Roster() challenge.Roster { return s.opts.Roster }
func (s *Session) Window() challenge.Window { return s.opts.Window }
func (s *Session) WeeklyGoal() int          { return s.opts.WeeklyGoal }

// Document returns the live document. Callers must not modify it.
func (s *Session) Document() *store.Document { return s.doc }

// Active returns the signed-in participant, if any.
func (s *Session) Active() (challenge.Participant, bool) {
	if s.active == "" {
		return challenge.Participant{}, false
	}
	return s.opts.Roster.Find(s.active)
}

// LastUser is the username remembered from the previous sign-in.
func (s *Session) LastUser() string {
	return s.doc.Meta.LastUser
}

// Login checks credentials, remembers the username and saves.
func (s *Session) Login(username, password string) (challenge.Participant, error) {
	p, err := auth.Authenticate(s.opts.Roster, s.opts.Checker, username, password)
	if err != nil {
		log.WithField("username", auth.NormalizeUsername(username)).WithError(err).Info("sign-in refused")
		return challenge.Participant{}, err
	}
	s.active = p.Username
	s.doc.Meta.LastUser = p.Username
	if err := s.save(); err != nil {
		return p, err
	}
	log.WithField("username", p.Username).Info("signed in")
	return p, nil
}

// Resume signs the remembered user back in without a password. It reports
// false when there is no remembered user or they left the roster.
func (s *Session) Resume() bool {
	u := s.doc.Meta.LastUser
	if u == "" {
		return false
	}
	if _, ok := s.opts.Roster.Find(u); !ok {
		return false
	}
	s.active = u
	return true
}

func (s *Session) Logout() {
	s.active = ""
}

// SetSteps parses raw and stores it as the signed-in participant's count for
// the day. Unparsable input becomes 0 and negatives are clamped to 0.
func (s *Session) SetSteps(iso, raw string) (int, error) {
	return s.setSteps(iso, store.ParseSteps(raw))
}

// SetStepCount stores an already numeric count, clamped to >= 0.
func (s *Session) SetStepCount(iso string, n int) (int, error) {
	return s.setSteps(iso, max(0, n))
}

func (s *Session) setSteps(iso string, n int) (int, error) {
	data, err := s.activeData()
	if err != nil {
		return 0, err
	}
	if _, ok := calendar.Index(s.days, iso); !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDay, iso)
	}
	data.DailySteps[iso] = n
	if err := s.save(); err != nil {
		return n, err
	}
	log.WithFields(log.Fields{"username": s.active, "date": iso, "steps": n}).Debug("steps logged")
	return n, nil
}

// Steps returns the signed-in participant's count for the day.
func (s *Session) Steps(iso string) int {
	data, err := s.activeData()
	if err != nil {
		return 0
	}
	return data.DailySteps[iso]
}

func (s *Session) Notes() string {
	data, err := s.activeData()
	if err != nil {
		return ""
	}
	return data.Notes
}

func (s *Session) SetNotes(notes string) error {
	data, err := s.activeData()
	if err != nil {
		return err
	}
	data.Notes = notes
	return s.save()
}

// Import replaces the whole document with a normalized copy of data. On any
// parse error the current state is left untouched.
func (s *Session) Import(data []byte) error {
	doc, err := store.ParseDocument(data, s.opts.Roster, s.days)
	if err != nil {
		log.WithError(err).Warn("import rejected")
		return err
	}
	return s.Replace(doc)
}

// Replace swaps in an already normalized document and saves it. The active
// user is signed out if they are no longer part of it.
func (s *Session) Replace(doc *store.Document) error {
	s.doc = doc
	if _, ok := s.doc.Participants[s.active]; s.active != "" && !ok {
		s.active = ""
	}
	if err := s.save(); err != nil {
		return err
	}
	log.Info("progress imported")
	return nil
}

// Export returns the document as indented JSON.
func (s *Session) Export() ([]byte, error) {
	return s.doc.Marshal()
}

func (s *Session) activeData() (*store.ParticipantData, error) {
	if s.active == "" {
		return nil, ErrNotAuthenticated
	}
	data, ok := s.doc.Participants[s.active]
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return data, nil
}

func (s *Session) save() error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.SaveDocument(s.opts.StorageKey, s.doc); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Phase resolves the challenge phase at now.
func (s *Session) Phase(now time.Time) challenge.Phase {
	return challenge.ResolvePhase(s.opts.Window, now)
}
