// Package pipeline sequences the message-rewriting stages: heat shield,
// intent classification, subject detection, alignment tick, and template
// formatting.
package pipeline

// #region imports
import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/quietwire/reframe/go-pipeline/internal/alignment"
	"github.com/quietwire/reframe/go-pipeline/internal/intent"
	"github.com/quietwire/reframe/go-pipeline/internal/shield"
	"github.com/quietwire/reframe/go-pipeline/internal/subject"
	"github.com/quietwire/reframe/go-pipeline/internal/template"
)

// #endregion imports

// #region pipeline

// Pipeline holds the structures shared by every session: the template table,
// the subject tracker, and the heat shield. Each carries its own lock, so
// sessions on different conversations may process concurrently.
type Pipeline struct {
	templates *template.Table
	tracker   *subject.Tracker
	shield    *shield.Shield
}

// New creates a Pipeline. Any nil argument gets a default instance.
func New(templates *template.Table, tracker *subject.Tracker, sh *shield.Shield) *Pipeline {
	if templates == nil {
		templates = template.New()
	}
	if tracker == nil {
		tracker = subject.NewTracker()
	}
	if sh == nil {
		sh = shield.New(nil)
	}
	return &Pipeline{templates: templates, tracker: tracker, shield: sh}
}

// Tracker returns the shared subject tracker.
func (p *Pipeline) Tracker() *subject.Tracker { return p.tracker }

// Shield returns the shared heat shield.
func (p *Pipeline) Shield() *shield.Shield { return p.shield }

// #endregion pipeline

// #region session-config

// SessionConfig selects the conversational context for one session.
type SessionConfig struct {
	Branch    template.Branch
	Padding   template.Padding
	Recipient string
	Alignment alignment.Config
	Primary   float64 // starting primary scalar, 0 → default
	Offset    float64 // fixed offset, 0 → default 0.1
	Seed      int64   // RNG seed, 0 → time-derived
}

const (
	defaultPrimary = 1.0
	defaultOffset  = 0.1
)

// #endregion session-config

// #region session

// Session is the per-conversation processing context. Alignment state is
// session-scoped, never process-wide; a Session processes its messages
// sequentially.
type Session struct {
	id        string
	pipe      *Pipeline
	branch    template.Branch
	padding   template.Padding
	recipient string
	monitor   *alignment.Monitor
	state     alignment.State
	flags     alignment.Flags
	turnCount int
}

// NewSession creates a session with its own alignment state and monitor.
func (p *Pipeline) NewSession(cfg SessionConfig) *Session {
	if cfg.Branch == "" {
		cfg.Branch = template.BranchFamilyFriends
	}
	if cfg.Padding == "" {
		cfg.Padding = template.PaddingMedium
	}
	if cfg.Primary == 0 {
		cfg.Primary = defaultPrimary
	}
	if cfg.Offset == 0 {
		cfg.Offset = defaultOffset
	}
	if cfg.Alignment == (alignment.Config{}) {
		cfg.Alignment = alignment.DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Session{
		id:        uuid.New().String(),
		pipe:      p,
		branch:    cfg.Branch,
		padding:   cfg.Padding,
		recipient: cfg.Recipient,
		monitor:   alignment.NewMonitor(cfg.Alignment, rand.New(rand.NewSource(seed))),
		state:     alignment.NewState(cfg.Primary, cfg.Offset),
		flags:     alignment.DefaultFlags(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current alignment state.
func (s *Session) State() alignment.State { return s.state }

// Flags returns the current quantum flags.
func (s *Session) Flags() alignment.Flags { return s.flags }

// RestoreAlignment replaces the session's alignment state and flags, used
// when resuming a persisted session.
func (s *Session) RestoreAlignment(st alignment.State, flags alignment.Flags) {
	s.state = st
	s.flags = flags
}

// #endregion session

// #region result

// Result is the output of processing one message.
type Result struct {
	Response string
	Report   Report
}

// Report is the per-turn diagnostic exposed to collaborators.
type Report struct {
	SessionID      string
	TurnID         string
	Filtered       string
	Subject        string
	SubjectChanged bool
	ResponseFormat template.ResponseFormat
	FormatTrace    string
	Alignment      alignment.State
	Integrity      alignment.IntegrityReport
	Flags          alignment.Flags
	Jumped         bool // jump domain was re-selected this turn
	Shield         shield.Report
	Metadata       intent.Metadata
}

// #endregion result

// #region process

// Process runs one message through the full sequence and returns the
// reformatted text. Every stage degrades gracefully: there is no input that
// aborts processing.
func (s *Session) Process(message string) Result {
	s.turnCount++
	turnID := fmt.Sprintf("%s-turn-%d", s.id[:8], s.turnCount)

	filtered := s.pipe.shield.Filter(message)
	class := intent.Classify(filtered)

	subj := s.pipe.tracker.Detect(filtered)
	changed := s.pipe.tracker.Changed()

	tick := s.monitor.Tick(s.state, s.flags)
	s.state, s.flags = tick.State, tick.Flags

	format := chooseFormat(class, changed, s.branch)
	params := map[string]string{
		"recipient": s.recipient,
		"subject":   subj,
	}
	content := filtered
	if content == "" {
		content = message
	}
	response, res := s.pipe.templates.FormatTraced(format, s.branch, s.padding, content, params)

	log.Printf("[PIPE] turn=%s format=%s subject=%q changed=%v resolve=%s",
		turnID, format, subj, changed, res.Trace)

	return Result{
		Response: response,
		Report: Report{
			SessionID:      s.id,
			TurnID:         turnID,
			Filtered:       filtered,
			Subject:        subj,
			SubjectChanged: changed,
			ResponseFormat: format,
			FormatTrace:    res.Trace,
			Alignment:      s.state,
			Integrity:      s.monitor.CheckIntegrity(s.state),
			Flags:          s.flags,
			Jumped:         tick.Jumped,
			Shield:         s.pipe.shield.Report(),
			Metadata:       class.Metadata,
		},
	}
}

// chooseFormat derives the response format from classifier output and the
// subject-change flag: questions win, then topic changes, then the branch's
// steady-state format.
func chooseFormat(class intent.Classification, subjectChanged bool, branch template.Branch) template.ResponseFormat {
	if class.HasQuestion() {
		return template.FormatDirect
	}
	if subjectChanged {
		if branch == template.BranchProfessional {
			return template.FormatProfessionalTopicChange
		}
		return template.FormatTopicChange
	}
	if branch == template.BranchProfessional {
		return template.FormatFormal
	}
	return template.FormatCasual
}

// #endregion process

// #region diagnostics

// Diagnostics reports the session's alignment state without processing a
// message. Read-only.
func (s *Session) Diagnostics() Report {
	return Report{
		SessionID: s.id,
		Alignment: s.state,
		Integrity: s.monitor.CheckIntegrity(s.state),
		Flags:     s.flags,
		Shield:    s.pipe.shield.Report(),
	}
}

// #endregion diagnostics
