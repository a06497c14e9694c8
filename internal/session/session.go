// Package session owns the query forest of one editing session.
//
// A Session is the single writer of its forest. Edits arrive as Intents and
// are applied one at a time in arrival order; after each successful edit the
// text and structured outputs are re-derived and handed to the OnQueryChange
// callback. Edits that address a node that no longer exists are logged and
// dropped without touching the forest.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/solatis/querytree/internal/catalog"
	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/types"
)

// ChangeFunc receives the structured output after every change.
type ChangeFunc func(structured []query.StructuredNode)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOnQueryChange registers the change callback. It runs while the session
// is locked and must not call back into the session.
func WithOnQueryChange(fn ChangeFunc) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(gen types.IDGenerator) Option {
	return func(s *Session) { s.newID = gen }
}

// WithMetrics records edits on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithForest starts the session from f instead of a single default group.
func WithForest(f query.Forest) Option {
	return func(s *Session) {
		s.forest = f
		s.seeded = true
	}
}

// Session is an editing session over one query forest.
type Session struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	mutator  *query.Mutator
	newID    types.IDGenerator
	logger   *slog.Logger
	metrics  *Metrics
	onChange ChangeFunc

	forest     query.Forest
	seeded     bool
	text       string
	structured []query.StructuredNode
}

// New starts a session over cat. Unless WithForest is given, the forest
// starts with one root group holding one default rule. The callback, if any,
// is invoked once with the initial state.
func New(cat *catalog.Catalog, opts ...Option) *Session {
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Session{
		catalog: cat,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		s.newID = types.NewNodeID
	}
	s.mutator = query.NewMutator(cat, s.freshID)

	if !s.seeded {
		s.forest = s.mutator.AddRootGroup(nil)
	}
	s.derive()
	s.notify()
	return s
}

// Forest returns the current forest. The value is shared; callers must not
// modify it.
func (s *Session) Forest() query.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest
}

// Text returns the current text output.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Structured returns the current structured output.
func (s *Session) Structured() []query.StructuredNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.structured
}

// Apply applies one intent. Addressing misses are returned wrapping
// types.ErrNodeNotFound and leave the forest unchanged; callers may treat
// them as non-fatal.
func (s *Session) Apply(in Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := in.Validate(); err != nil {
		s.miss(in, err)
		return err
	}

	next, err := s.edit(in)
	if err != nil {
		s.miss(in, err)
		return err
	}

	s.forest = next
	s.derive()
	if s.metrics != nil {
		s.metrics.RecordEdit(in.Op)
	}
	s.logger.Debug("edit applied",
		slog.String("op", string(in.Op)),
		slog.String("target", in.Target.String()),
		slog.String("text", s.text),
	)
	s.notify()
	return nil
}

// ApplyAll applies intents in order, stopping at the first error that is
// not an addressing miss. It returns the number of intents applied.
func (s *Session) ApplyAll(intents []Intent) (int, error) {
	applied := 0
	for i, in := range intents {
		err := s.Apply(in)
		switch {
		case err == nil:
			applied++
		case isMiss(err):
			continue
		default:
			return applied, fmt.Errorf("intent %d (%s): %w", i+1, in.Op, err)
		}
	}
	return applied, nil
}

func (s *Session) edit(in Intent) (query.Forest, error) {
	f := s.forest
	switch in.Op {
	case OpAddRule:
		return s.mutator.AddRuleTo(f, in.Target)
	case OpAddGroup:
		return s.mutator.AddGroupTo(f, in.Target)
	case OpAddRootGroup:
		return s.mutator.AddRootGroup(f), nil
	case OpDelete:
		return query.DeleteNode(f, in.Target)
	case OpSetConnector:
		c, err := query.ParseConnector(in.Connector)
		if err != nil {
			return f, err
		}
		return query.SetNodeConnector(f, in.Target, c)
	case OpSetField:
		return s.mutator.ChangeRuleField(f, in.Target, in.Field)
	case OpSetOperator:
		return query.SetRuleOperator(f, in.Target, in.Operator)
	case OpSetValue:
		return s.setValue(f, in)
	case OpReplace:
		return s.replace(f, in)
	default:
		return f, fmt.Errorf("unknown op %q", in.Op)
	}
}

func (s *Session) setValue(f query.Forest, in Intent) (query.Forest, error) {
	n, ok := query.Find(f, in.Target)
	if !ok {
		return f, fmt.Errorf("%s: %w", in.Target, types.ErrNodeNotFound)
	}
	r, ok := n.(query.Rule)
	if !ok {
		return f, fmt.Errorf("%s: %w", in.Target, types.ErrNotARule)
	}
	v, err := s.catalog.CoerceFor(r.Field, in.Value)
	if err != nil {
		return f, fmt.Errorf("%s: %w", in.Target, err)
	}
	return query.SetRuleValue(f, in.Target, v)
}

func (s *Session) replace(f query.Forest, in Intent) (query.Forest, error) {
	n, err := query.NodeFromStructured(*in.Node)
	if err != nil {
		return f, err
	}
	next, err := query.ReplaceNode(f, n)
	if err != nil {
		return f, err
	}
	if err := query.Validate(next); err != nil {
		return f, fmt.Errorf("replace %s: %w", n.NodeID(), err)
	}
	return next, nil
}

// freshID draws ids from the generator until one is absent from the forest.
// Seeded forests and replaced subtrees bring ids the generator never issued.
// Called with s.mu held.
func (s *Session) freshID() types.NodeID {
	for {
		id := s.newID()
		if _, taken := query.Find(s.forest, id); !taken {
			return id
		}
	}
}

func (s *Session) derive() {
	s.text = query.ToText(s.forest)
	s.structured = query.ToStructured(s.forest)
	if s.metrics != nil {
		s.metrics.SetNodes(query.Count(s.forest))
	}
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange(s.structured)
	}
}

func (s *Session) miss(in Intent, err error) {
	if s.metrics != nil {
		s.metrics.RecordMiss(in.Op)
	}
	level := slog.LevelError
	if isMiss(err) {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, "edit rejected",
		slog.String("op", string(in.Op)),
		slog.String("target", in.Target.String()),
		slog.Any("error", err),
	)
}

func isMiss(err error) bool {
	return errors.Is(err, types.ErrNodeNotFound)
}
