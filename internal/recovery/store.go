// Package recovery keeps hashed answers to security questions. A verified
// set of answers lets the application start a password change; it never
// unlocks the vault by itself.
package recovery

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/local-vault/internal/crypto"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/storage"

	"github.com/rs/zerolog"
)

const (
	// AnswersKey is the storage slot holding the recovery set.
	AnswersKey = "security_answers"

	// SetSize is the number of answers in a recovery set.
	SetSize = 3
)

var (
	ErrInvalidCount      = errors.New("invalid number of answers")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrDuplicateQuestion = errors.New("duplicate question")
	ErrNoRecoverySet     = errors.New("no recovery set found")
)

// Store persists the recovery set.
type Store struct {
	store storage.Store
	log   zerolog.Logger
}

// NewStore creates a recovery Store persisting to store.
func NewStore(store storage.Store, log zerolog.Logger) *Store {
	return &Store{
		store: store,
		log:   log.With().Str("component", "recovery").Logger(),
	}
}

// StoreAnswers validates and hashes exactly three answers and replaces any
// existing set with them.
func (s *Store) StoreAnswers(answers []model.RecoveryAnswer) error {
	if len(answers) != SetSize {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidCount, len(answers), SetSize)
	}

	seen := make(map[string]struct{}, len(answers))
	set := make([]model.HashedAnswer, 0, len(answers))
	for _, a := range answers {
		if _, ok := LookupQuestion(a.QuestionID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, a.QuestionID)
		}
		if _, dup := seen[a.QuestionID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateQuestion, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}

		set = append(set, model.HashedAnswer{
			QuestionID:   a.QuestionID,
			HashedAnswer: crypto.HashAnswer(a.Answer),
		})
	}

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal recovery set: %w", err)
	}
	if err := s.store.Set(AnswersKey, data); err != nil {
		return fmt.Errorf("failed to store recovery set: %w", err)
	}

	s.log.Info().Msg("recovery set stored")
	return nil
}

// VerifyAnswers reports whether every submitted answer matches the stored
// set. It returns false for every failure, including a missing set, and
// never reveals which answer was wrong.
func (s *Store) VerifyAnswers(answers []model.RecoveryAnswer) bool {
	set, err := s.load()
	if err != nil {
		return false
	}
	if len(answers) != len(set) {
		return false
	}

	stored := make(map[string]string, len(set))
	for _, h := range set {
		stored[h.QuestionID] = h.HashedAnswer
	}

	matched := 1
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		want, ok := stored[a.QuestionID]
		if !ok {
			return false
		}
		if _, dup := seen[a.QuestionID]; dup {
			return false
		}
		seen[a.QuestionID] = struct{}{}

		// Compare every answer so timing does not depend on which one is wrong
		matched &= subtle.ConstantTimeCompare([]byte(crypto.HashAnswer(a.Answer)), []byte(want))
	}

	if matched != 1 {
		s.log.Warn().Msg("recovery answers did not match")
		return false
	}
	return true
}

// GetQuestions returns the questions of the stored set without answers, or
// ErrNoRecoverySet.
func (s *Store) GetQuestions() ([]model.Question, error) {
	set, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]model.Question, 0, len(set))
	for _, h := range set {
		q, ok := LookupQuestion(h.QuestionID)
		if !ok {
			q = model.Question{ID: h.QuestionID}
		}
		out = append(out, q)
	}
	return out, nil
}

// Exists reports whether a recovery set is stored.
func (s *Store) Exists() bool {
	_, err := s.store.Get(AnswersKey)
	return err == nil
}

// Clear deletes the stored set. Clearing an absent set is not an error.
func (s *Store) Clear() error {
	if err := s.store.Remove(AnswersKey); err != nil {
		return fmt.Errorf("failed to clear recovery set: %w", err)
	}
	return nil
}

func (s *Store) load() ([]model.HashedAnswer, error) {
	data, err := s.store.Get(AnswersKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoRecoverySet
		}
		return nil, fmt.Errorf("failed to load recovery set: %w", err)
	}

	var set []model.HashedAnswer
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recovery set: %w", err)
	}
	if len(set) == 0 {
		return nil, ErrNoRecoverySet
	}
	return set, nil
}
