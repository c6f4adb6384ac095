package client

import (
	"math"
	"sort"
	"sync"

	"tutorial-quiz-service/internal/domain"
)

// Progress is the persisted slice of a quiz session. Question content is not
// persisted; it can be large and is refetched on load.
type Progress struct {
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
	SelectedAnswers      map[string]string `json:"selectedAnswers"`
	SubmittedAnswers     []string          `json:"submittedAnswers"`
	QuizOver             bool              `json:"quizOver"`
}

// ProgressStore maps a session key to its own durable slot. Switching between
// (user, tutorial) pairs must never mix or clobber unrelated slots.
type ProgressStore interface {
	Load(key string) (Progress, bool, error)
	Save(key string, progress Progress) error
}

// SessionStore is the per-(user, tutorial) quiz state machine. All progress
// mutations go through it; reads elsewhere are derived, never stored twice.
// Every mutation persists synchronously — mutation frequency is
// human-interaction-paced, so correctness wins over throughput.
type SessionStore struct {
	namespace string
	progress  ProgressStore

	mu        sync.Mutex
	key       string
	questions []domain.Question
	index     int
	selected  map[string]string
	submitted map[string]struct{}
	quizOver  bool
}

func NewSessionStore(namespace string, progress ProgressStore) *SessionStore {
	return &SessionStore{
		namespace: namespace,
		progress:  progress,
		selected:  make(map[string]string),
		submitted: make(map[string]struct{}),
	}
}

// SessionKey is the durable slot name for a (user, tutorial) pair.
func (s *SessionStore) SessionKey(userID, tutorialID string) string {
	return s.namespace + "-" + userID + "-" + tutorialID
}

// Initialize switches the store to the session for (userID, tutorialID).
// Re-initializing with an unchanged key is a no-op, so re-renders never
// destroy progress. On a key switch, previously persisted progress for the
// new key is restored when present; otherwise everything resets to defaults.
func (s *SessionStore) Initialize(userID, tutorialID string) error {
	key := s.SessionKey(userID, tutorialID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.key {
		return nil
	}

	s.key = key
	s.questions = nil
	s.index = 0
	s.selected = make(map[string]string)
	s.submitted = make(map[string]struct{})
	s.quizOver = false

	saved, ok, err := s.progress.Load(key)
	if err != nil {
		// The slot is unreadable; the session continues from defaults.
		return err
	}
	if !ok {
		return nil
	}

	s.index = saved.CurrentQuestionIndex
	s.quizOver = saved.QuizOver
	for questionID, optionID := range saved.SelectedAnswers {
		s.selected[questionID] = optionID
	}
	for _, questionID := range saved.SubmittedAnswers {
		s.submitted[questionID] = struct{}{}
	}
	return nil
}

// SetQuestions replaces question content unconditionally (regeneration and
// retry flows) without touching progress fields.
func (s *SessionStore) SetQuestions(questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append([]domain.Question(nil), questions...)
}

// SelectAnswer records a selection for a question, overwriting any prior
// selection. Submitted questions are locked: the call is a no-op.
func (s *SessionStore) SelectAnswer(questionID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, locked := s.submitted[questionID]; locked {
		return nil
	}
	s.selected[questionID] = optionID
	return s.persistLocked()
}

// SubmitAnswer locks in the current selection for a question. Irreversible
// within the session.
func (s *SessionStore) SubmitAnswer(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted[questionID] = struct{}{}
	return s.persistLocked()
}

// NextQuestion advances the cursor, or ends the quiz when already on the last
// question. The index never leaves [0, len(questions)).
func (s *SessionStore) NextQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quizOver {
		return nil
	}
	if s.index < len(s.questions)-1 {
		s.index++
	} else {
		s.quizOver = true
	}
	return s.persistLocked()
}

// FinishQuiz force-ends the quiz regardless of position (timer expiry).
// Idempotent.
func (s *SessionStore) FinishQuiz() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quizOver {
		return nil
	}
	s.quizOver = true
	return s.persistLocked()
}

// Reset clears progress and questions back to defaults while keeping the
// active key ("try again").
func (s *SessionStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.index = 0
	s.selected = make(map[string]string)
	s.submitted = make(map[string]struct{})
	s.quizOver = false
	return s.persistLocked()
}

func (s *SessionStore) persistLocked() error {
	if s.key == "" {
		return nil
	}
	selected := make(map[string]string, len(s.selected))
	for questionID, optionID := range s.selected {
		selected[questionID] = optionID
	}
	submitted := make([]string, 0, len(s.submitted))
	for questionID := range s.submitted {
		submitted = append(submitted, questionID)
	}
	sort.Strings(submitted)
	return s.progress.Save(s.key, Progress{
		CurrentQuestionIndex: s.index,
		SelectedAnswers:      selected,
		SubmittedAnswers:     submitted,
		QuizOver:             s.quizOver,
	})
}

// CurrentQuestionIndex returns the cursor position.
func (s *SessionStore) CurrentQuestionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// QuizOver reports whether the session has ended.
func (s *SessionStore) QuizOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quizOver
}

// SelectedAnswer returns the recorded selection for a question.
func (s *SessionStore) SelectedAnswer(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	optionID, ok := s.selected[questionID]
	return optionID, ok
}

// Submitted reports whether a question's answer has been locked in.
func (s *SessionStore) Submitted(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.submitted[questionID]
	return ok
}

// Questions returns a copy of the loaded question content.
func (s *SessionStore) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Question(nil), s.questions...)
}

// Score derives the integer percentage of correctly answered questions from
// current state. Order-independent and pure; an empty quiz scores 0.
func (s *SessionStore) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.questions)
	if total == 0 {
		return 0
	}
	correct := 0
	for _, q := range s.questions {
		if s.selected[q.ID] == q.CorrectOptionID {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
