// Package tui is the terminal front end: home, set list, set editor, study
// and quiz views over the local repository.
package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/progress"
	"github.com/andrewpaige1/flashlearn/quiz"
	"github.com/andrewpaige1/flashlearn/storage"
	"github.com/andrewpaige1/flashlearn/study"
)

// View identifies the screen on display.
type View int

const (
	ViewHome View = iota
	ViewSets
	ViewEditor
	ViewStudy
	ViewQuiz
)

type Config struct {
	Repo          *storage.Repository
	Recorder      *progress.Recorder
	QuizTimeLimit time.Duration
	Now           func() time.Time
	NewRand       func() *rand.Rand
}

// Model is the root bubbletea model.
type Model struct {
	// Services
	ctx       context.Context
	repo      *storage.Repository
	recorder  *progress.Recorder
	quizLimit time.Duration
	now       func() time.Time
	newRand   func() *rand.Rand

	// Loaded data
	sets     []models.FlashcardSet
	progress models.UserProgress
	loaded   bool

	// UI state
	view   View
	cursor int
	width  int
	height int

	// Editor
	editor editor

	// Runners
	study   *study.Runner
	quiz    *quiz.Runner
	quizGen int

	// Status
	statusText     string
	errorMessage   string
	errorTransient bool
}

// New creates a model on the home view.
func New(cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewRand == nil {
		cfg.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if cfg.QuizTimeLimit <= 0 {
		cfg.QuizTimeLimit = quiz.DefaultTimeLimit
	}
	return Model{
		ctx:        context.Background(),
		repo:       cfg.Repo,
		recorder:   cfg.Recorder,
		quizLimit:  cfg.QuizTimeLimit,
		now:        cfg.Now,
		newRand:    cfg.NewRand,
		view:       ViewHome,
		statusText: "Loading...",
	}
}

// Init loads the sets and progress.
func (m Model) Init() tea.Cmd {
	return loadCmd(m.ctx, m.repo)
}

func loadCmd(ctx context.Context, repo *storage.Repository) tea.Cmd {
	return func() tea.Msg {
		return DataLoadedMsg{Sets: repo.FlashcardSets(ctx), Progress: repo.UserProgress(ctx)}
	}
}

func quizTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return QuizTickMsg{Time: t, Gen: gen}
	})
}

func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case DataLoadedMsg:
		m.sets = msg.Sets
		m.progress = msg.Progress
		m.loaded = true
		m.statusText = ""
		if m.cursor >= len(m.sets) {
			m.cursor = max(0, len(m.sets)-1)
		}
		if m.view == ViewEditor && m.editor.setID != "" {
			if set, ok := m.setByID(m.editor.setID); ok {
				m.editor.set = set
				m.editor.clampSelection()
			}
		}
		return m, nil

	case QuizTickMsg:
		if m.view != ViewQuiz || m.quiz == nil || msg.Gen != m.quizGen || m.quiz.IsComplete() {
			return m, nil
		}
		if _, err := m.quiz.Tick(m.ctx, m.now()); err != nil {
			return m.fail(err)
		}
		if m.quiz.ShowingResult() {
			return m, nil
		}
		return m, quizTickCmd(m.quizGen)

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// fail shows err in the status line until the next message clears it.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.errorMessage = err.Error()
	m.errorTransient = true
	return m, clearTransientErrorCmd()
}

func (m Model) setByID(id string) (models.FlashcardSet, bool) {
	for _, s := range m.sets {
		if s.ID == id {
			return s, true
		}
	}
	return models.FlashcardSet{}, false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m, tea.Quit
	}
	switch m.view {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewSets:
		return m.handleSetsKey(msg)
	case ViewEditor:
		return m.handleEditorKey(msg)
	case ViewStudy:
		return m.handleStudyKey(msg)
	case ViewQuiz:
		return m.handleQuizKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit
	case KeySets, KeyEnter:
		m.view = ViewSets
	case KeyNew:
		m.view = ViewEditor
		m.editor = newSetEditor()
	}
	return m, nil
}

func (m Model) handleSetsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit
	case KeyBack:
		m.view = ViewHome
	case KeyUp, KeyK:
		if m.cursor > 0 {
			m.cursor--
		}
	case KeyDown, KeyJ:
		if m.cursor < len(m.sets)-1 {
			m.cursor++
		}
	case KeyNew:
		m.view = ViewEditor
		m.editor = newSetEditor()
	case KeyEdit:
		if set, ok := m.selectedSet(); ok {
			m.view = ViewEditor
			m.editor = cardEditor(set)
		}
	case KeyStudy, KeyEnter:
		return m.startStudy()
	case KeyQuiz:
		return m.startQuiz()
	}
	return m, nil
}

func (m Model) selectedSet() (models.FlashcardSet, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sets) {
		return models.FlashcardSet{}, false
	}
	return m.sets[m.cursor], true
}

func (m Model) startStudy() (tea.Model, tea.Cmd) {
	set, ok := m.selectedSet()
	if !ok {
		return m, nil
	}
	r, err := study.NewRunner(set, m.repo, m.recorder, study.Config{Now: m.now})
	if errors.Is(err, study.ErrEmptySet) {
		m.errorMessage = "No cards to study. This set doesn't have any flashcards yet."
		m.errorTransient = true
		return m, clearTransientErrorCmd()
	}
	if err != nil {
		return m.fail(err)
	}
	m.study = r
	m.view = ViewStudy
	return m, nil
}

func (m Model) startQuiz() (tea.Model, tea.Cmd) {
	set, ok := m.selectedSet()
	if !ok {
		return m, nil
	}
	r, err := quiz.NewRunner(set, m.repo, m.recorder, quiz.Config{
		TimeLimit: m.quizLimit,
		Rand:      m.newRand(),
		Now:       m.now,
	})
	if errors.Is(err, quiz.ErrEmptySet) {
		m.errorMessage = "No cards available. This set doesn't have enough cards for a quiz."
		m.errorTransient = true
		return m, clearTransientErrorCmd()
	}
	if err != nil {
		return m.fail(err)
	}
	m.quiz = r
	m.quizGen++
	m.view = ViewQuiz
	return m, quizTickCmd(m.quizGen)
}

func (m Model) handleStudyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.study
	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit
	case KeyBack:
		m.view = ViewSets
		m.study = nil
		return m, loadCmd(m.ctx, m.repo)
	case KeyRestart:
		if r.IsComplete() {
			r.Reset()
		}
		return m, nil
	}
	if r.IsComplete() {
		return m, nil
	}

	var err error
	switch msg.String() {
	case KeyFlip, KeyEnter:
		r.Flip()
	case KeyCorrect:
		if r.Flipped() {
			err = r.Answer(m.ctx, true)
		}
	case KeyIncorrect:
		if r.Flipped() {
			err = r.Answer(m.ctx, false)
		}
	case KeySkip:
		err = r.Skip(m.ctx)
	}
	if err != nil {
		return m.fail(err)
	}
	if r.IsComplete() {
		m.progress = r.Progress()
		return m, loadCmd(m.ctx, m.repo)
	}
	return m, nil
}

func (m Model) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.quiz
	key := msg.String()
	switch key {
	case KeyQuit:
		return m, tea.Quit
	case KeyBack:
		m.view = ViewSets
		m.quiz = nil
		m.quizGen++
		return m, loadCmd(m.ctx, m.repo)
	case KeyRestart:
		if r.IsComplete() {
			r.Reset()
			m.quizGen++
			return m, quizTickCmd(m.quizGen)
		}
		return m, nil
	}
	if r.IsComplete() {
		return m, nil
	}

	if r.ShowingResult() {
		if key != KeyEnter {
			return m, nil
		}
		if err := r.Next(m.ctx); err != nil {
			return m.fail(err)
		}
		if r.IsComplete() {
			m.progress = r.Progress()
			return m, loadCmd(m.ctx, m.repo)
		}
		m.quizGen++
		return m, quizTickCmd(m.quizGen)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if opts := r.Current().Options; i < len(opts) {
			r.Select(opts[i])
		}
		return m, nil
	}
	if key == KeyEnter && r.Selected() != "" {
		if err := r.Submit(m.ctx); err != nil {
			return m.fail(err)
		}
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.editor
	switch msg.String() {
	case KeyBack:
		m.view = ViewSets
		return m, loadCmd(m.ctx, m.repo)
	case KeyTab:
		e.nextField()
		return m, nil
	case KeyUp:
		if e.selected > 0 {
			e.selected--
		}
		return m, nil
	case KeyDown:
		if e.selected < len(e.set.Cards)-1 {
			e.selected++
		}
		return m, nil
	case KeyBackspace:
		e.backspace()
		return m, nil
	case KeyDelete:
		return m.deleteSelectedCard()
	case KeyEnter:
		return m.submitEditor()
	}
	switch msg.Type {
	case tea.KeyRunes:
		e.insert(string(msg.Runes))
	case tea.KeySpace:
		e.insert(" ")
	}
	return m, nil
}

func (m Model) submitEditor() (tea.Model, tea.Cmd) {
	e := &m.editor
	if e.setID == "" {
		set, err := m.repo.CreateFlashcardSet(m.ctx, e.value(fieldName), e.value(fieldDescription))
		if err != nil {
			return m.fail(err)
		}
		m.editor = cardEditor(set)
		m.statusText = "Created " + set.Name
		return m, loadCmd(m.ctx, m.repo)
	}

	card, err := m.repo.AddFlashcard(m.ctx, e.setID, storage.NewCard{
		Front:      e.value(fieldFront),
		Back:       e.value(fieldBack),
		Category:   e.value(fieldCategory),
		Difficulty: models.Difficulty(strings.ToLower(e.value(fieldDifficulty))),
		Tags:       storage.ParseTags(e.value(fieldTags)),
	})
	if err != nil {
		return m.fail(err)
	}
	e.set.Cards = append(e.set.Cards, card)
	e.selected = len(e.set.Cards) - 1
	e.resetCardFields()
	m.statusText = "Added " + card.Front
	return m, loadCmd(m.ctx, m.repo)
}

func (m Model) deleteSelectedCard() (tea.Model, tea.Cmd) {
	e := &m.editor
	if e.setID == "" || e.selected >= len(e.set.Cards) {
		return m, nil
	}
	card := e.set.Cards[e.selected]
	if err := m.repo.DeleteFlashcard(m.ctx, e.setID, card.ID); err != nil {
		return m.fail(err)
	}
	e.set.Cards = append(e.set.Cards[:e.selected:e.selected], e.set.Cards[e.selected+1:]...)
	e.clampSelection()
	m.statusText = "Deleted " + card.Front
	return m, loadCmd(m.ctx, m.repo)
}
