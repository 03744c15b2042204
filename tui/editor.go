package tui

import (
	"github.com/andrewpaige1/flashlearn/models"
)

type field int

const (
	fieldName field = iota
	fieldDescription
	fieldFront
	fieldBack
	fieldCategory
	fieldDifficulty
	fieldTags
)

var fieldLabels = map[field]string{
	fieldName:        "Name",
	fieldDescription: "Description",
	fieldFront:       "Front",
	fieldBack:        "Back",
	fieldCategory:    "Category",
	fieldDifficulty:  "Difficulty",
	fieldTags:        "Tags",
}

// editor holds the form state for creating a set or adding cards to one.
// An empty setID means the form creates a new set.
type editor struct {
	setID    string
	set      models.FlashcardSet
	fields   []field
	values   map[field]string
	focus    int
	selected int
}

func newSetEditor() editor {
	return editor{
		fields: []field{fieldName, fieldDescription},
		values: map[field]string{},
	}
}

func cardEditor(set models.FlashcardSet) editor {
	e := editor{
		setID:  set.ID,
		set:    set,
		fields: []field{fieldFront, fieldBack, fieldCategory, fieldDifficulty, fieldTags},
		values: map[field]string{},
	}
	e.resetCardFields()
	return e
}

func (e *editor) focused() field { return e.fields[e.focus] }

func (e *editor) value(f field) string { return e.values[f] }

func (e *editor) nextField() {
	e.focus = (e.focus + 1) % len(e.fields)
}

func (e *editor) insert(s string) {
	e.values[e.focused()] += s
}

func (e *editor) backspace() {
	v := []rune(e.values[e.focused()])
	if len(v) > 0 {
		e.values[e.focused()] = string(v[:len(v)-1])
	}
}

func (e *editor) resetCardFields() {
	for _, f := range e.fields {
		e.values[f] = ""
	}
	e.values[fieldDifficulty] = string(models.DifficultyEasy)
	e.focus = 0
}

func (e *editor) clampSelection() {
	if e.selected >= len(e.set.Cards) {
		e.selected = len(e.set.Cards) - 1
	}
	if e.selected < 0 {
		e.selected = 0
	}
}
