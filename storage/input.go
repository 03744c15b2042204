package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrewpaige1/flashlearn/models"
)

var (
	ErrSetNotFound  = errors.New("flashcard set not found")
	ErrCardNotFound = errors.New("flashcard not found")
	ErrInvalidInput = errors.New("invalid input")
)

// NewCard holds the user-supplied fields of a card being added to a set.
type NewCard struct {
	Front      string            `json:"front"`
	Back       string            `json:"back"`
	Category   string            `json:"category"`
	Difficulty models.Difficulty `json:"difficulty"`
	Tags       []string          `json:"tags"`
}

func (c *NewCard) normalize() error {
	c.Front = strings.TrimSpace(c.Front)
	c.Back = strings.TrimSpace(c.Back)
	c.Category = strings.TrimSpace(c.Category)
	if c.Front == "" {
		return fmt.Errorf("%w: front is required", ErrInvalidInput)
	}
	if c.Back == "" {
		return fmt.Errorf("%w: back is required", ErrInvalidInput)
	}
	if c.Difficulty == "" {
		c.Difficulty = models.DifficultyEasy
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, c.Difficulty)
	}
	c.Tags = cleanTags(c.Tags)
	return nil
}

// CardPatch is a field-level update of a card. Nil fields are left unchanged.
type CardPatch struct {
	Front        *string            `json:"front,omitempty"`
	Back         *string            `json:"back,omitempty"`
	Category     *string            `json:"category,omitempty"`
	Difficulty   *models.Difficulty `json:"difficulty,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	LastReviewed *time.Time         `json:"lastReviewed,omitempty"`
	ReviewCount  *int               `json:"reviewCount,omitempty"`
	CorrectCount *int               `json:"correctCount,omitempty"`
}

func (p *CardPatch) normalize() error {
	for _, f := range []struct {
		name string
		v    *string
	}{{"front", p.Front}, {"back", p.Back}} {
		if f.v == nil {
			continue
		}
		*f.v = strings.TrimSpace(*f.v)
		if *f.v == "" {
			return fmt.Errorf("%w: %s cannot be blank", ErrInvalidInput, f.name)
		}
	}
	if p.Category != nil {
		*p.Category = strings.TrimSpace(*p.Category)
	}
	if p.Difficulty != nil && !p.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, *p.Difficulty)
	}
	if p.Tags != nil {
		p.Tags = cleanTags(p.Tags)
	}
	if (p.ReviewCount != nil && *p.ReviewCount < 0) || (p.CorrectCount != nil && *p.CorrectCount < 0) {
		return fmt.Errorf("%w: counts cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (p CardPatch) apply(c *models.Flashcard) {
	if p.Front != nil {
		c.Front = *p.Front
	}
	if p.Back != nil {
		c.Back = *p.Back
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.Tags != nil {
		c.Tags = p.Tags
	}
	if p.LastReviewed != nil {
		t := *p.LastReviewed
		c.LastReviewed = &t
	}
	if p.ReviewCount != nil {
		c.ReviewCount = *p.ReviewCount
	}
	if p.CorrectCount != nil {
		c.CorrectCount = *p.CorrectCount
	}
}

// ProgressPatch is a field-level update of the progress record.
type ProgressPatch struct {
	TotalCardsStudied *int       `json:"totalCardsStudied,omitempty"`
	TotalStudyTime    *int       `json:"totalStudyTime,omitempty"`
	StreakDays        *int       `json:"streakDays,omitempty"`
	LastStudyDate     *time.Time `json:"lastStudyDate,omitempty"`
	Achievements      []string   `json:"achievements,omitempty"`
}

func (p ProgressPatch) apply(up *models.UserProgress) {
	if p.TotalCardsStudied != nil {
		up.TotalCardsStudied = *p.TotalCardsStudied
	}
	if p.TotalStudyTime != nil {
		up.TotalStudyTime = *p.TotalStudyTime
	}
	if p.StreakDays != nil {
		up.StreakDays = *p.StreakDays
	}
	if p.LastStudyDate != nil {
		t := *p.LastStudyDate
		up.LastStudyDate = &t
	}
	if p.Achievements != nil {
		up.Achievements = p.Achievements
	}
}

// ParseTags splits comma-separated tag text as typed in the set editor.
func ParseTags(s string) []string {
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
