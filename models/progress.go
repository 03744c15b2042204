package models

import "time"

// UserProgress is the single progress record for the local user.
type UserProgress struct {
	TotalCardsStudied int        `json:"totalCardsStudied"`
	TotalStudyTime    int        `json:"totalStudyTime"` // minutes
	StreakDays        int        `json:"streakDays"`
	LastStudyDate     *time.Time `json:"lastStudyDate,omitempty"`
	Achievements      []string   `json:"achievements"`
}

// DefaultUserProgress is what a fresh install reports.
func DefaultUserProgress() UserProgress {
	return UserProgress{Achievements: []string{}}
}

// HasAchievement reports whether name was already earned.
func (p UserProgress) HasAchievement(name string) bool {
	for _, a := range p.Achievements {
		if a == name {
			return true
		}
	}
	return false
}
