package models

import "time"

type StudyMode string

const (
	ModeStudy StudyMode = "study"
	ModeQuiz  StudyMode = "quiz"
)

// StudySession is one run of study or quiz mode. SetID is not checked against
// existing sets.
type StudySession struct {
	ID             string     `json:"id"`
	SetID          string     `json:"setId"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	CardsStudied   int        `json:"cardsStudied"`
	CorrectAnswers int        `json:"correctAnswers"`
	Mode           StudyMode  `json:"mode"`
}
