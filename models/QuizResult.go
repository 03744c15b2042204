package models

// QuizResult is the outcome of one answered quiz question.
type QuizResult struct {
	CardID    string `json:"cardId"`
	Correct   bool   `json:"correct"`
	TimeSpent int    `json:"timeSpent"` // seconds
	Attempts  int    `json:"attempts"`
}
