package tui

import (
	"fmt"
	"strings"

	"github.com/andrewpaige1/flashlearn/models"
)

// View renders the current screen.
func (m Model) View() string {
	if !m.loaded {
		return m.statusText
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch m.view {
	case ViewHome:
		sections = append(sections, m.renderHome())
	case ViewSets:
		sections = append(sections, m.renderSets())
	case ViewEditor:
		sections = append(sections, m.renderEditor())
	case ViewStudy:
		sections = append(sections, m.renderStudy())
	case ViewQuiz:
		sections = append(sections, m.renderQuiz())
	}

	if m.errorMessage != "" {
		sections = append(sections, ErrorStyle.Render(m.errorMessage))
	} else if m.statusText != "" {
		sections = append(sections, MutedStyle.Render(m.statusText))
	}
	sections = append(sections, FooterStyle.Render(m.footer()))

	return strings.Join(sections, "\n\n")
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("FLASHLEARN")
	streak := ""
	if m.progress.StreakDays > 0 {
		streak = WarningStyle.Render(fmt.Sprintf("  %d day streak", m.progress.StreakDays))
	}
	return title + streak
}

func (m Model) renderHome() string {
	cards := 0
	for _, s := range m.sets {
		cards += len(s.Cards)
	}
	lines := []string{
		fmt.Sprintf("Sets:           %d", len(m.sets)),
		fmt.Sprintf("Cards:          %d", cards),
		fmt.Sprintf("Cards studied:  %d", m.progress.TotalCardsStudied),
		fmt.Sprintf("Study time:     %d min", m.progress.TotalStudyTime),
		fmt.Sprintf("Streak:         %d days", m.progress.StreakDays),
	}
	if len(m.progress.Achievements) > 0 {
		lines = append(lines, "Achievements:   "+strings.Join(m.progress.Achievements, ", "))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSets() string {
	if len(m.sets) == 0 {
		return MutedStyle.Render("No flashcard sets yet. Press n to create one.")
	}
	lines := make([]string, 0, len(m.sets))
	for i, s := range m.sets {
		line := fmt.Sprintf("%s  (%d cards)", s.Name, len(s.Cards))
		if s.LastStudied != nil {
			line += MutedStyle.Render("  studied " + s.LastStudied.Format("Jan 2"))
		}
		if i == m.cursor {
			lines = append(lines, SelectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEditor() string {
	e := m.editor
	var b strings.Builder
	if e.setID == "" {
		b.WriteString(TitleStyle.Render("New set"))
	} else {
		b.WriteString(TitleStyle.Render("Edit " + e.set.Name))
	}
	b.WriteString("\n")
	for i, f := range e.fields {
		label := fmt.Sprintf("%-12s", fieldLabels[f]+":")
		v := e.values[f]
		if i == e.focus {
			b.WriteString("\n" + SelectedStyle.Render(label+" "+v+"_"))
		} else {
			b.WriteString("\n" + label + " " + v)
		}
	}

	if e.setID != "" {
		b.WriteString("\n\n")
		if len(e.set.Cards) == 0 {
			b.WriteString(MutedStyle.Render("No cards yet."))
		}
		for i, c := range e.set.Cards {
			line := fmt.Sprintf("%s / %s [%s]", c.Front, c.Back, c.Difficulty)
			if i == e.selected {
				b.WriteString("\n" + SelectedStyle.Render("> "+line))
			} else {
				b.WriteString("\n  " + line)
			}
		}
	}
	return b.String()
}

func (m Model) renderStudy() string {
	r := m.study
	if r.IsComplete() {
		st := r.Stats()
		return strings.Join([]string{
			CorrectStyle.Render("Study session complete!"),
			fmt.Sprintf("Correct:   %d", st.Correct),
			fmt.Sprintf("Incorrect: %d", st.Incorrect),
			fmt.Sprintf("Accuracy:  %d%%", r.Accuracy()),
		}, "\n")
	}

	card := r.Current()
	header := fmt.Sprintf("%s  Card %d of %d", r.Set().Name, r.Index()+1, r.Len())
	text := card.Front
	if r.Flipped() {
		text = card.Back
	}
	meta := MutedStyle.Render(metaLine(card))
	return strings.Join([]string{header, CardStyle.Render(text), meta}, "\n")
}

func metaLine(c models.Flashcard) string {
	parts := []string{string(c.Difficulty)}
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	if len(c.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(c.Tags, " #"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderQuiz() string {
	r := m.quiz
	if r.IsComplete() {
		correct, total := r.Score()
		pct := 0
		if total > 0 {
			pct = correct * 100 / total
		}
		return strings.Join([]string{
			CorrectStyle.Render("Quiz complete!"),
			fmt.Sprintf("Score: %d / %d (%d%%)", correct, total, pct),
		}, "\n")
	}

	q := r.Current()
	left := int(r.TimeLeft(m.now()).Seconds())
	timer := fmt.Sprintf("%ds", left)
	if left <= 10 {
		timer = WarningStyle.Render(timer)
	}
	lines := []string{
		fmt.Sprintf("Question %d of %d  %s", r.Index()+1, r.Len(), timer),
		CardStyle.Render(q.Card.Front),
	}
	for i, opt := range q.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case r.ShowingResult() && opt == q.CorrectAnswer:
			line = CorrectStyle.Render(line)
		case r.ShowingResult() && opt == q.UserAnswer:
			line = IncorrectStyle.Render(line)
		case opt == r.Selected():
			line = SelectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if r.ShowingResult() {
		if q.IsCorrect {
			lines = append(lines, CorrectStyle.Render("Correct!"))
		} else {
			lines = append(lines, IncorrectStyle.Render("Incorrect. The answer is "+q.CorrectAnswer))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) footer() string {
	switch m.view {
	case ViewHome:
		return "s sets  n new set  q quit"
	case ViewSets:
		return "↑/↓ move  t study  z quiz  e edit  n new  esc back  q quit"
	case ViewEditor:
		return "tab next field  enter save  ↑/↓ select card  ctrl+d delete card  esc back"
	case ViewStudy:
		if m.study.IsComplete() {
			return "r study again  esc back"
		}
		if m.study.Flipped() {
			return "y got it  n missed it  s skip  esc back"
		}
		return "space flip  s skip  esc back"
	case ViewQuiz:
		if m.quiz.IsComplete() {
			return "r retake  esc back"
		}
		if m.quiz.ShowingResult() {
			return "enter next  esc back"
		}
		return "1-4 choose  enter submit  esc back"
	}
	return ""
}
