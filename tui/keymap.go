package tui

// Key binding constants used in the key handlers.
const (
	KeyQuit      = "q"
	KeyCtrlC     = "ctrl+c"
	KeyBack      = "esc"
	KeyEnter     = "enter"
	KeyTab       = "tab"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyJ         = "j"
	KeyK         = "k"
	KeySets      = "s"
	KeyNew       = "n"
	KeyEdit      = "e"
	KeyStudy     = "t"
	KeyQuiz      = "z"
	KeyFlip      = " "
	KeyCorrect   = "y"
	KeyIncorrect = "n"
	KeySkip      = "s"
	KeyRestart   = "r"
	KeyBackspace = "backspace"
	KeyDelete    = "ctrl+d"
)
