package tui

// Key bindings handled in handleKey.
const (
	KeyQuit         = "q"
	KeyCtrlC        = "ctrl+c"
	KeyLanguage     = "l"
	KeyViewMode     = "v"
	KeyRetry        = "r"
	KeyUp           = "up"
	KeyDown         = "down"
	KeyBottom       = "end"
	KeyNoneLanguage = "n"
)
