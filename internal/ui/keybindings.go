package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Constants ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "up") || (vim && isKey(msg, "k"))
}

func isDown(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "down") || (vim && isKey(msg, "j"))
}

func isLeft(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "left") || (vim && isKey(msg, "h"))
}

func isRight(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "right") || (vim && isKey(msg, "l"))
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isSpace(msg tea.KeyMsg) bool {
	return isKey(msg, " ")
}

func isSubmit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

func isNextField(msg tea.KeyMsg) bool {
	return isKey(msg, "tab")
}

func isPrevField(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+tab")
}
