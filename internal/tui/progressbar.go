package tui

import (
	"fmt"
	"strings"
)

const (
	filledChar = "■"
	emptyChar  = "□"
)

// progressBar renders a bar like: ■■■■□□□□ 2/4
type progressBar struct {
	current int
	total   int
	width   int
}

func (p progressBar) view() string {
	if p.total <= 0 || p.width <= 0 {
		return ""
	}

	current := p.current
	if current < 0 {
		current = 0
	}
	if current > p.total {
		current = p.total
	}

	filled := (current * p.width) / p.total
	bar := strings.Repeat(filledChar, filled) + strings.Repeat(emptyChar, p.width-filled)

	return fmt.Sprintf("%s %d/%d", bar, current, p.total)
}
