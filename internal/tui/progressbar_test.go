package tui

import (
	"strings"
	"testing"
)

func TestProgressBar_View_Empty(t *testing.T) {
	p := progressBar{current: 0, total: 4, width: 8}
	result := p.view()

	if !strings.HasPrefix(result, "□□□□□□□□") {
		t.Errorf("expected all empty boxes, got: %s", result)
	}
	if !strings.HasSuffix(result, "0/4") {
		t.Errorf("expected 0/4, got: %s", result)
	}
}

func TestProgressBar_View_Half(t *testing.T) {
	p := progressBar{current: 2, total: 4, width: 8}
	result := p.view()

	if !strings.HasPrefix(result, "■■■■□□□□") {
		t.Errorf("expected half filled ■■■■□□□□, got: %s", result)
	}
	if !strings.HasSuffix(result, "2/4") {
		t.Errorf("expected 2/4, got: %s", result)
	}
}

func TestProgressBar_View_Full(t *testing.T) {
	p := progressBar{current: 4, total: 4, width: 8}
	result := p.view()

	if !strings.HasPrefix(result, "■■■■■■■■") {
		t.Errorf("expected all filled boxes, got: %s", result)
	}
	if !strings.HasSuffix(result, "4/4") {
		t.Errorf("expected 4/4, got: %s", result)
	}
}

func TestProgressBar_View_ZeroTotal(t *testing.T) {
	p := progressBar{current: 2, total: 0, width: 8}
	if result := p.view(); result != "" {
		t.Errorf("expected empty string for zero total, got: %s", result)
	}
}

func TestProgressBar_View_CurrentExceedsTotal(t *testing.T) {
	p := progressBar{current: 9, total: 4, width: 8}
	result := p.view()

	if !strings.HasPrefix(result, "■■■■■■■■") {
		t.Errorf("expected all filled for overflow, got: %s", result)
	}
	if !strings.HasSuffix(result, "4/4") {
		t.Errorf("expected clamp to 4/4, got: %s", result)
	}
}
