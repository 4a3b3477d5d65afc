package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/shell"
)

// summarizeDesktop describes the viewport and window states in one line.
func summarizeDesktop(snap *shell.Snapshot) string {
	if snap == nil {
		return ""
	}
	var open, minimized, maximized int
	for _, w := range snap.Windows {
		switch {
		case w.Minimized:
			minimized++
		case w.Maximized:
			maximized++
			open++
		default:
			open++
		}
	}
	return fmt.Sprintf("%d×%d px • %d visible • %d minimized • %d maximized",
		snap.Viewport.Width, snap.Viewport.Height, open, minimized, maximized)
}

// paintOrder returns the visible windows bottom-most first. Windows that were
// never activated sit below every ranked window; rank 1 is drawn last.
func paintOrder(windows []shell.WindowInfo) []shell.WindowInfo {
	visible := make([]shell.WindowInfo, 0, len(windows))
	for _, w := range windows {
		if !w.Minimized {
			visible = append(visible, w)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		ri, rj := visible[i].Rank, visible[j].Rank
		if ri == 0 || rj == 0 {
			return ri == 0 && rj != 0
		}
		return ri > rj
	})
	return visible
}

// renderDesktopPreview draws the viewport with every visible window scaled
// onto a width×height character canvas. The taskbar occupies the bottom
// taskbarHeight pixels of the viewport.
func renderDesktopPreview(snap *shell.Snapshot, taskbarHeight, width, height int) []string {
	if snap == nil || width < 5 || height < 3 || snap.Viewport.Width <= 0 || snap.Viewport.Height <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	vp := snap.Viewport
	for _, w := range paintOrder(snap.Windows) {
		label := w.Title
		if w.Active {
			label = "*" + label
		}
		drawWindow(canvas, w.Layout, label, vp.Width, vp.Height, width, height)
	}
	if taskbarHeight > 0 {
		drawTaskbar(canvas, snap, vp.Height-taskbarHeight, vp.Height, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func scale(r geometry.Rect, srcW, srcH, canvasW, canvasH int) (x1, y1, x2, y2 int) {
	x1 = r.X * canvasW / srcW
	y1 = r.Y * canvasH / srcH
	x2 = (r.X + r.Width) * canvasW / srcW
	y2 = (r.Y + r.Height) * canvasH / srcH

	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)
	return x1, y1, x2, y2
}

func drawWindow(canvas [][]rune, rect geometry.Rect, label string, srcW, srcH, canvasW, canvasH int) {
	x1, y1, x2, y2 := scale(rect, srcW, srcH, canvasW, canvasH)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	// Clear the interior so windows above occlude those below.
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			canvas[y][x] = ' '
		}
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Title sits on the top edge, truncated to fit between the corners.
	room := x2 - x1 - 1
	if room <= 0 {
		return
	}
	runes := []rune(label)
	if len(runes) > room {
		runes = runes[:room]
	}
	for i, r := range runes {
		canvas[y1][x1+1+i] = r
	}
}

func drawTaskbar(canvas [][]rune, snap *shell.Snapshot, top, srcH, canvasW, canvasH int) {
	y := top * canvasH / srcH
	y = min(max(y, 1), canvasH-2)
	for x := 1; x < canvasW-1; x++ {
		canvas[y][x] = '▁'
	}
	for _, e := range snap.Taskbar {
		x1, _, x2, _ := scale(geometry.Rect{X: e.X, Width: e.Width, Height: 1}, snap.Viewport.Width, srcH, canvasW, canvasH)
		if x2 <= x1 {
			continue
		}
		mark := '▒'
		if e.Active {
			mark = '█'
		}
		for x := x1; x < x2; x++ {
			canvas[y][x] = mark
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
