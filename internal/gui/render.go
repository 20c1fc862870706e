package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fluidsim/internal/render"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.colors[0])

	a.drawField()
	a.drawHUD()
	a.drawTelemetry()

	rl.EndDrawing()
}

// drawField draws one quad per lit cell, grid row 0 at the bottom.
func (a *App) drawField() {
	n := a.solver.Grid().N
	scale := int32(a.opts.Scale)
	density := a.solver.Density()

	for j := 0; j < n; j++ {
		y := int32(n-1-j) * scale
		for i := 0; i < n; i++ {
			level := render.Level(density[i+n*j])
			if level == 0 {
				continue
			}
			rl.DrawRectangle(int32(i)*scale, y, scale, scale, a.colors[level])
		}
	}
}

func (a *App) drawHUD() {
	rl.DrawRectangle(10, 10, 230, 96, ColPanel)
	rl.DrawText(a.opts.Title, 20, 18, 20, ColText)

	status, col := "RUNNING", ColAccent
	switch {
	case a.err != nil:
		status, col = "FAULT", ColFault
	case a.recording:
		status, col = fmt.Sprintf("REC %d", a.recorder.Len()), ColFault
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, 150, 22, 14, col)

	rl.DrawText(fmt.Sprintf("tick %d  %d fps", a.tick, rl.GetFPS()), 20, 44, 12, ColTextDim)
	rl.DrawText(fmt.Sprintf("mass %.4f  max %.3f", a.stats.Mass, a.stats.MaxDensity), 20, 60, 12, ColText)
	rl.DrawText(fmt.Sprintf("speed %.3g  div %.1e", a.stats.MaxSpeed, a.stats.MaxDivergence), 20, 76, 12, ColText)
	rl.DrawText(a.cmap.Name(), 20, 92, 10, ColTextDim)

	size := a.Size()
	rl.DrawText("[SPACE] PAUSE  [R] RESET  [C] COLORS  [G] GIF  [Q] QUIT", 10, size-20, 10, ColTextDim)
	if a.notice != "" {
		rl.DrawText(a.notice, 10, size-36, 10, ColText)
	}
}

// drawTelemetry plots the mass history as a line strip.
func (a *App) drawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}
	size := a.Size()
	width, height := float32(200), float32(40)
	x0, y0 := float32(size)-width-10, float32(10)

	lo, hi := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	rl.DrawRectangle(int32(x0)-4, int32(y0)-4, int32(width)+8, int32(height)+8, ColPanel)
	points := make([]rl.Vector2, len(a.telemetry))
	for i, v := range a.telemetry {
		px := x0 + float32(i)/float32(telemetryCapacity)*width
		py := y0 + height - float32((v-lo)/(hi-lo))*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
}
