// Noise preview tool - interactive view of the wander noise field with sliders.
//
// Usage: go run ./cmd/noisepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256

	traceCount = 6
	traceTicks = 2000
)

var traceColors = []color.RGBA{
	{R: 255, G: 90, B: 90, A: 255},
	{R: 90, G: 255, B: 90, A: 255},
	{R: 90, G: 140, B: 255, A: 255},
	{R: 255, G: 220, B: 90, A: 255},
	{R: 230, G: 90, B: 255, A: 255},
	{R: 90, G: 240, B: 240, A: 255},
}

func main() {
	configPath := flag.String("config", "", "Config YAML to start from (empty = defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defaults := Params{
		Noise:      cfg.Noise,
		Seed:       12345,
		Span:       4,
		WanderStep: cfg.Microbe.WanderStep,
	}
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	grid := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var (
		traces       [][]r2.Vec
		lo, hi, mean float64
		snippet      string
		needsRegen   = true
		showTraces   = true
	)

	for !rl.WindowShouldClose() {
		if needsRegen {
			noise, err := systems.NewNoise(params.Noise, params.Seed)
			if err != nil {
				log.Fatalf("building noise: %v", err)
			}
			sampleField(noise, grid, gridSize, params.Span)
			updateTexture(texture, grid)
			lo, hi, mean = fieldStats(grid)

			traces = traces[:0]
			for i := range traceCount {
				start := float64(i) * params.Span / traceCount
				traces = append(traces, traceWander(noise, start, start*0.5, params.WanderStep, traceTicks))
			}

			if snippet, err = yamlSnippet(params); err != nil {
				snippet = err.Error()
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		if showTraces {
			drawTraces(traces)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f", lo, hi, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Traces: %d ticks of wander from %d starts", traceTicks, traceCount), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Wander Noise Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Kind: "+params.Noise.Kind) {
			if params.Noise.Kind == config.NoiseSimplex {
				params.Noise.Kind = config.NoisePerlin
			} else {
				params.Noise.Kind = config.NoiseSimplex
			}
			needsRegen = true
		}
		showTraces = gui.CheckBox(rl.Rectangle{X: panelX + 140, Y: panelY + 7, Width: 16, Height: 16}, "Show traces", showTraces)
		panelY += 45

		if v, changed := slider(panelX, &panelY, "Span (noise-space width)", "%.1f", params.Span, 0.5, 20); changed {
			params.Span = v
			needsRegen = true
		}
		if v, changed := slider(panelX, &panelY, "Wander step (per tick)", "%.4f", params.WanderStep, 0.001, 0.05); changed {
			params.WanderStep = v
			needsRegen = true
		}

		perlin := params.Noise.Kind == config.NoisePerlin
		if perlin {
			if v, changed := slider(panelX, &panelY, "Perlin alpha (octave weight)", "%.2f", params.Noise.PerlinAlpha, 1, 4); changed {
				params.Noise.PerlinAlpha = v
				needsRegen = true
			}
			if v, changed := slider(panelX, &panelY, "Perlin beta (frequency multiplier)", "%.2f", params.Noise.PerlinBeta, 1, 4); changed {
				params.Noise.PerlinBeta = v
				needsRegen = true
			}
			if v, changed := slider(panelX, &panelY, "Perlin octaves", "%.0f", float64(params.Noise.PerlinOctaves), 1, 8); changed {
				params.Noise.PerlinOctaves = int32(v)
				needsRegen = true
			}
		}

		if v, changed := slider(panelX, &panelY, "Seed", "%.0f", float64(params.Seed), 0, 99999); changed {
			params.Seed = int64(v)
			needsRegen = true
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(snippet, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and advances y. It reports the new value
// and whether it moved.
func slider(x float32, y *float32, label, format string, value, lo, hi float64) (float64, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	got := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float64(got) == float64(float32(value)) {
		return value, false
	}
	return float64(got), true
}

// drawTraces scales all wander paths to fit the preview square.
func drawTraces(traces [][]r2.Vec) {
	var extent float64
	for _, path := range traces {
		for _, p := range path {
			extent = max(extent, math.Abs(p.X), math.Abs(p.Y))
		}
	}
	if extent == 0 {
		return
	}
	scale := (previewSize/2 - 10) / extent
	cx, cy := 10+previewSize/2.0, 10+previewSize/2.0

	for i, path := range traces {
		c := traceColors[i%len(traceColors)]
		for j := 1; j < len(path); j++ {
			a := rl.Vector2{X: float32(cx + path[j-1].X*scale), Y: float32(cy + path[j-1].Y*scale)}
			b := rl.Vector2{X: float32(cx + path[j].X*scale), Y: float32(cy + path[j].Y*scale)}
			rl.DrawLineV(a, b, c)
		}
	}
}

// updateTexture maps [-1, 1] noise onto a dark blue -> cyan -> white gradient.
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		t := (v + 1) / 2
		var r, g, b float64
		if t < 0.5 {
			s := t / 0.5
			r, g, b = 10+s*30, 20+s*180, 60+s*140
		} else {
			s := (t - 0.5) / 0.5
			r, g, b = 40+s*215, 200+s*55, 200+s*55
		}
		pixels[i] = color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
