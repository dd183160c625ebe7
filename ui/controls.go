package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is what the controls panel reflects.
type ControlsState struct {
	Paused bool
	Speed  int
}

// ControlActions reports what the user did on the panel this frame.
type ControlActions struct {
	TogglePause bool
	Feed        bool
	Snapshot    bool
	Speed       int // requested speed; equals the current one when unchanged
}

const (
	buttonHeight = 24
	sliderHeight = 16
	rowGap       = 6
)

// ControlsPanel renders the side panel with raygui buttons, the speed
// slider and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Bounds returns the screen rectangle the panel occupies, so clicks on it
// are not treated as clicks on the arena.
func (c *ControlsPanel) Bounds(overlays *OverlayRegistry) rl.Rectangle {
	if !c.visible {
		return rl.Rectangle{}
	}
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height(overlays))}
}

// height computes the panel height from its rows.
func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(0)
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	// title, two button rows, slider label and slider, overlay rows
	return t.Padding*2 + t.LineHeight + 4 +
		2*(buttonHeight+rowGap) +
		t.LineHeight + sliderHeight + rowGap +
		rows*(t.LineHeight+2) + 4
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlActions {
	actions := ControlActions{Speed: state.Speed}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := float32(c.width - padding*2)
	half := (inner - rowGap) / 2

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := c.y + padding

	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: buttonHeight}, pauseText) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + rowGap, Y: float32(y), Width: half, Height: buttonHeight}, "Feed") {
		actions.Feed = true
	}
	y += buttonHeight + rowGap

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: buttonHeight}, "Save Snapshot") {
		actions.Snapshot = true
	}
	y += buttonHeight + rowGap

	rl.DrawText(fmt.Sprintf("Speed: %dx", state.Speed), c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight
	speed := gui.SliderBar(rl.Rectangle{X: x + 12, Y: float32(y), Width: inner - 36, Height: sliderHeight}, "1", "10", float32(state.Speed), 1, 10)
	actions.Speed = int(speed + 0.5)
	y += sliderHeight + rowGap

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight + 2

		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			if checked := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 12, Height: 12}, label, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			y += lineHeight + 2
		}
	}

	return actions
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
