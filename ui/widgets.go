package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for value within rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, width int32, leveled bool) int32 {
	ratio := normalize(value, rng)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	// Label
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	// Background
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	barColor := r.Theme.BarFill
	if leveled {
		barColor = r.levelColor(ratio)
	}

	// Fill
	fillWidth := int32(float32(barWidth) * ratio)
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, barColor)

	// Value text
	rl.DrawText(fmt.Sprintf("%.0f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// levelColor picks low/medium/high fill by ratio.
func (r *Renderer) levelColor(ratio float32) rl.Color {
	switch {
	case ratio < 0.3:
		return r.Theme.BarFillLow
	case ratio < 0.6:
		return r.Theme.BarFillMid
	default:
		return r.Theme.BarFillHigh
	}
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	swatchSize := int32(12)

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, color)

	return y + r.Theme.LineHeight
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		return r.DrawLabelValue(x, y, fd.Label, FieldText(fd, data))

	case WidgetBar, WidgetLevelBar:
		value := float32(0)
		if fd.Getter != nil {
			value = fd.Getter(data)
		}
		return r.DrawBar(x, y, fd.Label, value, fd.Range, width, fd.Widget == WidgetLevelBar)

	case WidgetColorSwatch:
		color := rl.White
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}

	for _, fd := range sd.Fields {
		y = r.DrawField(x, y, fd, data, width)
	}

	return y + 4 // Small gap after section
}

// FieldText formats a text field's value.
func FieldText(fd FieldDescriptor, data any) string {
	switch {
	case fd.TextGetter != nil:
		return fd.TextGetter(data)
	case fd.Getter != nil:
		return fmt.Sprintf(fd.Format, fd.Getter(data))
	}
	return ""
}

// normalize maps value onto [0, 1] within rng.
func normalize(value float32, rng FieldRange) float32 {
	span := rng.Max - rng.Min
	if span <= 0 {
		return 0
	}
	ratio := (value - rng.Min) / span
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
