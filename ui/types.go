// Package ui draws the inspector and control overlays. The inspector layout
// is data: each row names a widget and a getter over the selected view.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType selects how a row is drawn.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Format applied to Getter, or TextGetter
	WidgetBar                           // Fill over Range in the theme bar colour
	WidgetLevelBar                      // Fill over Range, red to green by level
	WidgetColorSwatch                   // Square filled with ColorGetter
)

// FieldRange is the span a bar fills.
type FieldRange struct {
	Min float32
	Max float32
}

// FieldDescriptor is one inspector row. Exactly one getter applies per widget.
type FieldDescriptor struct {
	ID          string
	Label       string
	Widget      WidgetType
	Format      string
	Range       FieldRange
	Getter      func(any) float32
	TextGetter  func(any) string
	ColorGetter func(any) rl.Color
}

// SectionDescriptor groups rows under an optional title.
type SectionDescriptor struct {
	Title  string
	Fields []FieldDescriptor
}

// PanelDescriptor is a titled list of sections.
type PanelDescriptor struct {
	Title    string
	Sections []SectionDescriptor
}

// Theme is the palette and metrics shared by every overlay.
type Theme struct {
	PanelBg, PanelBorder     rl.Color
	SectionHeader            rl.Color
	LabelColor, ValueColor   rl.Color
	BarBg, BarFill           rl.Color
	BarFillLow, BarFillMid   rl.Color
	BarFillHigh              rl.Color
	Padding, LineHeight      int32
	LabelWidth, BarHeight    int32
	FontSize, HeaderFontSize int32
}

// DefaultTheme is a dark translucent panel with light text.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 18, B: 26, A: 230},
		PanelBorder:    rl.Color{R: 50, G: 72, B: 90, A: 255},
		SectionHeader:  rl.Color{R: 120, G: 220, B: 230, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 36, G: 40, B: 46, A: 255},
		BarFill:        rl.Color{R: 90, G: 170, B: 210, A: 255},
		BarFillLow:     rl.Color{R: 210, G: 90, B: 90, A: 255},
		BarFillMid:     rl.Color{R: 210, G: 180, B: 90, A: 255},
		BarFillHigh:    rl.Color{R: 90, G: 200, B: 110, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
