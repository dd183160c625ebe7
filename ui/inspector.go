package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/sim"
)

// MicrobePanel describes the inspector layout for a sim.MicrobeView.
// Health bars run up to the reproduction threshold.
func MicrobePanel(rules *config.MicrobeConfig) PanelDescriptor {
	view := func(data any) *sim.MicrobeView { return data.(*sim.MicrobeView) }
	flag := func(get func(*sim.MicrobeView) bool) func(any) string {
		return func(data any) string {
			if get(view(data)) {
				return "yes"
			}
			return "no"
		}
	}

	return PanelDescriptor{
		Title: "Microbe",
		Sections: []SectionDescriptor{
			{
				Fields: []FieldDescriptor{
					{ID: "id", Label: "ID", Widget: WidgetText, TextGetter: func(d any) string {
						return fmt.Sprintf("#%d", view(d).ID)
					}},
					{ID: "color", Label: "Colour", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
						c := view(d).Color
						return rl.Color{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
					}},
				},
			},
			{
				Title: "State",
				Fields: []FieldDescriptor{
					{ID: "health", Label: "Health", Widget: WidgetLevelBar,
						Range:  FieldRange{Min: 0, Max: float32(rules.ReproduceHealth)},
						Getter: func(d any) float32 { return float32(view(d).Health) }},
					{ID: "size", Label: "Size", Widget: WidgetText, Format: "%.2f",
						Getter: func(d any) float32 { return float32(view(d).Size) }},
					{ID: "brightness", Label: "Glow", Widget: WidgetBar, Range: FieldRange{Max: 1},
						Getter: func(d any) float32 { return float32(view(d).Brightness) }},
					{ID: "mature", Label: "Mature", Widget: WidgetText, TextGetter: flag(func(v *sim.MicrobeView) bool { return v.Mature })},
					{ID: "hungry", Label: "Hungry", Widget: WidgetText, TextGetter: flag(func(v *sim.MicrobeView) bool { return v.Hungry })},
					{ID: "boosted", Label: "Boosted", Widget: WidgetText, TextGetter: flag(func(v *sim.MicrobeView) bool { return v.Boosted })},
				},
			},
			{
				Title: "Motion",
				Fields: []FieldDescriptor{
					{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
						p := view(d).Pos
						return fmt.Sprintf("%.1f, %.1f", p.X, p.Y)
					}},
					{ID: "heading", Label: "Heading", Widget: WidgetText, Format: "%.2f rad",
						Getter: func(d any) float32 { return float32(view(d).Heading) }},
				},
			},
		},
	}
}

// Inspector renders the selected microbe's panel.
type Inspector struct {
	renderer *Renderer
	panel    PanelDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32, rules *config.MicrobeConfig) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		panel:    MicrobePanel(rules),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for v.
func (ins *Inspector) Draw(v *sim.MicrobeView) {
	r := ins.renderer
	padding := r.Theme.Padding

	r.DrawPanel(ins.x, ins.y, ins.width, ins.height())

	y := ins.y + padding
	rl.DrawText(ins.panel.Title, ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, sd := range ins.panel.Sections {
		y = r.DrawSection(ins.x+padding, y, sd, v, ins.width-padding*2)
	}
}

// height sums the rows the panel will draw.
func (ins *Inspector) height() int32 {
	t := ins.renderer.Theme
	h := t.Padding*2 + t.LineHeight + 4
	for _, sd := range ins.panel.Sections {
		if sd.Title != "" {
			h += t.LineHeight
		}
		for _, fd := range sd.Fields {
			h += t.LineHeight
			if fd.Widget == WidgetBar || fd.Widget == WidgetLevelBar {
				h += 2
			}
		}
		h += 4
	}
	return h
}
