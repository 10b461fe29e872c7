package page

import (
	"fmt"
	"image/color"
	"strings"

	"chosenoffset.com/backdrop/internal/content"
	"chosenoffset.com/backdrop/internal/render"
)

// LineKind selects how a laid-out line is painted.
type LineKind int

const (
	KindText LineKind = iota
	KindHeading
	KindDivider
	KindSkillBar
)

// Line is one positioned element of the foreground, in page coordinates.
type Line struct {
	Kind  LineKind
	Text  string
	X, Y  int
	Level int // Skill level, KindSkillBar only
}

// minWrapWidth keeps very narrow windows from wrapping every word.
const minWrapWidth = 120

// Panel lays out the profile as a single scrolling column.
type Panel struct {
	Width int

	renderer render.Renderer
	lines    []Line
	height   int

	// Visual settings
	accent     color.RGBA
	track      color.RGBA
	divider    color.RGBA
	lineHeight int
	padding    int
	barWidth   int
	barHeight  int
}

// NewPanel creates a panel of the given width and lays out profile. Text
// is wrapped with r's text metrics.
func NewPanel(profile *content.Profile, width int, r render.Renderer) *Panel {
	p := &Panel{
		renderer:   r,
		accent:     color.RGBA{0xc6, 0x6c, 0xfd, 255},
		track:      color.RGBA{60, 60, 80, 200},
		divider:    color.RGBA{60, 60, 80, 200},
		lineHeight: 18,
		padding:    40,
		barWidth:   240,
		barHeight:  6,
	}
	p.Layout(profile, width)
	return p
}

// Lines returns the laid-out elements.
func (p *Panel) Lines() []Line { return p.lines }

// Height returns the total page height in pixels.
func (p *Panel) Height() int { return p.height }

// Layout rebuilds the lines for width. The hero section fills the first
// screenful; the other sections follow in order.
func (p *Panel) Layout(profile *content.Profile, width int) {
	p.Width = width
	p.lines = p.lines[:0]
	x := p.padding
	y := p.padding * 4

	text := func(s string) {
		for _, l := range p.wrapText(s, width-p.padding*2) {
			p.lines = append(p.lines, Line{Kind: KindText, Text: l, X: x, Y: y})
			y += p.lineHeight
		}
	}
	heading := func(s string) {
		y += p.lineHeight
		p.lines = append(p.lines, Line{Kind: KindDivider, X: x, Y: y})
		y += 8
		p.lines = append(p.lines, Line{Kind: KindHeading, Text: strings.ToUpper(s), X: x, Y: y})
		y += p.lineHeight * 2
	}

	p.lines = append(p.lines, Line{Kind: KindHeading, Text: profile.Name, X: x, Y: y})
	y += p.lineHeight * 2
	text(profile.Title)
	text(profile.Tagline)
	y += p.lineHeight * 8

	if len(profile.Education) > 0 {
		heading("Education")
		for _, e := range profile.Education {
			text(fmt.Sprintf("%s  %s", e.Year, e.Degree))
			text(e.Institution)
			y += p.lineHeight / 2
		}
	}

	if len(profile.Skills) > 0 {
		heading("Skills")
		for _, s := range profile.Skills {
			p.lines = append(p.lines, Line{Kind: KindText, Text: fmt.Sprintf("%s  %d%%", s.Name, s.Level), X: x, Y: y})
			y += p.lineHeight
			p.lines = append(p.lines, Line{Kind: KindSkillBar, X: x, Y: y, Level: s.Level})
			y += p.lineHeight
		}
	}

	if len(profile.Experience) > 0 {
		heading("Experience")
		for _, e := range profile.Experience {
			text(fmt.Sprintf("%s  %s, %s", e.Year, e.Role, e.Company))
			text(e.Description)
			y += p.lineHeight / 2
		}
	}

	if len(profile.Contacts) > 0 {
		heading("Contact")
		for _, c := range profile.Contacts {
			text(fmt.Sprintf("%s: %s", c.Label, c.Value))
		}
	}

	p.height = y + p.padding*2
}

// Draw paints the lines that fall inside the screen, shifted up by offset.
func (p *Panel) Draw(screen render.Image, r render.Renderer, offset float64) {
	_, screenHeight := screen.Size()
	for _, l := range p.lines {
		y := l.Y - int(offset)
		if y < -p.lineHeight || y > screenHeight {
			continue
		}
		switch l.Kind {
		case KindText, KindHeading:
			r.DrawText(screen, l.Text, l.X, y)
		case KindDivider:
			r.FillRect(screen, float32(l.X), float32(y), float32(p.Width-p.padding*2), 1, p.divider)
		case KindSkillBar:
			p.drawBar(screen, r, l.X, y+4, p.barWidth, p.track)
			if l.Level > 0 {
				p.drawBar(screen, r, l.X, y+4, p.barWidth*l.Level/100, p.accent)
			}
		}
	}
}

// drawBar paints a bar with round caps spanning [x, x+width].
func (p *Panel) drawBar(screen render.Image, r render.Renderer, x, y, width int, clr color.RGBA) {
	radius := float32(p.barHeight) / 2
	left := float32(x) + radius
	right := float32(x+width) - radius
	if right < left {
		right = left
	}
	r.FillRect(screen, left, float32(y), right-left, float32(p.barHeight), clr)
	r.FillCircle(screen, left, float32(y)+radius, radius, clr)
	r.FillCircle(screen, right, float32(y)+radius, radius, clr)
}

// wrapText wraps text to fit within a given pixel width
func (p *Panel) wrapText(text string, maxWidth int) []string {
	if maxWidth < minWrapWidth {
		maxWidth = minWrapWidth
	}

	words := strings.Fields(text)
	var lines []string
	var currentLine string

	for _, word := range words {
		candidate := word
		if currentLine != "" {
			candidate = currentLine + " " + word
		}
		if w, _ := p.renderer.MeasureText(candidate, 1); w > maxWidth && currentLine != "" {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine = candidate
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
