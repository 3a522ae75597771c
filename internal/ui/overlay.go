package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modsurf/modsurf/internal/snippet"
	"github.com/modsurf/modsurf/internal/theme"
)

// OverlayOptions are the open-options of the modal overlay. They are
// fixed when the modal opens and reapplied on every content update.
type OverlayOptions struct {
	Size string // "default", "wide", "small"
}

// Overlay is the modal overlay drawn over the page. Show is
// idempotent: lifecycle callbacks fire only on actual transitions,
// with OnHide running before the overlay visually closes and OnHidden
// after.
type Overlay struct {
	shown   bool
	options OverlayOptions
	title   string
	content string
	loaded  bool

	width  int
	height int

	onShow   []func()
	onHide   []func()
	onHidden []func()
}

// NewOverlay creates a hidden overlay.
func NewOverlay() *Overlay {
	return &Overlay{options: OverlayOptions{Size: "default"}}
}

// Show opens the overlay. Already-open overlays keep their options.
func (o *Overlay) Show(opener *snippet.Element, options any) {
	if o.shown {
		return
	}
	o.shown = true
	o.loaded = false
	o.content = ""
	o.title = ""
	if opts, ok := options.(OverlayOptions); ok {
		o.options = opts
	}
	for _, fn := range o.onShow {
		fn()
	}
}

// Hide closes the overlay.
func (o *Overlay) Hide() {
	if !o.shown {
		return
	}
	for _, fn := range o.onHide {
		fn()
	}
	o.shown = false
	o.content = ""
	o.loaded = false
	for _, fn := range o.onHidden {
		fn()
	}
}

// IsShown reports whether the overlay is open.
func (o *Overlay) IsShown() bool { return o.shown }

// OptionsFor derives open-options from the triggering element's
// declared attributes.
func (o *Overlay) OptionsFor(el *snippet.Element) any {
	opts := OverlayOptions{Size: "default"}
	if el != nil {
		if v, ok := el.Attr("data-modal-size"); ok && v != "" {
			opts.Size = v
		}
	}
	return opts
}

// SetOptions reapplies open-options on a content update.
func (o *Overlay) SetOptions(options any) {
	if opts, ok := options.(OverlayOptions); ok {
		o.options = opts
	}
}

// DispatchLoad marks the overlay's content as freshly loaded under the
// given options.
func (o *Overlay) DispatchLoad(options any) {
	o.SetOptions(options)
	o.loaded = true
}

// OnShow registers a callback for the hidden-to-shown transition.
func (o *Overlay) OnShow(fn func()) { o.onShow = append(o.onShow, fn) }

// OnHide registers a callback run before the overlay visually closes.
func (o *Overlay) OnHide(fn func()) { o.onHide = append(o.onHide, fn) }

// OnHidden registers a callback run after the overlay finished closing.
func (o *Overlay) OnHidden(fn func()) { o.onHidden = append(o.onHidden, fn) }

// SetSize sets the available screen area.
func (o *Overlay) SetSize(w, h int) {
	o.width = w
	o.height = h
}

// SetContent replaces the overlay's rendered body.
func (o *Overlay) SetContent(title, content string) {
	o.title = title
	o.content = content
	o.loaded = true
}

// ContentWidth returns the inner width available to overlay content,
// derived from the open-options size.
func (o *Overlay) ContentWidth() int {
	w := o.width
	switch o.options.Size {
	case "wide":
		w = w * 9 / 10
	case "small":
		w = w / 2
	default:
		w = w * 7 / 10
	}
	if w > 110 {
		w = 110
	}
	if w < 20 {
		w = 20
	}
	return w - 4
}

// View renders the overlay as a bordered box.
func (o *Overlay) View() string {
	if !o.shown {
		return ""
	}

	t := theme.Current

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Italic(true)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	innerWidth := o.ContentWidth()

	body := o.content
	if !o.loaded {
		body = dimStyle.Render("Loading...")
	}

	maxBodyHeight := o.height - 8
	if maxBodyHeight < 3 {
		maxBodyHeight = 3
	}
	lines := strings.Split(body, "\n")
	if len(lines) > maxBodyHeight {
		lines = lines[:maxBodyHeight]
		lines = append(lines, dimStyle.Render("…"))
	}
	body = strings.Join(lines, "\n")

	header := titleStyle.Render("◈ " + o.titleOrDefault())
	rule := separatorStyle.Render(strings.Repeat("─", innerWidth))
	footer := dimStyle.Render("Esc to close")

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		rule,
		"",
		body,
		"",
		rule,
		footer,
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(innerWidth + 4)

	return boxStyle.Render(content)
}

func (o *Overlay) titleOrDefault() string {
	if o.title != "" {
		return o.title
	}
	return "Modal"
}
