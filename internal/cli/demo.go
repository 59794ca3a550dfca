package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/drag"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/observability"
	"github.com/matzehuels/tilepanel/pkg/panel"
)

const (
	// frameInterval paces redraws while transitions run.
	frameInterval = 16 * time.Millisecond

	// statusLines is the height of the status bar below the canvas.
	statusLines = 2
)

// demoCommand creates the interactive demo command.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		tiles   int
		fill    string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "demo [tiles.toml]",
		Short: "Drag, zoom and re-lay out tiles in the terminal",
		Long: `Drag, zoom and re-lay out tiles in the terminal.

Press and hold a tile, then move the mouse to drag it into another slot.
Dragging near the edge of the screen scrolls.

Keys:
  f          cycle fill type (row, column, table, wrap)
  a          toggle auto size (row and column)
  + / -      zoom in / out (also ctrl+wheel)
  n / x      add / remove a tile
  ↑ / ↓      scroll
  q          quit

Log output would draw over the screen, so it is discarded unless
--log-file is given.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTileFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runDemo(cmd.Context(), input, tiles, fill, logFile)
		},
	}

	cmd.Flags().IntVarP(&tiles, "tiles", "n", 12, "number of sample tiles when no file is given")
	cmd.Flags().StringVarP(&fill, "fill", "f", "", "initial fill type: row, column, table, wrap")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	_ = cmd.RegisterFlagCompletionFunc("fill", completeFillTypes)

	return cmd
}

// runDemo builds the panel and runs the bubbletea program until quit.
func (c *CLI) runDemo(ctx context.Context, input string, tiles int, fill, logFile string) error {
	fc, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err := fc.panelConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if fill != "" {
		if cfg.FillType, err = layout.ParseFillType(fill); err != nil {
			return err
		}
	}
	if input == "" {
		input = fc.Demo.Tiles
	}

	var items *collection.List
	if input != "" {
		if items, err = readTiles(input); err != nil {
			return fmt.Errorf("load tiles %s: %w", input, err)
		}
	} else {
		items = sampleTiles(tiles)
	}

	var w io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	logger := newLogger(w, loggerFromContext(ctx).GetLevel())

	events := &demoEvents{}
	observability.SetDragHooks(events)
	observability.SetZoomHooks(events)
	defer observability.Reset()

	m, err := newDemoModel(items, cfg, fc, events, logger, time.Now)
	if err != nil {
		return err
	}
	defer m.panel.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}
	return nil
}

// =============================================================================
// Event Feed
// =============================================================================

// demoEvents collects drag and zoom hook calls for the status bar.
type demoEvents struct {
	swaps int
	last  string
}

func (e *demoEvents) note(format string, args ...any) {
	e.last = fmt.Sprintf(format, args...)
}

func (e *demoEvents) OnDragStart(index int) { e.note("dragging tile %d", index+1) }

func (e *demoEvents) OnSwap(from, to int) {
	e.swaps++
	e.note("moved %d → %d", from+1, to+1)
}

func (e *demoEvents) OnAutoScroll(direction string) { e.note("scrolling %s", direction) }

func (e *demoEvents) OnDragEnd(index int, aborted bool) {
	if aborted {
		e.note("drag aborted")
		return
	}
	e.note("dropped at %d", index+1)
}

func (e *demoEvents) OnZoom(step float64, applied bool, multiplier float64) {
	if !applied {
		e.note("zoom limit reached")
		return
	}
	e.note("zoom x%.2f", multiplier)
}

func (e *demoEvents) OnAutoFit(factor, multiplier float64) { e.note("fitted x%.2f", multiplier) }

var (
	_ observability.DragHooks = (*demoEvents)(nil)
	_ observability.ZoomHooks = (*demoEvents)(nil)
)

// =============================================================================
// Viewport
// =============================================================================

// demoViewport is the scrollable window onto the panel, in layout units.
type demoViewport struct {
	panel  *panel.Panel
	size   geom.Size
	line   geom.Size
	offset geom.Point
}

func (v *demoViewport) extent() geom.Size {
	c := v.panel.LastCalculatedSize()
	return geom.Size{Width: math.Max(c.Width, v.size.Width), Height: math.Max(c.Height, v.size.Height)}
}

func (v *demoViewport) ScrollState() drag.ScrollState {
	return drag.ScrollState{
		Viewport: v.size,
		Offset:   v.offset,
		Extent:   v.extent(),
		Origin:   geom.Point{X: -v.offset.X, Y: -v.offset.Y},
		FontSize: v.line.Height,
	}
}

func (v *demoViewport) ScrollLine(d drag.Direction) {
	switch d {
	case drag.ScrollRight:
		v.scrollBy(geom.Point{X: v.line.Width})
	case drag.ScrollLeft:
		v.scrollBy(geom.Point{X: -v.line.Width})
	case drag.ScrollDown:
		v.scrollBy(geom.Point{Y: v.line.Height})
	case drag.ScrollUp:
		v.scrollBy(geom.Point{Y: -v.line.Height})
	}
}

func (v *demoViewport) scrollBy(d geom.Point) {
	ext := v.extent()
	v.offset.X = math.Max(0, math.Min(v.offset.X+d.X, ext.Width-v.size.Width))
	v.offset.Y = math.Max(0, math.Min(v.offset.Y+d.Y, ext.Height-v.size.Height))
}

var _ drag.Scroller = (*demoViewport)(nil)

// =============================================================================
// DemoModel - Interactive panel host
// =============================================================================

type tickMsg time.Time

// demoModel is the bubbletea model hosting one panel.
type demoModel struct {
	items  *collection.List
	panel  *panel.Panel
	drag   *drag.Engine
	anim   *tweener
	view   *demoViewport
	events *demoEvents
	logger *log.Logger
	now    func() time.Time

	width, height int
	ticking       bool
	err           error
}

func newDemoModel(items *collection.List, cfg panel.Config, fc fileConfig, events *demoEvents, logger *log.Logger, now func() time.Time) (demoModel, error) {
	if logger == nil {
		logger = log.Default()
	}
	anim := newTweener(now)
	p, err := panel.New(items, cfg, panel.Options{
		Logger:   logger,
		Animator: anim,
		OnConfigChanged: func(name string) {
			logger.Debug("setting changed", "name", name)
		},
	})
	if err != nil {
		return demoModel{}, err
	}

	fc.SetDefaults()
	view := &demoViewport{
		panel: p,
		line:  geom.Size{Width: fc.Demo.CellWidth, Height: fc.Demo.CellHeight},
	}
	d, err := drag.New(p, fc.dragConfig(), drag.Options{Logger: logger, Scroller: view})
	if err != nil {
		p.Close()
		return demoModel{}, err
	}
	if events == nil {
		events = &demoEvents{}
	}

	return demoModel{
		items:  items,
		panel:  p,
		drag:   d,
		anim:   anim,
		view:   view,
		events: events,
		logger: logger,
		now:    now,
	}, nil
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.size = geom.Size{
			Width:  float64(m.width) * m.view.line.Width,
			Height: float64(max(1, m.height-statusLines)) * m.view.line.Height,
		}
		_, m.err = m.panel.Layout(m.view.size)
		m.view.scrollBy(geom.Point{})

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "f":
			m.err = m.panel.SetFillType(m.panel.FillType().Next())
			m.view.scrollBy(geom.Point{})
		case "a":
			m.panel.SetAutoSizeMode(!m.panel.Config().AutoSizeMode)
		case "+", "=":
			m.panel.Zoom(true)
		case "-", "_":
			m.panel.Zoom(false)
		case "n":
			m.items.Append(collection.NewTile(fmt.Sprintf("tile %d", m.items.Len()+1), m.newTileSize()))
		case "x", "delete":
			if n := m.items.Len(); n > 0 {
				_, m.err = m.items.RemoveAt(n - 1)
				m.anim.Prune(m.items)
			}
		case "up", "k":
			m.view.ScrollLine(drag.ScrollUp)
		case "down", "j":
			m.view.ScrollLine(drag.ScrollDown)
		case "left", "h":
			m.view.ScrollLine(drag.ScrollLeft)
		case "right", "l":
			m.view.ScrollLine(drag.ScrollRight)
		}

	case tea.BlurMsg:
		m.drag.CaptureLost()

	case tickMsg:
		m.ticking = false
	}

	if !m.ticking && m.anim.Active() {
		m.ticking = true
		return m, tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

// mouse feeds pointer events to the drag engine. Ctrl+wheel zooms and
// the plain wheel scrolls.
func (m demoModel) mouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Ctrl:
		m.panel.Zoom(true)
	case msg.Button == tea.MouseButtonWheelDown && msg.Ctrl:
		m.panel.Zoom(false)
	case msg.Button == tea.MouseButtonWheelUp:
		m.view.ScrollLine(drag.ScrollUp)
	case msg.Button == tea.MouseButtonWheelDown:
		m.view.ScrollLine(drag.ScrollDown)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.drag.PointerDown(m.toPanel(msg.X, msg.Y), m.now())
	case msg.Action == tea.MouseActionMotion:
		m.drag.PointerMove(m.toPanel(msg.X, msg.Y), m.now())
	case msg.Action == tea.MouseActionRelease:
		m.drag.PointerUp()
	}
}

// toPanel converts a terminal cell to the panel point at its center.
func (m demoModel) toPanel(x, y int) geom.Point {
	return geom.Point{
		X: (float64(x)+0.5)*m.view.line.Width + m.view.offset.X,
		Y: (float64(y)+0.5)*m.view.line.Height + m.view.offset.Y,
	}
}

// newTileSize is the size of the last tile, or a default.
func (m demoModel) newTileSize() geom.Size {
	if n := m.items.Len(); n > 0 {
		return m.items.At(n - 1).Size()
	}
	return geom.Size{Width: 160, Height: 100}
}

// =============================================================================
// Rendering
// =============================================================================

func (m demoModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	cv := newCanvas(m.width, max(1, m.height-statusLines))

	raised := m.anim.Raised()
	raisedIndex := layout.NoIndex
	for i, it := range m.items.Items() {
		if it == raised {
			raisedIndex = i
			continue
		}
		cv.draw(i, m.cellRect(i, it), m.label(it), false)
	}
	if raisedIndex != layout.NoIndex {
		cv.draw(raisedIndex, m.cellRect(raisedIndex, raised), m.label(raised), true)
	}

	return cv.render() + "\n" + m.statusBar()
}

// cellRect converts an item's drawn rectangle to cell coordinates.
func (m demoModel) cellRect(i int, it collection.Item) cellRect {
	pos, ok := m.anim.Position(it)
	if !ok {
		pos = m.panel.ItemRect(i).Origin()
	}
	size := it.Size().Sanitize()
	cw, ch := m.view.line.Width, m.view.line.Height
	x0 := int(math.Round((pos.X - m.view.offset.X) / cw))
	y0 := int(math.Round((pos.Y - m.view.offset.Y) / ch))
	x1 := int(math.Round((pos.X + size.Width - m.view.offset.X) / cw))
	y1 := int(math.Round((pos.Y + size.Height - m.view.offset.Y) / ch))
	// Keep a one-cell gutter so neighbors stay apart.
	if x1-x0 > 2 {
		x1--
	}
	return cellRect{x0: x0, y0: y0, x1: max(x1, x0+1), y1: max(y1, y0+1)}
}

func (m demoModel) label(it collection.Item) string {
	if t, ok := it.(*collection.Tile); ok {
		return t.Label
	}
	return ""
}

func (m demoModel) statusBar() string {
	auto := "off"
	if m.panel.Config().AutoSizeMode {
		auto = "on"
	}
	info := fmt.Sprintf("%s · %d tiles · %d moves · zoom x%.2f · auto %s · %s",
		m.panel.FillType(), m.items.Len(), m.events.swaps, m.panel.ItemSizeMultiplier(), auto, m.drag.State())

	var last string
	switch {
	case m.err != nil:
		last = styleError.Render(m.err.Error())
	case m.events.last != "":
		last = StyleSuccess.Render(m.events.last)
	}

	keys := []string{"f fill", "a auto", "+/- zoom", "n/x add/remove", "q quit"}
	for i, k := range keys {
		name, desc, _ := strings.Cut(k, " ")
		keys[i] = styleKey.Render(name) + " " + desc
	}

	line1 := StyleTitle.Render(appName) + " " + styleStatusBar.Render(info)
	if last != "" {
		line1 += "  " + last
	}
	return line1 + "\n" + StyleDim.Render(strings.Join(keys, "  "))
}

// =============================================================================
// Canvas
// =============================================================================

type cellRect struct{ x0, y0, x1, y1 int }

type cell struct {
	r      rune
	tile   int
	raised bool
}

// canvas is a grid of cells painted tile by tile and rendered as runs of
// equally styled cells.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	cv := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range cv.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' ', tile: layout.NoIndex}
		}
		cv.cells[y] = row
	}
	return cv
}

// draw fills r with tile i and writes the label on its first row.
func (cv *canvas) draw(i int, r cellRect, label string, raised bool) {
	for y := max(0, r.y0); y < min(cv.h, r.y1); y++ {
		for x := max(0, r.x0); x < min(cv.w, r.x1); x++ {
			cv.cells[y][x] = cell{r: ' ', tile: i, raised: raised}
		}
	}
	if r.y0 < 0 || r.y0 >= cv.h {
		return
	}
	x := r.x0 + 1
	for _, ch := range label {
		if x >= r.x1-1 || x >= cv.w {
			break
		}
		if x >= 0 {
			cv.cells[r.y0][x].r = ch
		}
		x++
	}
}

func (cv *canvas) render() string {
	var b strings.Builder
	for y, row := range cv.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].tile == row[start].tile && row[x].raised == row[start].raised {
				continue
			}
			b.WriteString(cellStyle(row[start]).Render(runes(row[start:x])))
			start = x
		}
	}
	return b.String()
}

func cellStyle(c cell) lipgloss.Style {
	if c.tile == layout.NoIndex {
		return lipgloss.NewStyle()
	}
	bg := tileColors[c.tile%len(tileColors)]
	if c.raised {
		return styleRaised.Background(bg)
	}
	return StyleValue.Background(bg)
}

func runes(cells []cell) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		rs[i] = c.r
	}
	return string(rs)
}
