package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/panel"
)

const (
	defaultLayoutWidth = 800
	defaultSampleTiles = 8
)

// layoutOptions collects the layout command flags.
type layoutOptions struct {
	fill     string
	width    float64
	height   float64
	zoom     int
	autoSize bool
	asJSON   bool
}

// layoutCommand creates the layout command for computing tile slots.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [tiles.toml]",
		Short: "Compute tile slots for a fill type and container size",
		Long: `Compute tile slots for a fill type and container size.

The layout command reads a tile set (a TOML file with [[tile]] entries
holding label, width and height), lays it out in a container of the given
size and prints where every tile lands. Without a file a sample set is used.

A width or height of 0 leaves that axis unbounded, as inside a scroll
viewer. --zoom applies that many enlarge (positive) or shrink (negative)
wheel steps before printing.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTileFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), input, opts, cmd.Flags().Changed("auto-size"))
		},
	}

	cmd.Flags().StringVarP(&opts.fill, "fill", "f", "", "fill type: row, column, table, wrap (default from config, else wrap)")
	cmd.Flags().Float64Var(&opts.width, "width", defaultLayoutWidth, "container width (0 = unbounded)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "container height (0 = unbounded)")
	cmd.Flags().IntVar(&opts.zoom, "zoom", 0, "zoom steps to apply (negative shrinks)")
	cmd.Flags().BoolVar(&opts.autoSize, "auto-size", false, "fit items to the container (row and column only)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the layout as JSON")
	_ = cmd.RegisterFlagCompletionFunc("fill", completeFillTypes)

	return cmd
}

// runLayout loads the tiles, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, w io.Writer, input string, opts layoutOptions, autoSizeSet bool) error {
	logger := loggerFromContext(ctx)

	fc, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err := fc.panelConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.fill != "" {
		ft, err := layout.ParseFillType(opts.fill)
		if err != nil {
			return err
		}
		cfg.FillType = ft
	}
	if autoSizeSet {
		cfg.AutoSizeMode = opts.autoSize
	}

	var items *collection.List
	if input != "" {
		if items, err = readTiles(input); err != nil {
			return fmt.Errorf("load tiles %s: %w", input, err)
		}
	} else {
		items = sampleTiles(defaultSampleTiles)
	}

	prog := newProgress(logger)
	res, err := computeLayout(items, cfg, available(opts.width, opts.height), opts.zoom, logger)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	prog.done(fmt.Sprintf("Laid out %d tiles", len(res.Slots)))
	fmt.Fprintln(w, renderLayoutTable(res))
	printKeyValue(w, "Fill", string(res.FillType))
	printKeyValue(w, "Size", fmt.Sprintf("%s x %s", formatUnits(res.Width), formatUnits(res.Height)))
	printKeyValue(w, "Zoom", fmt.Sprintf("x%.3f", res.Multiplier))
	return nil
}

// available converts flag values, where 0 means unbounded.
func available(width, height float64) geom.Size {
	s := geom.Size{Width: width, Height: height}
	if s.Width <= 0 {
		s.Width = math.Inf(1)
	}
	if s.Height <= 0 {
		s.Height = math.Inf(1)
	}
	return s
}

// =============================================================================
// Layout Result
// =============================================================================

// layoutResult is the output of the layout command.
type layoutResult struct {
	FillType   layout.FillType `json:"fill_type"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Multiplier float64         `json:"item_size_multiplier"`
	Slots      []slotResult    `json:"slots"`
}

type slotResult struct {
	Index  int     `json:"index"`
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Row    int     `json:"row"`
	Column int     `json:"column"`
}

// computeLayout runs one panel over items and collects where each item was
// arranged.
func computeLayout(items *collection.List, cfg panel.Config, avail geom.Size, zoomSteps int, logger *log.Logger) (layoutResult, error) {
	p, err := panel.New(items, cfg, panel.Options{Logger: logger})
	if err != nil {
		return layoutResult{}, err
	}
	defer p.Close()

	if _, err := p.Layout(avail); err != nil {
		return layoutResult{}, err
	}
	for i := 0; i < abs(zoomSteps); i++ {
		if !p.Zoom(zoomSteps > 0) {
			logger.Warn("zoom step rejected", "step", i+1, "multiplier", p.ItemSizeMultiplier())
			break
		}
	}

	size := p.LastCalculatedSize()
	res := layoutResult{
		FillType:   p.FillType(),
		Width:      size.Width,
		Height:     size.Height,
		Multiplier: p.ItemSizeMultiplier(),
		Slots:      make([]slotResult, 0, p.Len()),
	}
	for i := 0; i < p.Len(); i++ {
		r := p.ItemRect(i)
		info := p.LayoutInfo(i)
		s := slotResult{
			Index:  i,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Row:    info.Row,
			Column: info.Column,
		}
		if tile, ok := items.At(i).(*collection.Tile); ok {
			s.ID, s.Label = tile.ID, tile.Label
		}
		res.Slots = append(res.Slots, s)
	}
	return res, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// =============================================================================
// Table Output
// =============================================================================

// renderLayoutTable formats slots as a bordered table.
func renderLayoutTable(res layoutResult) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(res.Slots))
	for _, s := range res.Slots {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Label,
			shortID(s.ID),
			formatUnits(s.X),
			formatUnits(s.Y),
			formatUnits(s.Width),
			formatUnits(s.Height),
			strconv.Itoa(s.Row),
			strconv.Itoa(s.Column),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Label", "ID", "X", "Y", "W", "H", "Row", "Col").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return StyleValue
			case col == 2:
				return StyleDim
			}
			return StyleNumber
		})
	return t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatUnits prints v with at most two decimals.
func formatUnits(v float64) string {
	if math.IsInf(v, 0) {
		return "∞"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
