package ui

import (
	"fmt"
	"image/color"
	"os"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/nomograph/pkg/definition"
	"github.com/OpenTraceLab/nomograph/pkg/interact"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/render"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
)

// scaleRow holds the editors of one variable
type scaleRow struct {
	eq    scale.Equation
	value widget.Editor
	start widget.Editor
	end   widget.Editor
	fix   widget.Clickable
	zoom  widget.Clickable
}

func newScaleRow(eq scale.Equation) *scaleRow {
	r := &scaleRow{eq: eq}
	for _, ed := range []*widget.Editor{&r.value, &r.start, &r.end} {
		ed.SingleLine = true
		ed.Submit = true
	}
	return r
}

type loadResult struct {
	path string
	def  nomogram.Definition
	err  error
}

// App drives the Gio nomogram viewer.
type App struct {
	window *app.Window
	ops    op.Ops

	gvTheme   *theme.Theme
	themeName render.ThemeName
	state     *State

	top    *nomogramView
	zoomed *nomogramView
	rows   map[scale.Equation]*scaleRow

	catalogMenu *menu.DropdownMenu
	catalogBtn  widget.Clickable
	openBtn     widget.Clickable
	resetBtn    widget.Clickable
	themeBtn    widget.Clickable

	openIcon   *widget.Icon
	resetIcon  *widget.Icon
	themeIcon  *widget.Icon
	lockIcon   *widget.Icon
	unlockIcon *widget.Icon
	zoomIcon   *widget.Icon

	explorer *explorer.Explorer
	loads    chan loadResult

	logList widget.List
}

// New wires the Gio window, theme, and shared state together.
func New(w *app.Window, state *State) *App {
	if state == nil {
		state = NewState(nil, nil)
	}
	gv := theme.NewTheme("", nil, true)
	themeName := state.conf.ThemeName()

	a := &App{
		window:    w,
		gvTheme:   gv,
		themeName: themeName,
		state:     state,
		rows: map[scale.Equation]*scaleRow{
			scale.Input1: newScaleRow(scale.Input1),
			scale.Input2: newScaleRow(scale.Input2),
			scale.Output: newScaleRow(scale.Output),
		},
		loads: make(chan loadResult, 1),
	}
	shaper := gv.Theme.Shaper
	a.top = newNomogramView(scale.TopView, state.conf.Screen.Geom(), render.NewTheme(themeName), shaper)
	a.zoomed = newNomogramView(scale.ZoomedView, state.conf.Zoomed.Geom(), render.NewTheme(themeName), shaper)
	a.top.onFix = a.fixed
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true

	for _, ic := range []struct {
		dst  **widget.Icon
		data []byte
	}{
		{&a.openIcon, icons.FileFolderOpen},
		{&a.resetIcon, icons.NavigationRefresh},
		{&a.themeIcon, icons.ImagePalette},
		{&a.lockIcon, icons.ActionLock},
		{&a.unlockIcon, icons.ActionLockOpen},
		{&a.zoomIcon, icons.ActionZoomIn},
	} {
		if icon, err := widget.NewIcon(ic.data); err == nil {
			*ic.dst = icon
		}
	}

	state.SetMeasurer(render.NewMeasurerWithShaper(shaper))
	if w != nil {
		state.SetInvalidateCallback(w.Invalidate)
		a.explorer = explorer.NewExplorer(w)
	}
	a.catalogMenu = a.buildCatalogMenu()
	a.applyPalette()
	return a
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	for {
		e := a.window.Event()
		if a.explorer != nil {
			a.explorer.ListenEvents(e)
		}
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) buildCatalogMenu() *menu.DropdownMenu {
	catalog := nomogram.Catalog()
	opts := make([]menu.MenuOption, 0, len(catalog))
	for _, d := range catalog {
		def := d
		label := fmt.Sprintf("%s    %s", def.Name, nomogram.EquationLabel(def))
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				return a.state.Load(def)
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, label)
				if def.ID == a.state.Definition().ID {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(420)
	return drop
}

func (a *App) applyPalette() {
	if a.themeName == render.ThemePaper {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
		})
		return
	}
	a.gvTheme.WithPalette(theme.Palette{
		Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
		Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
		ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
		ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
		Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
	})
}

func (a *App) cycleTheme() {
	a.themeName = (a.themeName + 1) % render.ThemeName(len(render.ThemeNames))
	a.top.theme = render.NewTheme(a.themeName)
	a.zoomed.theme = render.NewTheme(a.themeName)
	a.applyPalette()
}

// fixed reports a scale fixed by a long press on the overview
func (a *App) fixed(s scale.Scale) {
	a.state.setStatus(fmt.Sprintf("%s fixed", s.Core().Name))
}

func (a *App) open() {
	if a.explorer == nil {
		return
	}
	go func() {
		file, err := a.explorer.ChooseFile("toml", "sexp", "nomo", "scm")
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.loads <- loadResult{err: fmt.Errorf("file picker failed: %w", err)}
				a.window.Invalidate()
			}
			return
		}
		defer file.Close()

		f, ok := file.(*os.File)
		if !ok {
			a.loads <- loadResult{err: fmt.Errorf("unable to get file path from picker")}
			a.window.Invalidate()
			return
		}
		defs, err := definition.LoadFile(f.Name())
		r := loadResult{path: f.Name(), err: err}
		if err == nil {
			r.def = defs[0]
		}
		a.loads <- r
		a.window.Invalidate()
	}()
}

// update applies the results of background work and recreates the gesture
// controllers when the scales were replaced
func (a *App) update() {
	select {
	case r := <-a.loads:
		if r.err != nil {
			a.state.setError(r.err)
		} else if err := a.state.Load(r.def); err == nil {
			a.state.log.WithField("file", r.path).Info("definition loaded")
		}
	default:
	}

	if !a.state.TakeRebuilt() {
		return
	}
	n := a.state.Nomogram()
	if n == nil {
		return
	}
	a.top.gestures = topGestures{interact.NewTop(n, interact.WithLogger(a.state.log))}
	if s, ok := a.state.Selected(); ok {
		a.zoomed.gestures = zoomedGestures{interact.NewZoomed(n, s, interact.WithLogger(a.state.log))}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.update()

	if a.openBtn.Clicked(gtx) {
		a.open()
	}
	if a.resetBtn.Clicked(gtx) {
		if err := a.state.Reset(); err != nil {
			a.state.setError(err)
		}
	}
	if a.themeBtn.Clicked(gtx) {
		a.cycleTheme()
	}
	if a.catalogBtn.Clicked(gtx) {
		a.catalogMenu.ToggleVisibility(gtx)
	}

	paintBackground(gtx, a.gvTheme.Palette.Bg)

	return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(a.layoutToolbar),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
					layout.Flexed(0.6, func(gtx layout.Context) layout.Dimensions {
						return a.top.Layout(gtx, a.state.Nomogram(), nil)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Flexed(0.4, a.layoutSidePanel),
				)
			}),
			layout.Rigid(a.layoutStatus),
		)
	})
}
