package ui

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/nomograph/pkg/render"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
)

func paintBackground(gtx layout.Context, c color.NRGBA) {
	paint.FillShape(gtx.Ops, c, clip.Rect{Max: gtx.Constraints.Max}.Op())
}

func (a *App) iconButton(gtx layout.Context, btn *widget.Clickable, icon *widget.Icon, fallback, description string) layout.Dimensions {
	th := a.gvTheme.Theme
	if icon == nil {
		return material.Button(th, btn, fallback).Layout(gtx)
	}
	b := material.IconButton(th, btn, icon, description)
	b.Size = unit.Dp(20)
	b.Inset = layout.UniformInset(unit.Dp(6))
	return b.Layout(gtx)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme
	snap := a.state.Snapshot()
	spacer := layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout)

	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(material.H6(th, snap.Equation).Layout),
				layout.Rigid(material.Caption(th, snap.Name).Layout),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			dims := material.Button(th, &a.catalogBtn, "Nomograms").Layout(gtx)
			a.catalogMenu.Layout(gtx, a.gvTheme)
			return dims
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.iconButton(gtx, &a.openBtn, a.openIcon, "Open", "Open a definition file")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.iconButton(gtx, &a.resetBtn, a.resetIcon, "Reset", "Reset the nomogram")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.iconButton(gtx, &a.themeBtn, a.themeIcon, render.ThemeNames[a.themeName], "Change colours")
		}),
	)
}

func (a *App) layoutSidePanel(gtx layout.Context) layout.Dimensions {
	n := a.state.Nomogram()
	var children []layout.FlexChild

	children = append(children, layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
		sel, _ := a.state.Selected()
		if sel == nil {
			return a.zoomed.Layout(gtx, nil, nil)
		}
		return a.zoomed.Layout(gtx, n, sel)
	}))
	if n != nil {
		for _, s := range n.Scales() {
			row := a.rows[s.Core().Equation]
			if row == nil {
				continue
			}
			sc := s
			children = append(children,
				layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return a.layoutRow(gtx, row, sc)
				}),
			)
		}
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

// refresh shows text in ed unless the user is typing in it
func refresh(gtx layout.Context, ed *widget.Editor, text string) {
	if !gtx.Focused(ed) && ed.Text() != text {
		ed.SetText(text)
	}
}

func submitted(gtx layout.Context, ed *widget.Editor) (string, bool) {
	for {
		ev, ok := ed.Update(gtx)
		if !ok {
			return "", false
		}
		if e, ok := ev.(widget.SubmitEvent); ok {
			return e.Text, true
		}
	}
}

func (a *App) handleRow(gtx layout.Context, row *scaleRow) {
	if text, ok := submitted(gtx, &row.value); ok {
		restored, _ := a.state.EditValue(row.eq, text)
		row.value.SetText(restored)
	}
	for _, b := range []struct {
		ed    *widget.Editor
		bound Bound
	}{{&row.start, Lower}, {&row.end, Upper}} {
		if text, ok := submitted(gtx, b.ed); ok {
			restored, _ := a.state.EditRange(row.eq, b.bound, text)
			b.ed.SetText(restored)
		}
	}
	if row.fix.Clicked(gtx) {
		a.state.Fix(row.eq)
	}
	if row.zoom.Clicked(gtx) {
		a.state.Select(row.eq)
	}

	refresh(gtx, &row.value, a.state.ValueText(row.eq))
	refresh(gtx, &row.start, a.state.BoundText(row.eq, Lower))
	refresh(gtx, &row.end, a.state.BoundText(row.eq, Upper))
}

func (a *App) layoutRow(gtx layout.Context, row *scaleRow, s scale.Scale) layout.Dimensions {
	a.handleRow(gtx, row)

	th := a.gvTheme.Theme
	core := s.Core()
	accent := a.top.theme.ScaleColor(core.Index)
	output := core.Equation == scale.Output
	row.start.ReadOnly = output
	row.end.ReadOnly = output

	name := core.Name
	if core.Unit != "" {
		name += " (" + core.Unit + ")"
	}
	editor := func(ed *widget.Editor, hint string, weight float32) layout.FlexChild {
		return layout.Flexed(weight, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(4)).Layout(gtx, material.Editor(th, ed, hint).Layout)
		})
	}
	fixIcon := a.unlockIcon
	if core.Fixed {
		fixIcon = a.lockIcon
	}

	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(0.22, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Body1(th, name)
			lbl.Color = accent
			return lbl.Layout(gtx)
		}),
		editor(&row.value, "value", 0.26),
		editor(&row.start, "start", 0.18),
		editor(&row.end, "end", 0.18),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.iconButton(gtx, &row.fix, fixIcon, "Fix", "Fix "+core.Name)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.iconButton(gtx, &row.zoom, a.zoomIcon, "Zoom", "Show "+core.Name+" in the detail view")
		}),
	)
}

func (a *App) layoutStatus(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme
	snap := a.state.Snapshot()

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(th, snap.Status)
			if snap.LastError != nil {
				lbl.Color = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
			}
			return layout.Inset{Top: unit.Dp(6)}.Layout(gtx, lbl.Layout)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Max.Y = gtx.Dp(unit.Dp(80))
			return material.List(th, &a.logList).Layout(gtx, len(snap.Logs), func(gtx layout.Context, i int) layout.Dimensions {
				return material.Caption(th, snap.Logs[i]).Layout(gtx)
			})
		}),
	)
}
