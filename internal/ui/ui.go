package ui

import (
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/nomograph/internal/config"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
)

// Run opens the viewer on def and blocks until the window closes.
func Run(conf *config.Config, log *logrus.Entry, def nomogram.Definition) error {
	state := NewState(conf, log)
	if log != nil {
		log.Logger.AddHook(state)
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Nomograph"), app.Size(unit.Dp(1200), unit.Dp(760)))
		ui := New(w, state)
		if err := state.Load(def); err != nil {
			state.log.WithError(err).Error("unable to build nomogram")
		}
		if err := ui.Run(); err != nil {
			state.log.WithError(err).Error("ui stopped")
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
