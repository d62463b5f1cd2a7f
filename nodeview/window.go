package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/envnode/pkg/config"
	"github.com/itohio/envnode/pkg/device"
	"github.com/itohio/envnode/pkg/framebuffer"
	"github.com/itohio/envnode/pkg/node"
	"github.com/itohio/envnode/pkg/scope"
	"github.com/itohio/envnode/pkg/telemetry"
)

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	configPath  string
	useMock     bool
	device      device.Device
	done        chan struct{} // Closed when the record pump of device exits
	scopeWidget *scope.ScopeWidget
	window      fyne.Window
	connectBtn  *widget.Button
	status      *widget.Label
}

func runWindow(cfg *config.Config, args Args) {
	application := app.NewWithID("com.itohio.envnode")

	window := application.NewWindow("Sensor Node")
	window.CenterOnScreen()

	state := &appState{
		cfg:         cfg,
		configPath:  args.Config,
		useMock:     args.Mock,
		window:      window,
		scopeWidget: scope.New(cfg.Panel.Scale),
		status:      widget.NewLabel("Disconnected"),
	}

	content := container.NewBorder(
		createToolbar(state),
		nil,
		nil,
		nil,
		state.scopeWidget,
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		disconnect(state)
	})
	window.ShowAndRun()
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	state.connectBtn = widget.NewButtonWithIcon("Connect", theme.LoginIcon(), func() {
		handleConnect(state)
	})

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(state.connectBtn, settingsBtn),
		state.status,
		nil,
	)
}

// handleConnect toggles the connection.
func handleConnect(state *appState) {
	if state.device != nil {
		disconnect(state)
		return
	}

	dev := newDevice(state.cfg, state.useMock)
	if err := dev.Connect(); err != nil {
		target := state.cfg.Serial.Port
		if state.useMock {
			target = "mocked node"
		}
		dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", target, err), state.window)
		return
	}

	state.device = dev
	state.done = make(chan struct{})
	state.connectBtn.SetText("Disconnect")
	state.connectBtn.SetIcon(theme.LogoutIcon())
	state.status.SetText("Waiting for node")

	go pumpRecords(state, dev, state.done)
}

// disconnect closes the device and waits for its records to drain.
func disconnect(state *appState) {
	if state.device == nil {
		return
	}

	if err := state.device.Close(); err != nil {
		log.WithError(err).Warn("Closing device")
	}
	<-state.done

	state.device = nil
	state.done = nil
	state.connectBtn.SetText("Connect")
	state.connectBtn.SetIcon(theme.LoginIcon())
	state.status.SetText("Disconnected")
}

// pumpRecords draws every record on a fresh panel and hands the presented
// frame to the widget on the main thread.
func pumpRecords(state *appState, dev device.Device, done chan<- struct{}) {
	defer close(done)

	fb := framebuffer.New(node.PanelWidth, node.PanelHeight)
	panel := node.NewPanel(state.cfg.Panel.Layout())

	for rec := range dev.Records() {
		recordFields(rec).Debug("Record")

		if err := panel.Update(fb, rec); err != nil {
			log.WithError(err).Warn("Panel update")
		}

		frame := fb.Frame()
		status := fmt.Sprintf("%s  %s  %s", telemetry.Celsius(rec.TempC100), telemetry.RelHumidity(rec.HumidityC100), telemetry.Volts(rec.BatteryMilliV))
		fyne.Do(func() {
			state.scopeWidget.Update(frame, rec)
			state.status.SetText(status)
		})
	}

	log.Info("Record stream closed")
	fyne.Do(func() {
		// A user disconnect already reset the status.
		if state.device == dev {
			state.status.SetText("Node stopped")
		}
	})
}
