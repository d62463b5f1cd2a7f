package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/envnode/pkg/device"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createPanelTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 400))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 400))
	d.Show()
}

// saveConfig writes the configuration and reports failures in the window.
func saveConfig(state *appState) bool {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return false
	}
	log.WithField("path", state.configPath).Info("Configuration saved")
	return true
}

// reconnect restarts a live connection so new settings take effect.
func reconnect(state *appState) {
	if state.device == nil {
		return
	}
	disconnect(state)
	handleConnect(state)
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := device.Ports()
	if err != nil {
		log.WithError(err).Warn("Listing serial ports")
	}

	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name
	for _, port := range ports {
		displayName := port.Name
		if port.Description != "" {
			displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
		}
		portOptions = append(portOptions, displayName)
		portMap[displayName] = port.Name
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			changed := false
			if portSelect.Selected != "" {
				selectedPort := portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected // Fallback to selected text
				}
				changed = changed || state.cfg.Serial.Port != selectedPort
				state.cfg.Serial.Port = selectedPort
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				changed = changed || state.cfg.Serial.BaudRate != baud
				state.cfg.Serial.BaudRate = baud
			}

			if saveConfig(state) && changed && !state.useMock {
				reconnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createPanelTab creates the Panel configuration tab.
func createPanelTab(state *appState) *container.TabItem {
	g := state.cfg.Panel.Graph

	scaleEntry := widget.NewEntry()
	scaleEntry.SetText(strconv.Itoa(state.cfg.Panel.Scale))
	xEntry := widget.NewEntry()
	xEntry.SetText(strconv.Itoa(g.X))
	yEntry := widget.NewEntry()
	yEntry.SetText(strconv.Itoa(g.Y))
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(g.Width))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(g.Height))
	chronoCheck := widget.NewCheck("Oldest reading first", nil)
	chronoCheck.SetChecked(state.cfg.Panel.Chronological)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Scale (restart to apply)", Widget: scaleEntry},
			{Text: "Graph X", Widget: xEntry},
			{Text: "Graph Y", Widget: yEntry},
			{Text: "Graph Width", Widget: widthEntry},
			{Text: "Graph Height", Widget: heightEntry},
			{Text: "Chart order", Widget: chronoCheck},
		},
		OnSubmit: func() {
			if v, err := strconv.Atoi(scaleEntry.Text); err == nil && v > 0 {
				state.cfg.Panel.Scale = v
			}
			if v, err := strconv.Atoi(xEntry.Text); err == nil {
				state.cfg.Panel.Graph.X = v
			}
			if v, err := strconv.Atoi(yEntry.Text); err == nil {
				state.cfg.Panel.Graph.Y = v
			}
			if v, err := strconv.Atoi(widthEntry.Text); err == nil {
				state.cfg.Panel.Graph.Width = v
			}
			if v, err := strconv.Atoi(heightEntry.Text); err == nil {
				state.cfg.Panel.Graph.Height = v
			}
			state.cfg.Panel.Chronological = chronoCheck.Checked

			if saveConfig(state) {
				// the panel is rebuilt per connection
				reconnect(state)
			}
		},
	}

	return container.NewTabItem("Panel", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	m := state.cfg.Mock

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(m.Interval.String())
	startEntry := widget.NewEntry()
	startEntry.SetText(formatMilliV(m.StartMilliV))
	endEntry := widget.NewEntry()
	endEntry.SetText(formatMilliV(m.EndMilliV))
	tauEntry := widget.NewEntry()
	tauEntry.SetText(m.Tau.String())
	rippleEntry := widget.NewEntry()
	rippleEntry.SetText(formatMilliV(m.RippleMilliV))
	ripplePeriodEntry := widget.NewEntry()
	ripplePeriodEntry.SetText(m.RipplePeriod.String())
	failuresEntry := widget.NewEntry()
	failuresEntry.SetText(strconv.Itoa(m.SensorFailures))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Interval", Widget: intervalEntry},
			{Text: "Start (mV)", Widget: startEntry},
			{Text: "End (mV)", Widget: endEntry},
			{Text: "Discharge Tau", Widget: tauEntry},
			{Text: "Ripple (mV)", Widget: rippleEntry},
			{Text: "Ripple Period", Widget: ripplePeriodEntry},
			{Text: "Fail Every Nth Read (0=never)", Widget: failuresEntry},
		},
		OnSubmit: func() {
			mock := &state.cfg.Mock
			if d, err := time.ParseDuration(intervalEntry.Text); err == nil && d > 0 {
				mock.Interval = d
			}
			if v, err := strconv.ParseFloat(startEntry.Text, 32); err == nil {
				mock.StartMilliV = float32(v)
			}
			if v, err := strconv.ParseFloat(endEntry.Text, 32); err == nil {
				mock.EndMilliV = float32(v)
			}
			if d, err := time.ParseDuration(tauEntry.Text); err == nil && d > 0 {
				mock.Tau = d
			}
			if v, err := strconv.ParseFloat(rippleEntry.Text, 32); err == nil {
				mock.RippleMilliV = float32(v)
			}
			if d, err := time.ParseDuration(ripplePeriodEntry.Text); err == nil && d > 0 {
				mock.RipplePeriod = d
			}
			if v, err := strconv.Atoi(failuresEntry.Text); err == nil && v >= 0 {
				mock.SensorFailures = v
			}

			if saveConfig(state) && state.useMock {
				reconnect(state)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}

func formatMilliV(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
