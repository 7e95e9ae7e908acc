package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container    *fyne.Container
	statusLabel  *widget.Label
	versionLabel *widget.Label
}

func NewStatusBar(buildMode string) *StatusBar {
	statusLabel := widget.NewLabel("Ready")
	versionLabel := widget.NewLabel(buildMode)

	mainContainer := container.NewBorder(
		nil, nil,
		statusLabel,
		versionLabel,
	)

	return &StatusBar{
		container:    mainContainer,
		statusLabel:  statusLabel,
		versionLabel: versionLabel,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) SetVersion(text string) {
	sb.versionLabel.SetText(text)
}

func (sb *StatusBar) Version() string {
	return sb.versionLabel.Text
}
