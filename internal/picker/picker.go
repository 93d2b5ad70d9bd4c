// Package picker wraps the native file dialogs used to choose experiment
// sources. Cancelling a dialog is not an error; it returns an empty path and
// callers treat that as "leave the setting alone".
package picker

import (
	"errors"

	"github.com/ncruces/zenity"
)

// Picker selects files and directories. The TUI depends on this interface so
// tests can run without a display server.
type Picker interface {
	VideoFile() (string, error)
	DaqFile() (string, error)
	ConfigFile() (string, error)
	Directory() (string, error)
}

// Native shows OS dialogs via zenity.
type Native struct{}

func (Native) VideoFile() (string, error) {
	return selectOne(
		zenity.Title("Select experiment video"),
		zenity.FileFilters{
			{Name: "Video files", Patterns: []string{"*.avi", "*.mp4", "*.mkv"}},
		},
	)
}

func (Native) DaqFile() (string, error) {
	return selectOne(
		zenity.Title("Select DAQ recording"),
		zenity.FileFilters{
			{Name: "DAQ files", Patterns: []string{"*.lvm", "*.xlsx", "*.csv"}},
		},
	)
}

func (Native) ConfigFile() (string, error) {
	return selectOne(
		zenity.Title("Select case configuration"),
		zenity.FileFilters{
			{Name: "Case configuration", Patterns: []string{"*.json"}},
		},
	)
}

func (Native) Directory() (string, error) {
	return selectOne(zenity.Directory(), zenity.Title("Select save directory"))
}

func selectOne(options ...zenity.Option) (string, error) {
	path, err := zenity.SelectFile(options...)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}
