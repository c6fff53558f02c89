package appenv

import (
	"github.com/giantswarm/appenv/internal/core"
	"github.com/giantswarm/appenv/internal/portreclaim"
)

// Mode selects the scenario entry file: main, main_sync or main_async.
//
// Mode is a type alias so the IsValid, String and EntryName methods of
// [core.Mode] are part of the public API.
type Mode = core.Mode

const (
	// ModeDefault launches main<ext>.
	ModeDefault = core.ModeDefault
	// ModeSync launches main_sync<ext>.
	ModeSync = core.ModeSync
	// ModeAsync launches main_async<ext>.
	ModeAsync = core.ModeAsync
)

// ParseMode maps "sync" and "async" to their modes. The empty string,
// "default" and "undefined" select ModeDefault; anything else returns an
// error matching ErrUnknownMode.
func ParseMode(s string) (Mode, error) {
	return core.ParseMode(s)
}

// Method is the transport whose listeners are reclaimed before launch.
type Method = portreclaim.Method

const (
	// TCP reclaims listening TCP sockets. This is the default.
	TCP = portreclaim.TCP
	// UDP reclaims bound UDP sockets.
	UDP = portreclaim.UDP
)

// ParseMethod maps "tcp" and "udp" (any case) to their Method.
func ParseMethod(s string) (Method, error) {
	return portreclaim.ParseMethod(s)
}

// Launcher placeholders, substituted in every WithLauncher argument.
const (
	// PlaceholderAppDir is replaced by the absolute application directory.
	PlaceholderAppDir = core.PlaceholderAppDir
	// PlaceholderEntry is replaced by the entry file name, e.g. main.py.
	PlaceholderEntry = core.PlaceholderEntry
	// PlaceholderPort is replaced by the configured port.
	PlaceholderPort = core.PlaceholderPort
)
