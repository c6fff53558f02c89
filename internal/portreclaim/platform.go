package portreclaim

import (
	"log/slog"
	"runtime"
)

// PlatformLister returns the Lister for goos: netstat on Windows, lsof
// everywhere else.
func PlatformLister(goos string) Lister {
	if goos == "windows" {
		return NetstatLister{}
	}
	return LsofLister{}
}

// NewForPlatform returns a Reclaimer using the host's listing and
// termination tools and the default release wait.
func NewForPlatform(logger *slog.Logger) *Reclaimer {
	r, err := New(Config{
		Lister: PlatformLister(runtime.GOOS),
		Killer: defaultKiller(),
		Logger: logger,
	})
	if err != nil {
		// Both dependencies are non-nil, so New cannot fail here.
		panic("appenv: " + err.Error())
	}
	return r
}
