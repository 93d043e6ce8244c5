package resolver

import (
	"github.com/charmbracelet/log"
)

// Warner is notified when a resolution falls back to a version other than
// the one requested. It observes the result and cannot change it.
type Warner interface {
	FallbackUsed(requested, chosen string)
}

// WarnFunc adapts a plain function to Warner.
type WarnFunc func(requested, chosen string)

func (f WarnFunc) FallbackUsed(requested, chosen string) {
	f(requested, chosen)
}

// Discard ignores every notification.
var Discard Warner = WarnFunc(func(string, string) {})

// LogWarner writes fallback notifications as warnings for build logs.
type LogWarner struct {
	Logger *log.Logger
}

func (w LogWarner) FallbackUsed(requested, chosen string) {
	logger := w.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Warn("exact packaged sources not found, using closest older version; if the build fails, packaged sources for this version need to be added",
		"requested", requested,
		"chosen", chosen,
	)
}
