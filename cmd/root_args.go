package cmd

import (
	"github.com/isometry/event-echo-app/internal/config"
	"github.com/isometry/event-echo-app/internal/handler"
	"github.com/isometry/event-echo-app/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda-event', 'lambda-http' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Handler.PoweredBy: {
		Name:        "powered-by",
		Description: "The value reported as powered_by in every response",
		Env:         helpers.Ptr(handler.PoweredByEnv),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}
