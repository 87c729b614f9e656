package main

import (
	"context"

	"github.com/Lenar23/sfmp-vseprosport-ru/cmd/sfmp/commands"
	"github.com/Lenar23/sfmp-vseprosport-ru/lib/serviceutil"
	"github.com/Lenar23/sfmp-vseprosport-ru/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "sfmp")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
