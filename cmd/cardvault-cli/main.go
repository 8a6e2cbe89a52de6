package main

import (
	"context"
	"os"

	"cardvault-backend/cmd/cardvault-cli/commands"
	"cardvault-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(os.Getenv("CARDVAULT_DEBUG") != "")

	tel, err := telemetry.SetupFromEnv(ctx, "cardvault-cli")
	if err == nil {
		defer tel.Shutdown(context.Background())
	}

	commands.ExecuteContext(ctx)
}
