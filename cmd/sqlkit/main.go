package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/TechXTT/sqlkit/pkg/cli"

	_ "github.com/duckdb/duckdb-go/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Execute(ctx)
}
