package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Limpieza periodica: dedup viejo, eventos de resultado procesados y torneos
// terminados hace rato (con sus equipos, partidas y bots).
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, _ = pool.Exec(cctx, `DELETE FROM webhook_dedup WHERE received_at < now() - INTERVAL '7 days';`)
	_, _ = pool.Exec(cctx, `DELETE FROM result_events WHERE created_at < now() - INTERVAL '30 days';`)

	_, _ = pool.Exec(cctx, `
DELETE FROM bracket_matches
WHERE guild_id IN (
  SELECT guild_id FROM tournaments
  WHERE status = 'FINISHED' AND updated_at < now() - INTERVAL '30 days');`)
	_, _ = pool.Exec(cctx, `
DELETE FROM teams
WHERE guild_id IN (
  SELECT guild_id FROM tournaments
  WHERE status = 'FINISHED' AND updated_at < now() - INTERVAL '30 days');`)
	_, _ = pool.Exec(cctx, `
DELETE FROM bot_players
WHERE guild_id IN (
  SELECT guild_id FROM tournaments
  WHERE status = 'FINISHED' AND updated_at < now() - INTERVAL '30 days');`)
	_, _ = pool.Exec(cctx, `
DELETE FROM tournaments
WHERE status = 'FINISHED' AND updated_at < now() - INTERVAL '30 days';`)

	return "ok", nil
}

func main() { lambda.Start(handler) }
