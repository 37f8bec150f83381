package main

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Receptor serverless de resultados: valida el secreto, persiste el evento y
// avisa al bot por pg_notify. El bot es quien toca Discord.

var (
	db          *pgxpool.Pool
	secretValue = os.Getenv("WEBHOOK_HEADER_VALUE")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func init() {
	// DB opcional (si DATABASE_URL está vacío, igual respondemos 200)
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL empty; running without DB")
		return
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		fmt.Println("pgx ParseConfig:", err)
		return
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		fmt.Println("pgxpool New:", err)
		return
	}
	db = pool

	// defensivo: asegurar tablas mínimas
	_, _ = db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS webhook_dedup (
  dedup_key  TEXT PRIMARY KEY,
  received_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS result_events (
  id         BIGSERIAL PRIMARY KEY,
  type       TEXT NOT NULL,
  payload    JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
}

func readSecret(req events.APIGatewayV2HTTPRequest) string {
	// headers candidatos
	for _, k := range []string{
		strings.ToLower(os.Getenv("WEBHOOK_HEADER_NAME")), // ej: x-t0g-wh
		"x-t0g-wh",
		"x-t0g-secret",
	} {
		if k == "" {
			continue
		}
		if v := req.Headers[k]; v != "" {
			return v
		}
		if v := req.Headers[strings.ToUpper(k)]; v != "" {
			return v
		}
	}
	// query param candidato (configurable)
	qname := getenv("WEBHOOK_QUERY_NAME", "wh")
	if v := req.QueryStringParameters[strings.ToLower(qname)]; v != "" {
		return v
	}
	if v := req.QueryStringParameters[qname]; v != "" {
		return v
	}
	return ""
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	ua := ""
	ip := ""
	if req.RequestContext.HTTP.Method != "" { // HTTP API v2
		ua = req.RequestContext.HTTP.UserAgent
		ip = req.RequestContext.HTTP.SourceIP
	}
	fmt.Printf("webhook hit | path=%s method=%s ip=%s ua=%q b64=%v headers=%d\n",
		req.RawPath, req.RequestContext.HTTP.Method, ip, ua, req.IsBase64Encoded, len(req.Headers))

	// 1) validar secreto (una sola vez)
	got := readSecret(req)
	if secretValue == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secretValue)) != 1 {
		fmt.Println("auth: unauthorized (missing/invalid secret)")
		return events.APIGatewayV2HTTPResponse{StatusCode: 401, Body: "unauthorized"}, nil
	}

	// 2) body crudo
	body := req.Body
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			fmt.Println("body: invalid base64")
			return events.APIGatewayV2HTTPResponse{StatusCode: 400, Body: "invalid base64"}, nil
		}
		body = string(dec)
	}

	// 3) validar campos minimos del resultado
	var evt map[string]any
	_ = json.Unmarshal([]byte(body), &evt)
	guildID := str(get(evt, "guild_id"))
	matchID := num(get(evt, "match_id"))
	if guildID == "" || matchID <= 0 {
		fmt.Println("payload: missing guild_id/match_id")
		return events.APIGatewayV2HTTPResponse{StatusCode: 400, Body: "missing guild_id/match_id"}, nil
	}

	// 4) dedup (si hay DB)
	if db != nil {
		sum := sha256.Sum256([]byte(body))
		key := hex.EncodeToString(sum[:])

		dctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		tag, err := db.Exec(dctx, `INSERT INTO webhook_dedup(dedup_key) VALUES ($1) ON CONFLICT DO NOTHING`, key)
		cancel()
		if err != nil {
			fmt.Println("dedup insert error:", err)
		} else if tag.RowsAffected() == 0 {
			fmt.Println("dedup: duplicate event, skipping")
			return events.APIGatewayV2HTTPResponse{
				StatusCode: 200,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"ok":true,"dup":true}`,
			}, nil
		}
	}

	// 5) persistir evento y notificar al bot
	if db != nil {
		var id int64
		ctxIns, cancelIns := context.WithTimeout(ctx, 2*time.Second)
		err := db.QueryRow(ctxIns,
			`INSERT INTO result_events(type, payload) VALUES ($1, $2::jsonb) RETURNING id`,
			"match_result", body,
		).Scan(&id)
		cancelIns()
		if err != nil {
			fmt.Println("events insert:", err)
		} else {
			// pg_notify para que el bot escuche en tiempo real
			_, _ = db.Exec(context.Background(),
				`SELECT pg_notify('t0g_results', $1)`, fmt.Sprint(id),
			)
		}
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"ok":true}`,
	}, nil
}

func main() { lambda.Start(handler) }

// ---------- helpers JSON ----------
func get(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}
func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
func num(v any) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}
