// migrate aplica las migraciones SQL del servicio (archivos *_up.sql y
// *_down.sql en orden lexicográfico).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/sessiond/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.example.yaml", "Path to YAML config")
		dir        = flag.String("dir", "migrations/postgres", "Migrations directory (contains *_up.sql and *_down.sql)")
	)
	flag.Parse()

	// Positional args: [action] [steps]
	action := "up"
	steps := 0
	args := flag.Args()
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			steps = n
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	switch action {
	case "up":
		files, err := listSQL(*dir, "_up.sql")
		if err != nil {
			log.Fatalf("list up: %v", err)
		}
		if len(files) == 0 {
			log.Println("No *_up.sql migrations found. Nothing to do.")
			return
		}
		sort.Strings(files)
		if steps > 0 && steps < len(files) {
			files = files[:steps]
		}
		log.Printf("Applying %d up migration(s)...", len(files))
		for _, f := range files {
			if err := execSQLFile(ctx, pool, f); err != nil {
				log.Fatalf("exec %s: %v", f, err)
			}
		}
		log.Println("Up migrations completed.")

	case "down":
		files, err := listSQL(*dir, "_down.sql")
		if err != nil {
			log.Fatalf("list down: %v", err)
		}
		if len(files) == 0 {
			log.Println("No *_down.sql migrations found. Nothing to do.")
			return
		}
		sort.Strings(files)
		reverseInPlace(files)
		if steps > 0 && steps < len(files) {
			files = files[:steps]
		}
		log.Printf("Applying %d down migration(s)...", len(files))
		for _, f := range files {
			if err := execSQLFile(ctx, pool, f); err != nil {
				log.Fatalf("exec %s: %v", f, err)
			}
		}
		log.Println("Down migrations completed.")

	default:
		log.Fatalf("unknown action %q (want up|down)", action)
	}
}

func listSQL(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func reverseInPlace(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	log.Printf("  %s (%s)", filepath.Base(path), time.Since(start).Round(time.Millisecond))
	return nil
}
