// Command record-import bulk-loads legacy order or payment records from
// gzip-compressed JSONL exports. Each line is a JSON object in the create
// representation; legacy identity fields are ignored and fresh identifiers
// are minted, the same as over the API.
//
// Records are deduplicated across files by their legacy "id" field using a
// bloom filter, so a duplicate export line is skipped rather than imported
// twice. The filter has a 0.1% false positive rate: a tiny fraction of
// unique records may be skipped, which the import summary makes visible.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/entrx/orderpay/internal/domain/order"
	"github.com/entrx/orderpay/internal/domain/payment"
	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/internal/storage/postgres"
	"github.com/entrx/orderpay/internal/validate"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
	maxLineBytes  = 1 << 20
)

func main() {
	var (
		databaseURL string
		entity      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&entity, "entity", "orders", "record kind to import: orders or payments")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no input files: pass one or more .jsonl.gz paths")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, entity, files); err != nil {
		slog.Error("record import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("record import completed successfully")
}

// stats aggregates per-record outcomes across all files.
type stats struct {
	imported  atomic.Uint64
	duplicate atomic.Uint64
	invalid   atomic.Uint64
}

func run(ctx context.Context, databaseURL, entity string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	create, err := makeCreateFunc(entity, pool)
	if err != nil {
		return err
	}

	dedup := newDeduplicator()
	st := &stats{}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(importFile(ctx, f, create, dedup, st))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import summary",
		slog.Uint64("imported", st.imported.Load()),
		slog.Uint64("duplicates_skipped", st.duplicate.Load()),
		slog.Uint64("invalid_skipped", st.invalid.Load()),
	)
	return nil
}

// createFunc validates one record payload and persists it with fresh identity.
type createFunc func(ctx context.Context, payload []byte) error

func makeCreateFunc(entity string, pool *pgxpool.Pool) (createFunc, error) {
	persons := person.NewStructuralValidator()
	switch entity {
	case "orders":
		svc := order.NewService(persons, postgres.NewOrderRepository(pool))
		return func(ctx context.Context, payload []byte) error {
			_, err := svc.Create(ctx, payload)
			return err
		}, nil
	case "payments":
		svc := payment.NewService(persons, postgres.NewPaymentRepository(pool))
		return func(ctx context.Context, payload []byte) error {
			_, err := svc.Create(ctx, payload)
			return err
		}, nil
	default:
		return nil, errors.Errorf("unknown entity %q: want orders or payments", entity)
	}
}

// deduplicator tracks legacy record ids seen across all files.
type deduplicator struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

func newDeduplicator() *deduplicator {
	return &deduplicator{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}
}

// seen marks key as seen and reports whether it was already present.
// Records without a legacy id are never treated as duplicates.
func (d *deduplicator) seen(key string) bool {
	if key == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter.TestAndAddString(key)
}

func importFile(ctx context.Context, path string, create createFunc, dedup *deduplicator, st *stats) func() error {
	return func() error {
		var count uint64

		err := streamGzLines(ctx, path, func(line []byte) error {
			count++
			if count%progressEvery == 0 {
				slog.Info("import progress",
					slog.String("file", path),
					slog.Uint64("records", count),
				)
			}

			if dedup.seen(legacyID(line)) {
				st.duplicate.Add(1)
				return nil
			}

			if err := create(ctx, line); err != nil {
				var vErr *validate.Error
				if errors.As(err, &vErr) {
					st.invalid.Add(1)
					return nil
				}
				return err
			}
			st.imported.Add(1)
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "import %s", path)
		}

		slog.Info("file complete", slog.String("file", path), slog.Uint64("records", count))
		return nil
	}
}

// legacyID extracts the legacy "id" field from a record payload, if any.
// Malformed payloads return an empty id and fail later in validation.
func legacyID(line []byte) string {
	var id string
	d := jx.DecodeBytes(line)
	_ = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "id" {
			s, err := d.Str()
			if err != nil {
				return err
			}
			id = s
			return nil
		}
		return d.Skip()
	})
	return id
}

// streamGzLines opens a gzip-compressed file and calls fn for each
// non-empty line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
