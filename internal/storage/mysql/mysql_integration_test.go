//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_reviews/internal/domain"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_InsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotel_reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotel_reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	if err := repo.InsertHotels(ctx, []domain.Hotel{
		{Name: "Hôtel Le Rivage", Brand: "Indépendant", LocationID: 188151},
	}); err != nil {
		t.Fatalf("InsertHotels: %v", err)
	}

	td := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	r1 := domain.Review{
		LocationID:    188151,
		ReviewID:      900001,
		PublishedDate: time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC),
		Rating:        4,
		Text:          "Personnel accueillant, chambre propre.",
		Title:         "Très bon séjour",
		TripType:      pstr("Couples"),
		TravelDate:    &td,
		HelpfulVotes:  2,
		Username:      pstr("ana"),
		URL:           pstr("https://example.test/r/900001"),
	}
	r2 := domain.Review{
		LocationID:    188151,
		ReviewID:      900002,
		PublishedDate: time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
		Rating:        2,
		Text:          "Chambre bruyante.",
		Title:         "Décevant",
	}
	if err := repo.InsertReviews(ctx, []domain.Review{r1, r2}); err != nil {
		t.Fatalf("InsertReviews: %v", err)
	}

	// Assert reads
	h, err := repo.HotelByLocation(ctx, 188151)
	if err != nil {
		t.Fatalf("HotelByLocation: %v", err)
	}
	if h.Name != "Hôtel Le Rivage" || h.Brand != "Indépendant" {
		t.Fatalf("unexpected hotel: %+v", h)
	}

	if _, err := repo.HotelByLocation(ctx, 404404); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	rs, err := repo.ListReviews(ctx, 188151)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(rs) != 2 || rs[0].ReviewID != 900002 {
		t.Fatalf("expected newest first, got %+v", rs)
	}
	if rs[1].TripType == nil || *rs[1].TripType != "Couples" {
		t.Fatalf("nullable columns not round-tripped: %+v", rs[1])
	}

	last, err := repo.LatestReviews(ctx, 188151, 1)
	if err != nil || len(last) != 1 || last[0].ReviewID != 900002 {
		t.Fatalf("LatestReviews: %v %+v", err, last)
	}

	ok, err := repo.ReviewExists(ctx, 900001)
	if err != nil || !ok {
		t.Fatalf("ReviewExists(900001): %v %v", ok, err)
	}
	ok, err = repo.ReviewExists(ctx, 123)
	if err != nil || ok {
		t.Fatalf("ReviewExists(123): %v %v", ok, err)
	}

	// Duplicate review_id violates the unique key and rolls the batch back.
	dup := r1
	dup.ID = 0
	if err := repo.InsertReviews(ctx, []domain.Review{dup}); err == nil {
		t.Fatalf("expected unique key violation for duplicate review_id")
	}
	rs, _ = repo.ListReviews(ctx, 188151)
	if len(rs) != 2 {
		t.Fatalf("failed batch must not leave partial rows, got %d", len(rs))
	}
}
