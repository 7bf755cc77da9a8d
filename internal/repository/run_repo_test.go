package repository_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"thermocycle"
	"thermocycle/internal/repository"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func sampleRun() thermocycle.ProfileRun {
	cfg := thermocycle.CycleConfig{
		InitialTemp: 70, InitialTime: 0.5,
		RecoveryTemp: 40, RecoveryTime: 0.5,
		HighTemp: 100, LowTemp: -20,
		FirstHighTime: 0.25, FirstLowTime: 2,
		LastHighTime: 0.25, LastLowTime: 2,
		MiddleHighTime: 1, MiddleLowTime: 1,
		HeatRate: 180, CoolRate: 240,
		Cycles: 3,
	}
	profile := thermocycle.Profile{
		{TimeH: 0, TempC: 70, Label: "initial hold start"},
		{TimeH: 0.5, TempC: 70, Label: "initial hold end"},
	}
	return thermocycle.ProfileRun{
		ID:         "run-1",
		Name:       "shock board A",
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Config:     cfg,
		Profile:    profile,
		KeyPoints:  thermocycle.KeyPointSet{0, 1},
		PointCount: 2,
		DurationH:  0.5,
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(b)
}

func TestRunSQLite_Insert(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)
	run := sampleRun()

	mock.ExpectExec("INSERT INTO profile_runs").
		WithArgs(
			run.ID,
			run.Name,
			"2025-06-01 12:00:00",
			mustJSON(t, run.Config),
			mustJSON(t, run.Profile),
			mustJSON(t, run.KeyPoints),
			run.Config.Cycles,
			run.PointCount,
			run.DurationH,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Insert(testCtx(t), run); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunSQLite_Insert_FillsDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)
	run := sampleRun()
	run.ID = ""
	run.CreatedAt = time.Time{}

	// Generated id and stamped time: match argument count, not values.
	mock.ExpectExec("INSERT INTO profile_runs").
		WithArgs(
			sqlmock.AnyArg(),
			run.Name,
			sqlmock.AnyArg(),
			mustJSON(t, run.Config),
			mustJSON(t, run.Profile),
			mustJSON(t, run.KeyPoints),
			run.Config.Cycles,
			run.PointCount,
			run.DurationH,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Insert(testCtx(t), run); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunSQLite_Get(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)
	want := sampleRun()

	rows := sqlmock.NewRows([]string{
		"id", "name", "created_at", "config", "profile", "key_points", "point_count", "duration_h",
	}).AddRow(
		want.ID,
		want.Name,
		want.CreatedAt,
		mustJSON(t, want.Config),
		mustJSON(t, want.Profile),
		mustJSON(t, want.KeyPoints),
		want.PointCount,
		want.DurationH,
	)

	mock.ExpectQuery("SELECT id, name, created_at, config, profile, key_points, point_count, duration_h").
		WithArgs(want.ID).
		WillReturnRows(rows)

	got, err := repo.Get(testCtx(t), want.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Get mismatch:\n got %+v\nwant %+v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunSQLite_Get_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)

	mock.ExpectQuery("SELECT id, name, created_at, config, profile, key_points, point_count, duration_h").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(testCtx(t), "missing")
	if !errors.Is(err, repository.ErrRunNotFound) {
		t.Fatalf("Get error = %v, want ErrRunNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunSQLite_Get_BadColumn(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)
	want := sampleRun()

	rows := sqlmock.NewRows([]string{
		"id", "name", "created_at", "config", "profile", "key_points", "point_count", "duration_h",
	}).AddRow(
		want.ID, want.Name, want.CreatedAt,
		"{not json",
		mustJSON(t, want.Profile),
		mustJSON(t, want.KeyPoints),
		want.PointCount, want.DurationH,
	)

	mock.ExpectQuery("SELECT id, name, created_at, config, profile, key_points, point_count, duration_h").
		WithArgs(want.ID).
		WillReturnRows(rows)

	_, err = repo.Get(testCtx(t), want.ID)
	if err == nil || !regexp.MustCompile("decode config column").MatchString(err.Error()) {
		t.Fatalf("Get error = %v, want config decode failure", err)
	}
}

func TestRunSQLite_List(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "cycles", "point_count", "duration_h"}).
		AddRow("run-2", "b", t2, 5, 22, 12.5).
		AddRow("run-1", "a", t1, 3, 14, 8.25)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, created_at, cycles, point_count, duration_h FROM profile_runs ORDER BY created_at DESC`,
	)).WillReturnRows(rows)

	got, err := repo.List(testCtx(t), time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "run-2" || got[1].ID != "run-1" {
		t.Fatalf("unexpected summaries: %+v", got)
	}
	if got[0].Cycles != 5 || got[0].PointCount != 22 || got[0].DurationH != 12.5 {
		t.Fatalf("summary columns off: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunSQLite_List_FiltersAndLimit(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewRunSQLite(db)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	query := `SELECT id, name, created_at, cycles, point_count, duration_h FROM profile_runs` +
		` WHERE created_at >= ? AND created_at <= ? ORDER BY created_at DESC LIMIT ?`

	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "cycles", "point_count", "duration_h"}).
		AddRow("run-9", "x", from.Add(time.Hour), 3, 14, 8.25)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-06-01 00:00:00", "2025-06-30 23:59:59", 10).
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), from, to, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "run-9" {
		t.Fatalf("unexpected summaries: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
