package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"pocketcalendar/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "description", "start_time", "end_time", "date", "color"}

func eventRow(id int64, title string, start, end domain.TimeOfDay, date domain.Date, color domain.Color) []driver.Value {
	return []driver.Value{id, title, "", int64(start), int64(end), int64(date), int64(color)}
}

func TestEventRepository_Insert(t *testing.T) {
	ctx := context.Background()
	date := domain.NewDate(2024, time.June, 3)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name:  "fresh id assigned",
			event: domain.NewEvent("Standup", "", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(9, 15), date, 0),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, description, start_time, end_time, date, color\)`).
					WithArgs("Standup", "", int64(domain.NewTimeOfDay(9, 0)), int64(domain.NewTimeOfDay(9, 15)), int64(date), int64(domain.DefaultColor)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			wantID:  7,
			wantErr: false,
		},
		{
			name: "explicit id upserts",
			event: &domain.Event{
				ID: 3, Title: "Standup", StartTime: domain.NewTimeOfDay(9, 0),
				EndTime: domain.NewTimeOfDay(9, 15), Date: date, Color: domain.DefaultColor,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events \(id, title, description, start_time, end_time, date, color\)`).
					WithArgs(int64(3), "Standup", "", int64(domain.NewTimeOfDay(9, 0)), int64(domain.NewTimeOfDay(9, 15)), int64(date), int64(domain.DefaultColor)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantID:  3,
			wantErr: false,
		},
		{
			name:  "storage error surfaces",
			event: domain.NewEvent("Standup", "", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(9, 15), date, 0),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			id, err := repo.Insert(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				var storageErr *domain.StorageError
				require.True(t, errors.As(err, &storageErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, id)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := domain.NewDate(2024, time.June, 3)

	tests := []struct {
		name       string
		id         int64
		mock       func(mock sqlmock.Sqlmock)
		want       *domain.Event
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_time, end_time, date, color`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(eventCols).
						AddRow(eventRow(1, "Standup", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(9, 15), date, domain.DefaultColor)...))
			},
			want: &domain.Event{
				ID: 1, Title: "Standup", StartTime: domain.NewTimeOfDay(9, 0),
				EndTime: domain.NewTimeOfDay(9, 15), Date: date, Color: domain.DefaultColor,
			},
		},
		{
			name: "not found",
			id:   99,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_time, end_time, date, color`).
					WithArgs(int64(99)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_time, end_time, date, color`).
					WithArgs(int64(1)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				require.Equal(t, tt.isNotFound, errors.Is(err, domain.ErrNotFound))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_EventsByDate(t *testing.T) {
	ctx := context.Background()
	date := domain.NewDate(2024, time.June, 3)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantLen int
		wantErr bool
	}{
		{
			name: "ordered by start time",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(eventCols).
					AddRow(eventRow(1, "Standup", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(9, 15), date, domain.DefaultColor)...).
					AddRow(eventRow(2, "Lunch", domain.NewTimeOfDay(12, 30), domain.NewTimeOfDay(14, 0), date, domain.DefaultColor)...)
				mock.ExpectQuery(`SELECT id, title, description, start_time, end_time, date, color`).
					WithArgs(int64(date)).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "empty result is a slice, not an error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_time, end_time, date, color`).
					WithArgs(int64(date)).
					WillReturnRows(sqlmock.NewRows(eventCols))
			},
			wantLen: 0,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_time, end_time, date, color`).
					WithArgs(int64(date)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.EventsByDate(ctx, date)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_EventsInRange(t *testing.T) {
	ctx := context.Background()
	from := domain.NewDate(2024, time.June, 1)
	to := domain.NewDate(2024, time.June, 30)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(eventCols).
		AddRow(eventRow(1, "A", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(10, 0), from, domain.DefaultColor)...).
		AddRow(eventRow(2, "B", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(10, 0), to, domain.DefaultColor)...)
	mock.ExpectQuery(`WHERE date BETWEEN \$1 AND \$2`).
		WithArgs(int64(from), int64(to)).
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	got, err := repo.EventsInRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, from, got[0].Date)
	require.Equal(t, to, got[1].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DatesWithEvents(t *testing.T) {
	ctx := context.Background()
	from := domain.NewDate(2024, time.June, 1)
	to := domain.NewDate(2024, time.June, 30)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT date`).
		WithArgs(int64(from), int64(to)).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).
			AddRow(int64(domain.NewDate(2024, time.June, 3))).
			AddRow(int64(domain.NewDate(2024, time.June, 10))))

	repo := NewEventRepository(db)
	got, err := repo.DatesWithEvents(ctx, from, to)
	require.NoError(t, err)
	require.Equal(t, []domain.Date{
		domain.NewDate(2024, time.June, 3),
		domain.NewDate(2024, time.June, 10),
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{
		ID: 5, Title: "Review", StartTime: domain.NewTimeOfDay(15, 0),
		EndTime: domain.NewTimeOfDay(16, 30), Date: domain.NewDate(2024, time.June, 11), Color: domain.DefaultColor,
	}

	tests := []struct {
		name       string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs(int64(5), "Review", "", int64(event.StartTime), int64(event.EndTime), int64(event.Date), int64(event.Color)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing row is not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs(int64(5), "Review", "", int64(event.StartTime), int64(event.EndTime), int64(event.Date), int64(event.Color)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Update(ctx, event)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, tt.isNotFound, errors.Is(err, domain.ErrNotFound))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete_Idempotent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Deleting a row that does not exist succeeds.
	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs(int64(123)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEventRepository(db)
	require.NoError(t, repo.Delete(ctx, 123))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM events`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NewEventRepository(db)
	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}
