package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftrail/train-reservation-backend/internal/models"
)

func TestGetTrain(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		rows := sqlmock.NewRows([]string{
			"train_number", "train_name", "train_type",
			"runs_on_monday", "runs_on_tuesday", "runs_on_wednesday", "runs_on_thursday",
			"runs_on_friday", "runs_on_saturday", "runs_on_sunday",
		}).AddRow("12951", "Rajdhani Express", "SUPERFAST",
			true, true, false, true, true, false, true)

		mock.ExpectQuery(`SELECT (.+) FROM trains`).
			WithArgs("12951").
			WillReturnRows(rows)

		train, err := repo.GetTrain("12951")
		require.NoError(t, err)
		assert.Equal(t, "Rajdhani Express", train.TrainName)
		assert.True(t, train.RunsOnMonday)
		assert.False(t, train.RunsOnWednesday)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM trains`).
			WithArgs("99999").
			WillReturnRows(sqlmock.NewRows([]string{"train_number"}))

		train, err := repo.GetTrain("99999")
		require.Error(t, err)
		assert.Nil(t, train)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestGetTrainClass(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		rows := sqlmock.NewRows([]string{"train_number", "class_type", "basic_fare", "total_seats"}).
			AddRow("12951", "AC2", 2800.0, 54)

		mock.ExpectQuery(`SELECT (.+) FROM train_classes`).
			WithArgs("12951", "AC2").
			WillReturnRows(rows)

		class, err := repo.GetTrainClass("12951", "AC2")
		require.NoError(t, err)
		assert.Equal(t, 2800.0, class.BasicFare)
		assert.Equal(t, 54, class.TotalSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM train_classes`).
			WithArgs("12951", "LUXURY").
			WillReturnRows(sqlmock.NewRows([]string{"train_number"}))

		class, err := repo.GetTrainClass("12951", "LUXURY")
		require.Error(t, err)
		assert.Nil(t, class)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("Database Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM train_classes`).
			WillReturnError(fmt.Errorf("database error"))

		class, err := repo.GetTrainClass("12951", "AC2")
		require.Error(t, err)
		assert.Nil(t, class)
		assert.False(t, models.IsNotFound(err))
	})
}

func TestGetSeatStatus(t *testing.T) {
	t.Run("Falls Back To Capacity", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		journeyDate, _ := time.Parse("2006-01-02", "2026-10-01")
		rows := sqlmock.NewRows([]string{
			"train_number", "journey_date", "class_type",
			"available_seats", "rac_seats", "waitlist_count",
		}).AddRow("12951", journeyDate, "AC2", 54, 0, 0)

		mock.ExpectQuery(`FROM train_classes tc`).
			WithArgs("12951", "2026-10-01", "AC2").
			WillReturnRows(rows)

		status, err := repo.GetSeatStatus("12951", "2026-10-01", "AC2")
		require.NoError(t, err)
		assert.Equal(t, 54, status.AvailableSeats)
		assert.Equal(t, 0, status.WaitlistCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Class", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		mock.ExpectQuery(`FROM train_classes tc`).
			WithArgs("12951", "2026-10-01", "LUXURY").
			WillReturnRows(sqlmock.NewRows([]string{"train_number"}))

		status, err := repo.GetSeatStatus("12951", "2026-10-01", "LUXURY")
		require.Error(t, err)
		assert.Nil(t, status)
		assert.True(t, models.IsNotFound(err))
	})
}
