package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.Nil(t, MapDBError(nil))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	err := MapDBError(context.DeadlineExceeded)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeTimeout, appErr.Code)

	err = MapDBError(context.Canceled)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeCanceled, appErr.Code)
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeNotFound, appErr.Code)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMapDBError_PgCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
		want ErrorCode
	}{
		{"unique violation", pgerrcode.UniqueViolation, ErrCodeConflict},
		{"check violation", pgerrcode.CheckViolation, ErrCodeValidation},
		{"not null violation", pgerrcode.NotNullViolation, ErrCodeValidation},
		{"anything else", pgerrcode.SerializationFailure, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(&pgconn.PgError{Code: tt.code, ColumnName: "username"})
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.want, appErr.Code)
		})
	}
}

func TestMapDBError_Passthrough(t *testing.T) {
	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
}
