package controllers

import (
	"errors"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/services"
	"github.com/dmorell/atelier/internal/services/identity"
	"github.com/dmorell/atelier/internal/services/profile"
)

func newAdminFixture(t *testing.T) (*services.Services, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sdb := sqlx.NewDb(db, "sqlmock")

	svc := &services.Services{
		Identity: identity.NewIdentityService(identity.NewAccountRepo(sdb)),
		Profile:  profile.NewProfileService(profile.NewProfileRepo(sdb)),
		DB:       sdb,
	}

	return svc, mock
}

func TestDeleteUserMissingProfileIs404(t *testing.T) {
	svc, mock := newAdminFixture(t)
	r := newGatedRouter("superuser", svc)

	mock.ExpectExec("DELETE FROM profile").
		WithArgs("u-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := perform(r, fasthttp.MethodDelete, "/admin/users/delete/u-missing", "", true)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.False(t, env.Success)
	assert.Equal(t, "User not found", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserRemovesProfileThenAccount(t *testing.T) {
	svc, mock := newAdminFixture(t)
	r := newGatedRouter("superuser", svc)

	mock.ExpectExec("DELETE FROM profile").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM accounts").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := perform(r, fasthttp.MethodDelete, "/admin/users/delete/u1", "", true)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.True(t, env.Success)
	assert.Equal(t, "User deleted successfully", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserAccountStepFailureIs500(t *testing.T) {
	svc, mock := newAdminFixture(t)
	r := newGatedRouter("superuser", svc)

	mock.ExpectExec("DELETE FROM profile").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM accounts").
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))

	ctx := perform(r, fasthttp.MethodDelete, "/admin/users/delete/u1", "", true)

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.False(t, env.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}
