package queries_test

import (
	"testing"

	"careplan/internal/core/application/usecases/queries"
	"careplan/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetDashboardQuery_Valid(t *testing.T) {
	query := queries.NewGetDashboardQuery()
	require.NoError(t, query.Validate())
}

func TestGetDashboardQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetDashboardQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetDashboardQueryIsNotConstructed)
}

func TestNewGetPatientFormQuery_RequiresID(t *testing.T) {
	_, err := queries.NewGetPatientFormQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	id := kernel.NewUUID()
	query, err := queries.NewGetPatientFormQuery(id)
	require.NoError(t, err)
	assert.Equal(t, id, query.PatientID())
	assert.NoError(t, query.Validate())
}

func TestGetPatientFormQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetPatientFormQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetPatientFormQueryIsNotConstructed)
}
