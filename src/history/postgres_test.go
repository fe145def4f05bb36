package history

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"build-predictor/src/upstream"
)

const buildsQueryPattern = `SELECT row_to_json\(b\)\s+FROM ci_builds b\s+WHERE b.project_name = \$1 AND b.branch = \$2`

func TestPostgresSource_FetchBuilds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(buildsQueryPattern).
		WithArgs("owner/repo", "main").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).
			AddRow([]byte(`{"id":1}`)).
			AddRow([]byte(`{"id":2}`)))

	src := NewPostgresSourceFromDB(db)
	builds, err := src.FetchBuilds(context.Background(), "owner/repo", "main")

	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, `{"id":1}`, string(builds[0]))
	assert.Equal(t, `{"id":2}`, string(builds[1]))
	assert.Equal(t, "postgres", src.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_FetchBuilds_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(buildsQueryPattern).
		WithArgs("owner/repo", "dev").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}))

	_, err = NewPostgresSourceFromDB(db).FetchBuilds(context.Background(), "owner/repo", "dev")

	assert.True(t, errors.Is(err, upstream.ErrNoBuilds))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_FetchBuilds_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(buildsQueryPattern).
		WithArgs("owner/repo", "main").
		WillReturnError(errors.New("relation \"ci_builds\" does not exist"))

	_, err = NewPostgresSourceFromDB(db).FetchBuilds(context.Background(), "owner/repo", "main")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query ci_builds")
	assert.False(t, errors.Is(err, upstream.ErrUpstreamEmpty))
}

func TestPostgresSource_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()
	require.NoError(t, NewPostgresSourceFromDB(db).Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
