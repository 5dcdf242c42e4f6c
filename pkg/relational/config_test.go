package relational

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	base := RelationalDbConfigModel{Host: "db", Port: "5432", Database: "agenthub", Username: "svc", Password: "pw"}

	pg := base
	pg.Type = TypePostgreSQL
	dsn, err := pg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=agenthub sslmode=disable", dsn)

	my := base
	my.Type = TypeMySQL
	my.Port = "3306"
	dsn, err = my.DSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "svc:pw@tcp(db:3306)/agenthub")
	assert.Contains(t, dsn, "parseTime=true")

	ch := base
	ch.Type = TypeClickhouse
	ch.Port = "9000"
	dsn, err = ch.DSN()
	require.NoError(t, err)
	assert.Equal(t, "clickhouse://svc:pw@db:9000/agenthub?dial_timeout=10s&read_timeout=20s", dsn)

	bad := base
	bad.Type = "oracle"
	_, err = bad.DSN()
	assert.Error(t, err)
}
