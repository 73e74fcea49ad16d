package db

import (
	"testing"

	"NovaStream/config"

	"github.com/stretchr/testify/assert"
)

func TestDSNs(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "3306", DBUser: "nova", DBPassword: "pw", DBName: "novastream"}

	mysqlDSN := MySQLDSN(cfg)
	assert.Contains(t, mysqlDSN, "nova:pw@tcp(db:3306)/novastream")
	assert.Contains(t, mysqlDSN, "parseTime=true")
	assert.Contains(t, mysqlDSN, "charset=utf8mb4")

	assert.Equal(t, "host=db port=3306 user=nova password=pw dbname=novastream sslmode=disable", PostgresDSN(cfg))
}
