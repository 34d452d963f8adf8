package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBind(t *testing.T) {
	pg := &SQLRepository{dialect: postgresDialect}
	my := &SQLRepository{dialect: mysqlDialect}

	query := `UPDATE items SET name = ?, barcode = ? WHERE id = ? AND user_id = ?`

	assert.Equal(t, `UPDATE items SET name = $1, barcode = $2 WHERE id = $3 AND user_id = $4`, pg.bind(query))
	assert.Equal(t, query, my.bind(query))
}
