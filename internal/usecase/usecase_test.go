package usecase

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_invoices_treatment_id"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "patients_branch_id_fkey"}

	assert.True(t, isDuplicateKeyError(dup, "treatment_id"))
	assert.False(t, isDuplicateKeyError(dup, "invoice_number"))
	assert.False(t, isDuplicateKeyError(fk, "branch_id"))
	assert.True(t, isForeignKeyError(fk, "branch_id"))
}

func TestParseOptionalID(t *testing.T) {
	id, err := parseOptionalID("")
	assert.NoError(t, err)
	assert.Nil(t, id)

	_, err = parseOptionalID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}
