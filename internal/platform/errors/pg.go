package errors

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type pgClass struct {
	code  ErrorCode
	retry bool
}

// sqlStates classifies the SQLSTATE values the diff tables can raise
var sqlStates = map[string]pgClass{
	"23505": {code: ErrorCodeConflict},        // unique_violation
	"23502": {code: ErrorCodeValidation},      // not_null_violation
	"23514": {code: ErrorCodeValidation},      // check_violation
	"22001": {code: ErrorCodeInvalidArgument}, // string_data_right_truncation
	"22P02": {code: ErrorCodeInvalidArgument}, // invalid_text_representation
	"54000": {code: ErrorCodeInvalidArgument}, // program_limit_exceeded, oversized bytea

	"40001": {code: ErrorCodeDB, retry: true},          // serialization_failure
	"40P01": {code: ErrorCodeDB, retry: true},          // deadlock_detected
	"55P03": {code: ErrorCodeDB, retry: true},          // lock_not_available
	"25006": {code: ErrorCodeUnavailable},              // read_only_sql_transaction
	"57P01": {code: ErrorCodeUnavailable, retry: true}, // admin_shutdown
	"57P03": {code: ErrorCodeUnavailable, retry: true}, // cannot_connect_now
	"53300": {code: ErrorCodeUnavailable, retry: true}, // too_many_connections
}

// driverRetryText is what pgx reports when no SQLSTATE survives, such as a failed commit
var driverRetryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

// SQLState returns the SQLSTATE of the first postgres error in the chain
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

func classify(err error) ErrorCode {
	state, ok := SQLState(err)
	if !ok {
		return ErrorCodeDB
	}
	if c, ok := sqlStates[state]; ok {
		return c.code
	}
	return ErrorCodeDB
}

// FromPostgres wraps a database error under its mapped code, nil gives nil
func FromPostgres(err error, msg string) error {
	return Wrap(err, classify(err), msg)
}

// FromPostgresf is FromPostgres with a format
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, classify(err), fmt.Sprintf(format, a...))
}

func isRetryablePG(err error) bool {
	if state, ok := SQLState(err); ok {
		return sqlStates[state].retry
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range driverRetryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
