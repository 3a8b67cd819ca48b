package main

import (
	"errors"

	"github.com/mizuchilabs/go-isqlite/pkg/diff"
	"github.com/mizuchilabs/go-isqlite/pkg/introspect"
	"github.com/mizuchilabs/go-isqlite/pkg/isqlitedb"
	"github.com/mizuchilabs/go-isqlite/pkg/migrate"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"
)

// exitCodeFor maps an error to the exit code spec.md §6 fixes: 1 for a
// user/precondition error caught before any mutation, 2 for a migration
// that started applying and failed or was refused by the destructive-
// change confirmation (errAborted), 3 for a post-commit integrity failure.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var integrity *migrate.IntegrityViolation
	if errors.As(err, &integrity) {
		return 3
	}

	var execErr *migrate.ExecutionError
	if errors.As(err, &execErr) {
		return 2
	}
	if errors.Is(err, errAborted) {
		return 2
	}

	var buildErr *schema.BuildError
	var introspectErr *introspect.Error
	var ambiguity *diff.AmbiguityError
	var precondition *isqlitedb.PreconditionError
	switch {
	case errors.As(err, &buildErr),
		errors.As(err, &introspectErr),
		errors.As(err, &ambiguity),
		errors.As(err, &precondition):
		return 1
	}

	return 1
}
