package repository

import sq "github.com/Masterminds/squirrel"

// psql renders $n placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
