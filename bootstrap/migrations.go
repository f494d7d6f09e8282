package bootstrap

import "devup/database"

var Migrations = []database.Migration{
	{
		Service:     "bootstrap",
		Description: "Create container table",
		Query: `CREATE TABLE IF NOT EXISTS container (
			name        text primary key,
			image       text not null,
			fingerprint text not null,
			created_at  text not null
		)`,
	},
}
