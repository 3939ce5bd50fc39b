// Package all registers every storage backend. Import for side effect:
//
//	import _ "github.com/chavan-arvind/files-utility/internal/storage/all"
package all

import (
	_ "github.com/chavan-arvind/files-utility/internal/storage/mssql"
	_ "github.com/chavan-arvind/files-utility/internal/storage/mysql"
	_ "github.com/chavan-arvind/files-utility/internal/storage/postgres"
	_ "github.com/chavan-arvind/files-utility/internal/storage/sqlite"
)
